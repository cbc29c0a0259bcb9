// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/mindmaze/auth"
	"github.com/danielhkuo/mindmaze/chatbot"
	"github.com/danielhkuo/mindmaze/cliparse"
	"github.com/danielhkuo/mindmaze/handlers"
	"github.com/danielhkuo/mindmaze/media"
	"github.com/danielhkuo/mindmaze/middleware"
	"github.com/danielhkuo/mindmaze/store"
	"github.com/danielhkuo/mindmaze/videos"
)

// Services are the collaborators built outside the router. Chat and Videos
// may be nil when no API key is configured.
type Services struct {
	Verifier  auth.Verifier
	Library   handlers.LibrarySource
	Chat      chatbot.Provider
	Videos    videos.Searcher
	Media     *media.Resolver
	Exercises *handlers.ExerciseHandler
}

func NewRouter(st store.Store, cfg cliparse.Config, svc Services) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	chatHandler := handlers.NewChatHandler(st, cfg, svc.Library, svc.Chat)
	dashboardHandler := handlers.NewDashboardHandler(st, cfg, svc.Library)
	assessmentHandler := handlers.NewAssessmentHandler(st, cfg, svc.Library)
	journalHandler := handlers.NewJournalHandler(st, cfg, svc.Library)
	activityHandler := handlers.NewActivityHandler(st, cfg, svc.Library)
	faceHandler := handlers.NewFaceHandler(st, cfg)
	resourcesHandler := handlers.NewResourcesHandler(st, cfg, svc.Library, svc.Videos)
	preferencesHandler := handlers.NewPreferencesHandler(st, cfg)
	feedbackHandler := handlers.NewFeedbackHandler()
	resolver := svc.Media
	if resolver == nil {
		resolver = media.NewResolver(media.ParseRoots(cfg.AssetsDirs)...)
	}
	exerciseHandler := svc.Exercises
	if exerciseHandler == nil {
		exerciseHandler = handlers.NewExerciseHandler(st, cfg, svc.Library, nil)
	}

	mediaHandler := handlers.NewMediaHandler(st, cfg, resolver)

	requireUser := middleware.RequireUser(svc.Verifier, cfg.LoginURL)
	public := middleware.WithLogging
	private := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(requireUser(h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Chat
	mux.HandleFunc("GET /api/chat/usage", private(chatHandler.GetUsage))
	mux.HandleFunc("GET /api/chat/tip", public(chatHandler.GetTip))
	mux.HandleFunc("GET /api/chat/messages", private(chatHandler.ListMessages))
	mux.HandleFunc("POST /api/chat/messages", private(chatHandler.SendMessage))
	mux.HandleFunc("GET /api/chat/stream", private(chatHandler.StreamMessages))
	mux.HandleFunc("POST /api/chat", private(chatHandler.Proxy))

	// Dashboard
	mux.HandleFunc("GET /api/profile", private(dashboardHandler.GetProfile))
	mux.HandleFunc("GET /api/dashboard/today", private(dashboardHandler.GetToday))
	mux.HandleFunc("GET /api/assessment/questions", private(assessmentHandler.GetQuestions))
	mux.HandleFunc("POST /api/assessment", private(assessmentHandler.Submit))
	mux.HandleFunc("GET /api/stress/history", private(assessmentHandler.GetHistory))
	mux.HandleFunc("POST /api/stress/logs", private(assessmentHandler.AddStressLog))
	mux.HandleFunc("POST /api/mood", private(journalHandler.LogMood))
	mux.HandleFunc("GET /api/journal/prompt", public(journalHandler.GetPrompt))
	mux.HandleFunc("POST /api/journal", private(journalHandler.SubmitJournal))
	mux.HandleFunc("GET /api/activities", private(activityHandler.List))
	mux.HandleFunc("POST /api/activities", private(activityHandler.Log))
	mux.HandleFunc("POST /api/face-sessions", private(faceHandler.Submit))

	// Exercises
	mux.HandleFunc("GET /api/exercises/{kind}", private(exerciseHandler.Get))
	mux.HandleFunc("POST /api/exercises/{kind}/start", private(exerciseHandler.Start))
	mux.HandleFunc("POST /api/exercises/{kind}/pause", private(exerciseHandler.Pause))
	mux.HandleFunc("POST /api/exercises/{kind}/stop", private(exerciseHandler.Stop))

	// Audio and resources
	mux.HandleFunc("GET /api/audio/{category}/{name}", private(mediaHandler.Audio))
	mux.HandleFunc("GET /api/youtube", public(resourcesHandler.SearchVideos))
	mux.HandleFunc("GET /api/resources/suggestions", private(resourcesHandler.Suggestions))

	// Preferences and landing page
	mux.HandleFunc("GET /api/preferences", private(preferencesHandler.Get))
	mux.HandleFunc("PUT /api/preferences", private(preferencesHandler.Put))
	mux.HandleFunc("GET /api/preferences/stream", private(preferencesHandler.Stream))
	mux.HandleFunc("POST /api/feedback", public(feedbackHandler.Submit))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("mindmaze API v1"))
	})

	return mux
}
