// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"hash/fnv"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielhkuo/mindmaze/cliparse"
	"github.com/danielhkuo/mindmaze/middleware"
	"github.com/danielhkuo/mindmaze/models"
	"github.com/danielhkuo/mindmaze/store"
	"github.com/danielhkuo/mindmaze/videos"
	"github.com/danielhkuo/mindmaze/wellness"
)

const suggestionCount = 8

const (
	statusNoVideos    = "No videos available at the moment. Please try again later."
	statusUnavailable = "Unable to load suggestions. Please check your connection and try again."
)

type ResourcesHandler struct {
	base
	lib    LibrarySource
	search videos.Searcher
	seed   func() uint64
}

// NewResourcesHandler creates the handler. search may be nil when no
// YouTube key is configured.
func NewResourcesHandler(st store.Store, cfg cliparse.Config, lib LibrarySource, search videos.Searcher) *ResourcesHandler {
	return &ResourcesHandler{base: newBase(st, cfg), lib: lib, search: search, seed: rand.Uint64}
}

// SearchVideos handles GET /api/youtube?query=&max=
func (h *ResourcesHandler) SearchVideos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("query"))
	if query == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "query is required")
		return
	}
	limit, _ := strconv.Atoi(q.Get("max"))

	if h.search == nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Video search is not configured")
		return
	}

	items, err := h.search.Search(r.Context(), query, videos.ClampMax(limit))
	if errors.Is(err, videos.ErrEmptyQuery) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "query is required")
		return
	}
	if err != nil {
		slog.Error("video search failed", "query", query, "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Video search failed")
		return
	}
	if items == nil {
		items = []videos.Video{}
	}

	middleware.JSONResponse(w, http.StatusOK, models.VideosResponse{Items: items})
}

// stressPercent walks the stress sources in order of trust and falls back
// to the default level.
func (h *ResourcesHandler) stressPercent(ctx context.Context, uid, day string) float64 {
	a, err := h.todayAssessment(ctx, uid, day)
	if err != nil {
		slog.Warn("failed to read assessment", "uid", uid, "error", err)
	}
	if a != nil {
		return float64(a.StressScore)
	}

	var current models.Wellbeing
	if found, err := h.getOptional(ctx, store.UserPath(uid, store.Wellbeing, "current"), &current); err != nil {
		slog.Warn("failed to read wellbeing", "uid", uid, "error", err)
	} else if found && current.Stress != nil {
		return *current.Stress
	}

	var today models.Wellbeing
	if found, err := h.getOptional(ctx, store.UserPath(uid, store.Wellbeing, day), &today); err != nil {
		slog.Warn("failed to read wellbeing", "uid", uid, "day", day, "error", err)
	} else if found {
		if today.Stress != nil {
			return *today.Stress
		}
		if today.Mood != "" {
			return float64(wellness.InferStressFromMood(today.Mood))
		}
	}

	return wellness.DefaultStressPercent
}

// sessionSeed reads the client's per-session seed, or draws a fresh one.
func (h *ResourcesHandler) sessionSeed(r *http.Request) uint64 {
	raw := strings.TrimSpace(r.Header.Get(middleware.SessionSeedHeader))
	if raw == "" {
		return h.seed()
	}
	if n, err := strconv.ParseUint(raw, 10, 64); err == nil {
		return n
	}
	f := fnv.New64a()
	f.Write([]byte(raw))
	return f.Sum64()
}

// Suggestions handles GET /api/resources/suggestions
func (h *ResourcesHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	_, day := h.clientNow(r)

	stress := h.stressPercent(r.Context(), user.UID, day)
	seed := h.sessionSeed(r)
	query := h.lib.Library().QueryFor(stress, seed)

	resp := models.SuggestionsResponse{
		Greeting:      "Hello " + user.DisplayName(),
		StressPercent: int(math.Round(stress)),
		Query:         query,
		Videos:        []videos.Video{},
	}

	if h.search == nil {
		resp.Status = statusNoVideos
		middleware.JSONResponse(w, http.StatusOK, resp)
		return
	}

	items, err := h.search.Search(r.Context(), query, suggestionCount)
	switch {
	case err != nil:
		slog.Error("suggestion search failed", "uid", user.UID, "query", query, "error", err)
		resp.Status = statusUnavailable
	case len(items) == 0:
		resp.Status = statusNoVideos
	default:
		videos.Shuffle(items, rand.New(rand.NewPCG(seed, h.seed())))
		resp.Videos = items
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
