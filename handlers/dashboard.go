// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/mindmaze/cliparse"
	"github.com/danielhkuo/mindmaze/middleware"
	"github.com/danielhkuo/mindmaze/models"
	"github.com/danielhkuo/mindmaze/store"
	"github.com/danielhkuo/mindmaze/wellness"
)

type DashboardHandler struct {
	base
	lib LibrarySource
}

func NewDashboardHandler(st store.Store, cfg cliparse.Config, lib LibrarySource) *DashboardHandler {
	return &DashboardHandler{base: newBase(st, cfg), lib: lib}
}

// GetProfile handles GET /api/profile
// The profile is created on the first visit and lastLogin refreshed on each one.
func (h *DashboardHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	now, day := h.clientNow(r)
	path := store.UserPath(user.UID, store.Profile, "main")

	var profile models.Profile
	found, err := h.getOptional(r.Context(), path, &profile)
	if err != nil {
		slog.Error("failed to read profile", "uid", user.UID, "error", err)
	}
	if !found {
		profile = models.Profile{
			Name:      user.DisplayName(),
			Email:     user.Email,
			CreatedAt: now,
		}
	}
	profile.LastLogin = now

	// Skip the write when the read failed so a flaky store cannot clobber the profile.
	if err == nil {
		if err := h.store.Set(r.Context(), path, profile); err != nil {
			slog.Error("failed to save profile", "uid", user.UID, "error", err)
		} else if !found {
			slog.Info("profile created", "uid", user.UID)
		}
	}

	name := profile.Name
	if name == "" {
		name = user.DisplayName()
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProfileResponse{
		Profile:  profile,
		Greeting: wellness.Greeting(now, name),
		Quote:    h.lib.Library().QuoteFor(now),
		Date:     day,
	})
}

// GetToday handles GET /api/dashboard/today
func (h *DashboardHandler) GetToday(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	now, day := h.clientNow(r)

	var (
		assessment models.DailyResponse
		mood       models.MoodLog
		journal    models.JournalEntry
		found      [3]bool
	)

	g, ctx := errgroup.WithContext(r.Context())
	load := func(i int, collection string, v any) {
		g.Go(func() error {
			ok, err := h.getOptional(ctx, store.UserPath(user.UID, collection, day), v)
			if err != nil {
				// Each card degrades on its own.
				slog.Error("failed to load dashboard card", "uid", user.UID, "collection", collection, "error", err)
				return nil
			}
			found[i] = ok
			return nil
		})
	}
	load(0, store.DailyResponses, &assessment)
	load(1, store.MoodLogs, &mood)
	load(2, store.Journal, &journal)
	g.Wait()

	resp := models.TodayResponse{Date: day}
	if found[0] {
		resp.Assessment = &assessment
	}
	if found[1] {
		resp.Mood = &mood
	}
	if found[2] {
		resp.Journal = &journal
		resp.PromptIndex = journal.PromptIndex
	} else {
		resp.Prompt, resp.PromptIndex = h.lib.Library().PromptFor(now)
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// todayAssessment returns today's assessment if one was submitted.
func (b base) todayAssessment(ctx context.Context, uid, day string) (*models.DailyResponse, error) {
	var a models.DailyResponse
	found, err := b.getOptional(ctx, store.UserPath(uid, store.DailyResponses, day), &a)
	if err != nil || !found {
		return nil, err
	}
	return &a, nil
}
