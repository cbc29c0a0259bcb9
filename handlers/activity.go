// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/mindmaze/cliparse"
	"github.com/danielhkuo/mindmaze/middleware"
	"github.com/danielhkuo/mindmaze/models"
	"github.com/danielhkuo/mindmaze/store"
)

const activityFeedLimit = 50

type ActivityHandler struct {
	base
	lib LibrarySource
}

func NewActivityHandler(st store.Store, cfg cliparse.Config, lib LibrarySource) *ActivityHandler {
	return &ActivityHandler{base: newBase(st, cfg), lib: lib}
}

// timeAgo renders "Just now" for the first minute, otherwise a humanized offset.
func timeAgo(at, now time.Time) string {
	if now.Sub(at) < time.Minute {
		return "Just now"
	}
	return humanize.RelTime(at, now, "ago", "from now")
}

// List handles GET /api/activities
// Users with no activity yet get the sample feed.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	now, _ := h.clientNow(r)

	snaps, err := h.store.List(r.Context(), store.UserPath(user.UID, store.Activities), store.Query{
		Descending: true,
		Limit:      activityFeedLimit,
	})
	if err != nil {
		slog.Error("failed to load activities", "uid", user.UID, "error", err)
	}

	items := make([]models.Activity, 0, len(snaps))
	for _, s := range snaps {
		var a models.Activity
		if err := s.DataTo(&a); err != nil {
			slog.Warn("skipping unreadable activity", "uid", user.UID, "id", s.ID, "error", err)
			continue
		}
		a.ID = s.ID
		if a.Timestamp.IsZero() {
			a.Timestamp = s.Created
		}
		a.TimeAgo = timeAgo(a.Timestamp, now)
		items = append(items, a)
	}

	if len(items) == 0 {
		middleware.JSONResponse(w, http.StatusOK, models.ActivitiesResponse{
			Activities: h.samples(now),
			Sample:     true,
		})
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ActivitiesResponse{Activities: items})
}

func (h *ActivityHandler) samples(now time.Time) []models.Activity {
	lib := h.lib.Library()
	out := make([]models.Activity, 0, len(lib.SampleActivities))
	for _, s := range lib.SampleActivities {
		at := now.Add(-time.Duration(s.HoursAgo) * time.Hour)
		out = append(out, models.Activity{
			Type:      s.Type,
			Title:     s.Title,
			Icon:      s.Icon,
			Color:     s.Color,
			Timestamp: at,
			TimeAgo:   timeAgo(at, now),
		})
	}
	return out
}

// Log handles POST /api/activities
func (h *ActivityHandler) Log(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.ActivityRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req.Type = strings.TrimSpace(req.Type)
	req.Title = strings.TrimSpace(req.Title)
	if req.Type == "" || req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "type and title are required")
		return
	}
	if req.Icon == "" {
		req.Icon = "fas fa-circle"
	}
	if req.Color == "" {
		req.Color = "text-primary"
	}

	now, day := h.clientNow(r)
	a := models.Activity{
		Type:      req.Type,
		Title:     req.Title,
		Icon:      req.Icon,
		Color:     req.Color,
		Timestamp: now,
		Date:      day,
	}
	id, err := h.store.Add(r.Context(), store.UserPath(user.UID, store.Activities), a)
	if err != nil {
		slog.Error("failed to log activity", "uid", user.UID, "type", req.Type, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log activity")
		return
	}
	a.ID = id
	a.TimeAgo = timeAgo(now, now)

	middleware.JSONResponse(w, http.StatusCreated, a)
}
