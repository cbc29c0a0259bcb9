// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/mindmaze/cliparse"
	"github.com/danielhkuo/mindmaze/middleware"
	"github.com/danielhkuo/mindmaze/models"
	"github.com/danielhkuo/mindmaze/store"
)

type PreferencesHandler struct {
	base
}

func NewPreferencesHandler(st store.Store, cfg cliparse.Config) *PreferencesHandler {
	return &PreferencesHandler{base: newBase(st, cfg)}
}

func prefsPath(uid string) string {
	return store.UserPath(uid, store.Settings, "preferences")
}

func (h *PreferencesHandler) load(ctx context.Context, uid string) (models.Preferences, error) {
	var p models.Preferences
	if _, err := h.getOptional(ctx, prefsPath(uid), &p); err != nil {
		return p, err
	}
	if p.Theme == "" {
		p.Theme = models.ThemeLight
	}
	return p, nil
}

// Get handles GET /api/preferences
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	p, err := h.load(r.Context(), user.UID)
	if err != nil {
		slog.Error("failed to read preferences", "uid", user.UID, "error", err)
		p = models.Preferences{Theme: models.ThemeLight}
	}
	middleware.JSONResponse(w, http.StatusOK, p)
}

// Put handles PUT /api/preferences
func (h *PreferencesHandler) Put(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.PreferencesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	theme := strings.ToLower(strings.TrimSpace(req.Theme))
	if theme != models.ThemeLight && theme != models.ThemeDark {
		middleware.ErrorResponse(w, http.StatusBadRequest, "theme must be light or dark")
		return
	}

	ctx := r.Context()
	p, err := h.load(ctx, user.UID)
	if err != nil {
		slog.Error("failed to read preferences", "uid", user.UID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update preferences")
		return
	}
	previous := p.Theme
	p.Theme = theme

	if err := h.store.Set(ctx, prefsPath(user.UID), p); err != nil {
		slog.Error("failed to save preferences", "uid", user.UID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update preferences")
		return
	}

	if previous != theme {
		now, _ := h.clientNow(r)
		h.logActivity(ctx, user.UID, now, "settings", "Switched to "+theme+" theme", "fas fa-palette", "text-warning")
	}

	middleware.JSONResponse(w, http.StatusOK, p)
}

// Stream handles GET /api/preferences/stream (WebSocket)
func (h *PreferencesHandler) Stream(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	serveStream(w, r, h.store, prefsPath(user.UID), func(ctx context.Context) (any, error) {
		return h.load(ctx, user.UID)
	})
}
