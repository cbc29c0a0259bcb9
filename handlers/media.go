// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/mindmaze/cliparse"
	"github.com/danielhkuo/mindmaze/media"
	"github.com/danielhkuo/mindmaze/middleware"
	"github.com/danielhkuo/mindmaze/store"
)

type MediaHandler struct {
	base
	resolver *media.Resolver
}

func NewMediaHandler(st store.Store, cfg cliparse.Config, resolver *media.Resolver) *MediaHandler {
	return &MediaHandler{base: newBase(st, cfg), resolver: resolver}
}

// Audio handles GET /api/audio/{category}/{name}
// Successful plays are not logged; browsers issue several Range requests per play.
func (h *MediaHandler) Audio(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	category, name := r.PathValue("category"), r.PathValue("name")

	path, err := h.resolver.Resolve(category, name)
	switch {
	case err == nil:
		w.Header().Set("Content-Type", "audio/mpeg")
		http.ServeFile(w, r, path)

	case errors.Is(err, media.ErrInvalidName):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid audio name")

	case errors.Is(err, media.ErrUnknownCategory):
		middleware.ErrorResponse(w, http.StatusNotFound, "Unknown audio category")

	case errors.Is(err, media.ErrUnavailable):
		slog.Warn("audio unavailable", "uid", user.UID, "category", category, "name", name)
		now, _ := h.clientNow(r)
		h.logActivity(r.Context(), user.UID, now, "media", media.DisplayName(name)+" audio unavailable", iconWarning, colorWarn)
		middleware.ErrorResponse(w, http.StatusNotFound, "unavailable")

	default:
		slog.Error("failed to resolve audio", "category", category, "name", name, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load audio")
	}
}
