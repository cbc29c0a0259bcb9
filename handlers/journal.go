// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/mindmaze/cliparse"
	"github.com/danielhkuo/mindmaze/middleware"
	"github.com/danielhkuo/mindmaze/models"
	"github.com/danielhkuo/mindmaze/store"
)

// JournalHandler covers the once-a-day mood and journal entries.
type JournalHandler struct {
	base
	lib LibrarySource
}

func NewJournalHandler(st store.Store, cfg cliparse.Config, lib LibrarySource) *JournalHandler {
	return &JournalHandler{base: newBase(st, cfg), lib: lib}
}

// LogMood handles POST /api/mood
func (h *JournalHandler) LogMood(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.MoodRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req.Mood = strings.TrimSpace(req.Mood)
	if req.Mood == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "mood is required")
		return
	}
	if req.Value < 1 || req.Value > 5 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "value must be between 1 and 5")
		return
	}
	if req.Text == "" {
		req.Text = req.Mood
	}

	now, day := h.clientNow(r)
	entry := models.MoodLog{
		Mood:      req.Mood,
		Emoji:     req.Emoji,
		Text:      req.Text,
		Value:     req.Value,
		Date:      day,
		Timestamp: now,
	}
	err := h.store.Create(r.Context(), store.UserPath(user.UID, store.MoodLogs, day), entry)
	if errors.Is(err, store.ErrExists) {
		middleware.ErrorResponse(w, http.StatusConflict, "You have already logged your mood today")
		return
	}
	if err != nil {
		slog.Error("failed to save mood", "uid", user.UID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save mood")
		return
	}

	h.logActivity(r.Context(), user.UID, now, "mood", "Logged mood: "+req.Text, "fas fa-smile", "text-success")
	slog.Info("mood logged", "uid", user.UID, "mood", req.Mood)

	middleware.JSONResponse(w, http.StatusCreated, entry)
}

// GetPrompt handles GET /api/journal/prompt
func (h *JournalHandler) GetPrompt(w http.ResponseWriter, r *http.Request) {
	now, _ := h.clientNow(r)
	prompt, idx := h.lib.Library().PromptFor(now)
	middleware.JSONResponse(w, http.StatusOK, models.PromptResponse{Prompt: prompt, PromptIndex: idx})
}

// SubmitJournal handles POST /api/journal
func (h *JournalHandler) SubmitJournal(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.JournalRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	text := strings.TrimSpace(req.Entry)
	if text == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Please write something before saving.")
		return
	}

	now, day := h.clientNow(r)
	prompt, idx := h.lib.Library().PromptFor(now)
	entry := models.JournalEntry{
		Entry:       text,
		Date:        day,
		PromptIndex: idx,
		Prompt:      prompt,
		Timestamp:   now,
	}
	err := h.store.Create(r.Context(), store.UserPath(user.UID, store.Journal, day), entry)
	if errors.Is(err, store.ErrExists) {
		middleware.ErrorResponse(w, http.StatusConflict, "You have already written today's journal entry")
		return
	}
	if err != nil {
		slog.Error("failed to save journal entry", "uid", user.UID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save journal entry")
		return
	}

	h.logActivity(r.Context(), user.UID, now, "journal", "Completed daily journal entry", "fas fa-journal-whills", "text-info")
	slog.Info("journal entry saved", "uid", user.UID, "length", len(text))

	middleware.JSONResponse(w, http.StatusCreated, entry)
}
