// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/danielhkuo/mindmaze/middleware"
	"github.com/danielhkuo/mindmaze/models"
)

// FeedbackHandler accepts contact-form submissions from the landing page.
type FeedbackHandler struct{}

func NewFeedbackHandler() *FeedbackHandler {
	return &FeedbackHandler{}
}

// Submit handles POST /api/feedback
// Feedback is logged only.
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.FeedbackRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "message is required")
		return
	}
	email := strings.TrimSpace(req.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Please enter a valid email address")
			return
		}
	}

	slog.Info("feedback received",
		"name", strings.TrimSpace(req.Name),
		"email", email,
		"length", len(message),
		"ip", middleware.GetClientIP(r))

	middleware.JSONResponse(w, http.StatusCreated, models.FeedbackResponse{
		Message: "Thank you for your feedback!",
	})
}
