// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/mindmaze/cliparse"
	"github.com/danielhkuo/mindmaze/middleware"
	"github.com/danielhkuo/mindmaze/models"
	"github.com/danielhkuo/mindmaze/store"
	"github.com/danielhkuo/mindmaze/wellness"
)

const moodTrackerUnavailable = "Mood tracking failed - camera or API unavailable"

// FaceHandler turns a batch of expression frames into one mood reading.
type FaceHandler struct {
	base
}

func NewFaceHandler(st store.Store, cfg cliparse.Config) *FaceHandler {
	return &FaceHandler{base: newBase(st, cfg)}
}

func (h *FaceHandler) thresholds() wellness.EmotionThresholds {
	th := wellness.DefaultEmotionThresholds()
	if h.cfg.NeutralMargin > 0 {
		th.NeutralMargin = h.cfg.NeutralMargin
	}
	if h.cfg.MinEmotionConfidence > 0 {
		th.MinConfidence = h.cfg.MinEmotionConfidence
	}
	return th
}

// Submit handles POST /api/face-sessions
func (h *FaceHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.FaceSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	frames := make([]wellness.Frame, 0, len(req.Frames))
	for _, f := range req.Frames {
		frames = append(frames, wellness.Frame(f.Expressions))
	}

	ctx := r.Context()
	now, day := h.clientNow(r)
	result := wellness.DominantEmotion(frames, h.thresholds())

	if !result.Available {
		h.logActivity(ctx, user.UID, now, "mood-tracker", moodTrackerUnavailable, iconWarning, colorWarn)
		middleware.JSONResponse(w, http.StatusOK, models.FaceSessionResponse{
			Available: false,
			Title:     moodTrackerUnavailable,
		})
		return
	}

	pct := result.Percentage()
	entry := models.FaceLog{
		Emotion:              result.Emotion,
		Confidence:           result.Confidence,
		ConfidencePercentage: pct,
		SampleCount:          result.Samples,
		Timestamp:            now,
		Date:                 day,
	}
	id := strconv.FormatInt(now.UnixMilli(), 10)
	if err := h.store.Set(ctx, store.UserPath(user.UID, store.FaceLogs, id), entry); err != nil {
		slog.Error("failed to save face log", "uid", user.UID, "error", err)
	}

	emoji := wellness.Emoji(result.Emotion)
	title := fmt.Sprintf("🧠 Mood detected: %s %s (%d%%)", emoji, wellness.Capitalize(result.Emotion), pct)
	h.logActivity(ctx, user.UID, now, "mood-tracker", title, "fas fa-brain", "text-info")
	slog.Info("mood detected", "uid", user.UID, "emotion", result.Emotion, "samples", result.Samples)

	middleware.JSONResponse(w, http.StatusOK, models.FaceSessionResponse{
		Available:            true,
		Emotion:              result.Emotion,
		Emoji:                emoji,
		Confidence:           result.Confidence,
		ConfidencePercentage: pct,
		SampleCount:          result.Samples,
		Title:                title,
	})
}
