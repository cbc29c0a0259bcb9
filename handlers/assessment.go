// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"

	"github.com/danielhkuo/mindmaze/cliparse"
	"github.com/danielhkuo/mindmaze/middleware"
	"github.com/danielhkuo/mindmaze/models"
	"github.com/danielhkuo/mindmaze/store"
	"github.com/danielhkuo/mindmaze/wellness"
)

const historyDays = 7

type AssessmentHandler struct {
	base
	lib    LibrarySource
	jitter func() float64
}

func NewAssessmentHandler(st store.Store, cfg cliparse.Config, lib LibrarySource) *AssessmentHandler {
	return &AssessmentHandler{base: newBase(st, cfg), lib: lib, jitter: rand.Float64}
}

// GetQuestions handles GET /api/assessment/questions
func (h *AssessmentHandler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	now, day := h.clientNow(r)

	done, err := h.todayAssessment(r.Context(), user.UID, day)
	if err != nil {
		slog.Error("failed to read assessment", "uid", user.UID, "error", err)
	}
	if done != nil {
		middleware.JSONResponse(w, http.StatusOK, models.QuestionsResponse{
			Completed:   true,
			StressScore: done.StressScore,
		})
		return
	}

	picked := h.lib.Library().QuestionsFor(now)
	questions := make([]models.Question, len(picked))
	for i, q := range picked {
		questions[i] = models.Question{Question: q.Question, Answers: q.Answers, Weights: q.Weights}
	}
	middleware.JSONResponse(w, http.StatusOK, models.QuestionsResponse{Questions: questions})
}

// Submit handles POST /api/assessment
func (h *AssessmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.AssessmentRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	score, err := wellness.Score(req.Answers)
	if err != nil {
		msg := "Please answer all questions before submitting."
		if errors.Is(err, wellness.ErrAnswerOutOfRange) {
			msg = "Each answer must be between 1 and 5."
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	ctx := r.Context()
	now, day := h.clientNow(r)

	picked := h.lib.Library().QuestionsFor(now)
	texts := make([]string, len(picked))
	for i, q := range picked {
		texts[i] = q.Question
	}

	err = h.store.Create(ctx, store.UserPath(user.UID, store.DailyResponses, day), models.DailyResponse{
		Answers:     req.Answers,
		StressScore: score,
		Date:        day,
		Questions:   texts,
		Timestamp:   now,
	})
	if errors.Is(err, store.ErrExists) {
		middleware.ErrorResponse(w, http.StatusConflict, "You have already completed today's assessment")
		return
	}
	if err != nil {
		slog.Error("failed to save assessment", "uid", user.UID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save assessment")
		return
	}

	level := wellness.Level(score)
	if _, err := h.store.Add(ctx, store.UserPath(user.UID, store.StressLogs), models.StressLog{
		StressLevel: level,
		Date:        day,
		Source:      models.SourceDailyAssessment,
		Timestamp:   now,
	}); err != nil {
		slog.Error("failed to save stress log", "uid", user.UID, "error", err)
	}

	h.logActivity(ctx, user.UID, now, "assessment", "Completed daily stress assessment", "fas fa-clipboard-check", "text-success")
	slog.Info("assessment submitted", "uid", user.UID, "score", score)

	label, class := wellness.Status(score)
	middleware.JSONResponse(w, http.StatusCreated, models.AssessmentResponse{
		StressScore: score,
		Level:       level,
		Status:      label,
		StatusClass: class,
	})
}

// GetHistory handles GET /api/stress/history
// An empty or unreadable history is replaced by sample data.
func (h *AssessmentHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	now, _ := h.clientNow(r)

	snaps, err := h.store.List(r.Context(), store.UserPath(user.UID, store.StressLogs), store.Query{
		Since: now.AddDate(0, 0, -historyDays),
	})
	if err != nil {
		slog.Error("failed to load stress history", "uid", user.UID, "error", err)
	}

	points := make([]wellness.StressPoint, 0, len(snaps))
	for _, s := range snaps {
		var entry models.StressLog
		if err := s.DataTo(&entry); err != nil {
			slog.Warn("skipping unreadable stress log", "uid", user.UID, "id", s.ID, "error", err)
			continue
		}
		at := entry.Timestamp
		if at.IsZero() {
			at = s.Created
		}
		points = append(points, wellness.StressPoint{Date: at.In(now.Location()), Stress: entry.StressLevel})
	}

	sample := len(points) == 0
	if sample {
		points = wellness.SampleHistory(now, h.jitter)
	}

	middleware.JSONResponse(w, http.StatusOK, models.StressHistoryResponse{
		Points:  points,
		Summary: wellness.Summarize(points),
		Sample:  sample,
	})
}

// AddStressLog handles POST /api/stress/logs
func (h *AssessmentHandler) AddStressLog(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req models.StressLogRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.StressLevel == nil || *req.StressLevel < 0 || *req.StressLevel > 10 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "stressLevel must be between 0 and 10")
		return
	}
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = models.SourceManual
	}

	now, day := h.clientNow(r)
	id, err := h.store.Add(r.Context(), store.UserPath(user.UID, store.StressLogs), models.StressLog{
		StressLevel: *req.StressLevel,
		Date:        day,
		Source:      source,
		Timestamp:   now,
	})
	if err != nil {
		slog.Error("failed to save stress log", "uid", user.UID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save stress log")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.StressLogResponse{ID: id, Band: wellness.Band(*req.StressLevel)})
}
