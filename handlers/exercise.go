// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/danielhkuo/mindmaze/cliparse"
	"github.com/danielhkuo/mindmaze/exercise"
	"github.com/danielhkuo/mindmaze/middleware"
	"github.com/danielhkuo/mindmaze/models"
	"github.com/danielhkuo/mindmaze/store"
)

// ExerciseHandler drives the in-memory exercise timers.
type ExerciseHandler struct {
	base
	clock    exercise.Clock
	sessions *exercise.Manager
	// last zone seen per user, used when a timer completes off-request
	zones sync.Map
}

// NewExerciseHandler owns its manager; call Close on shutdown.
func NewExerciseHandler(st store.Store, cfg cliparse.Config, lib LibrarySource, clock exercise.Clock) *ExerciseHandler {
	if clock == nil {
		clock = exercise.SystemClock{}
	}
	h := &ExerciseHandler{base: newBase(st, cfg), clock: clock}
	h.now = clock.Now
	focus := func(kind string) (string, bool) {
		return lib.Library().FocusInstruction(kind)
	}
	h.sessions = exercise.NewManager(clock, focus, h.completed)
	return h
}

func (h *ExerciseHandler) completed(uid string, prog exercise.Program, snap exercise.Snapshot) {
	loc := h.cfg.Location()
	if v, ok := h.zones.Load(uid); ok {
		loc = v.(*time.Location)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	h.logActivity(ctx, uid, h.clock.Now().In(loc), prog.ActivityType, prog.CompletedTitle(snap.FocusType), prog.Icon, prog.Color)
	slog.Info("exercise completed", "uid", uid, "kind", prog.Kind)
}

// Close cancels every running timer.
func (h *ExerciseHandler) Close() {
	h.sessions.Close()
}

func (h *ExerciseHandler) session(w http.ResponseWriter, r *http.Request) (string, *exercise.Session, bool) {
	user, ok := currentUser(w, r)
	if !ok {
		return "", nil, false
	}
	s, err := h.sessions.Session(user.UID, exercise.Kind(r.PathValue("kind")))
	if err != nil {
		writeExerciseError(w, err)
		return "", nil, false
	}
	h.zones.Store(user.UID, middleware.ClientLocation(r, h.cfg.Location()))
	return user.UID, s, true
}

func writeExerciseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, exercise.ErrUnknownKind):
		middleware.ErrorResponse(w, http.StatusNotFound, "Exercise not found")
	case errors.Is(err, exercise.ErrNoFocusExercise):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Please select an exercise first!")
	case errors.Is(err, exercise.ErrUnknownFocusExercise):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown focus exercise")
	case errors.Is(err, exercise.ErrAlreadyRunning), errors.Is(err, exercise.ErrNotRunning):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, exercise.ErrClosed):
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Server is shutting down")
	default:
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Exercise failed")
	}
}

// Get handles GET /api/exercises/{kind}
func (h *ExerciseHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, s, ok := h.session(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, s.Snapshot())
}

// Start handles POST /api/exercises/{kind}/start
// A paused session resumes without logging a second start.
func (h *ExerciseHandler) Start(w http.ResponseWriter, r *http.Request) {
	uid, s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.ExerciseStartRequest
	if r.ContentLength != 0 {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}

	snap, resumed, err := s.Start(req.FocusType)
	if err != nil {
		writeExerciseError(w, err)
		return
	}

	if !resumed {
		prog, _ := exercise.Lookup(snap.Kind)
		now, _ := h.clientNow(r)
		h.logActivity(r.Context(), uid, now, prog.ActivityType, prog.StartedTitle(snap.FocusType), prog.Icon, prog.Color)
		slog.Info("exercise started", "uid", uid, "kind", snap.Kind)
	}

	middleware.JSONResponse(w, http.StatusOK, snap)
}

// Pause handles POST /api/exercises/{kind}/pause
func (h *ExerciseHandler) Pause(w http.ResponseWriter, r *http.Request) {
	_, s, ok := h.session(w, r)
	if !ok {
		return
	}
	snap, err := s.Pause()
	if err != nil {
		writeExerciseError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, snap)
}

// Stop handles POST /api/exercises/{kind}/stop
func (h *ExerciseHandler) Stop(w http.ResponseWriter, r *http.Request) {
	_, s, ok := h.session(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, s.Stop())
}
