// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/danielhkuo/mindmaze/auth"
	"github.com/danielhkuo/mindmaze/cliparse"
	"github.com/danielhkuo/mindmaze/content"
	"github.com/danielhkuo/mindmaze/middleware"
	"github.com/danielhkuo/mindmaze/models"
	"github.com/danielhkuo/mindmaze/store"
	"github.com/danielhkuo/mindmaze/wellness"
)

// LibrarySource serves the current content library.
type LibrarySource interface {
	Library() *content.Library
}

// Activity icons and colors
const (
	iconWarning = "fas fa-exclamation-triangle"
	colorWarn   = "text-warning"
)

// base holds what every user-facing handler needs.
type base struct {
	store store.Store
	cfg   cliparse.Config
	now   func() time.Time
}

func newBase(st store.Store, cfg cliparse.Config) base {
	return base{store: st, cfg: cfg, now: time.Now}
}

// clientNow returns the current time in the caller's zone and its day key.
func (b base) clientNow(r *http.Request) (time.Time, string) {
	t := b.now().In(middleware.ClientLocation(r, b.cfg.Location()))
	return t, wellness.DayKey(t)
}

// currentUser returns the user stored by middleware.RequireUser. Handlers
// behind the guard always have one; a missing user is answered with 401.
func currentUser(w http.ResponseWriter, r *http.Request) (auth.User, bool) {
	u, ok := auth.FromContext(r.Context())
	if !ok || u.UID == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return auth.User{}, false
	}
	return u, true
}

// logActivity appends an activity record. Failures are logged, not returned,
// so a feed write never fails the action that triggered it.
func (b base) logActivity(ctx context.Context, uid string, at time.Time, typ, title, icon, color string) {
	_, err := b.store.Add(ctx, store.UserPath(uid, store.Activities), models.Activity{
		Type:      typ,
		Title:     title,
		Icon:      icon,
		Color:     color,
		Timestamp: at,
		Date:      wellness.DayKey(at),
	})
	if err != nil {
		slog.Error("failed to log activity", "uid", uid, "type", typ, "error", err)
	}
}

// getOptional reads a document, reporting absence as (false, nil).
func (b base) getOptional(ctx context.Context, path string, v any) (bool, error) {
	err := b.store.Get(ctx, path, v)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return true, nil
}

// keyedMutex serializes work per key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock blocks until key is free and returns the unlock func.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
