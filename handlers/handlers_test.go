// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/mindmaze/models"
	"github.com/danielhkuo/mindmaze/store"
)

// testNow is a Friday morning; handlers under test read it through base.now.
var testNow = time.Date(2026, time.October, 16, 9, 30, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

// activityTitles returns the stored activity titles for uid in insertion order.
func activityTitles(t *testing.T, st store.Store, uid string) []string {
	t.Helper()

	snaps, err := st.List(context.Background(), store.UserPath(uid, store.Activities), store.Query{})
	if err != nil {
		t.Fatalf("Failed to list activities: %v", err)
	}
	titles := make([]string, 0, len(snaps))
	for _, s := range snaps {
		var a models.Activity
		if err := s.DataTo(&a); err != nil {
			t.Fatalf("Failed to decode activity: %v", err)
		}
		titles = append(titles, a.Title)
	}
	return titles
}

var errStoreDown = errors.New("store unavailable")

// failingStore fails every call whose path contains one of the listed
// collection names and passes the rest through.
type failingStore struct {
	store.Store
	collections []string
}

func (f failingStore) fails(path string) bool {
	for _, c := range f.collections {
		if strings.Contains(path, "/"+c) {
			return true
		}
	}
	return false
}

func (f failingStore) Get(ctx context.Context, path string, v any) error {
	if f.fails(path) {
		return errStoreDown
	}
	return f.Store.Get(ctx, path, v)
}

func (f failingStore) Set(ctx context.Context, path string, v any) error {
	if f.fails(path) {
		return errStoreDown
	}
	return f.Store.Set(ctx, path, v)
}

func (f failingStore) Create(ctx context.Context, path string, v any) error {
	if f.fails(path) {
		return errStoreDown
	}
	return f.Store.Create(ctx, path, v)
}

func (f failingStore) Add(ctx context.Context, collection string, v any) (string, error) {
	if f.fails(collection) {
		return "", errStoreDown
	}
	return f.Store.Add(ctx, collection, v)
}

func (f failingStore) Increment(ctx context.Context, path, field string, delta int64, merge map[string]any) (int64, error) {
	if f.fails(path) {
		return 0, errStoreDown
	}
	return f.Store.Increment(ctx, path, field, delta, merge)
}

func (f failingStore) List(ctx context.Context, collection string, q store.Query) ([]store.Snapshot, error) {
	if f.fails(collection) {
		return nil, errStoreDown
	}
	return f.Store.List(ctx, collection, q)
}
