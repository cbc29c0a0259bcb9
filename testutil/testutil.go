// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/mindmaze/auth"
	"github.com/danielhkuo/mindmaze/cliparse"
	"github.com/danielhkuo/mindmaze/content"
	"github.com/danielhkuo/mindmaze/store"
)

// TestJWTSecret signs the tokens issued by AuthHeaders
const TestJWTSecret = "test-jwt-secret"

// SetupTestStore creates a fresh in-memory document store
func SetupTestStore(t *testing.T) *store.SQLStore {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// each :memory: connection is its own database
	conn.SetMaxOpenConns(1)

	st, err := store.NewSQLStore(conn, cliparse.DatabaseSQLite)
	if err != nil {
		conn.Close()
		t.Fatalf("Failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return st
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:                 3318,
		DatabaseURL:          ":memory:",
		DatabaseType:         cliparse.DatabaseSQLite,
		AuthMode:             cliparse.AuthJWT,
		JWTSecret:            TestJWTSecret,
		LoginURL:             "/login.html",
		DailyMessageLimit:    20,
		Timezone:             "UTC",
		NeutralMargin:        0.12,
		MinEmotionConfidence: 0.20,
	}
}

// StaticLibrary serves a fixed content library
type StaticLibrary struct {
	Lib *content.Library
}

// DefaultLibrary returns the embedded content library
func DefaultLibrary() StaticLibrary {
	return StaticLibrary{Lib: content.Default()}
}

func (s StaticLibrary) Library() *content.Library {
	return s.Lib
}

// TestUser builds a user for uid with a derived email
func TestUser(uid string) auth.User {
	return auth.User{UID: uid, Email: uid + "@example.com", Name: "Test " + uid}
}

// AsUser attaches an authenticated user to the request context, as
// middleware.RequireUser would
func AsUser(req *http.Request, uid string) *http.Request {
	return req.WithContext(auth.WithUser(req.Context(), TestUser(uid)))
}

// AuthHeaders returns an Authorization header carrying a valid token for uid
func AuthHeaders(t *testing.T, uid string) map[string]string {
	t.Helper()

	token, err := auth.IssueToken(TestJWTSecret, TestUser(uid), time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
