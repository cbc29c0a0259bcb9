// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var configKeys = []string{
	"PORT", "DATABASE_URL", "DATABASE_TYPE", "MONGO_DATABASE", "FIREBASE_PROJECT_ID",
	"FIREBASE_SERVICE_ACCOUNT", "AUTH_MODE", "JWT_SECRET", "LOGIN_URL", "CHAT_PROVIDER",
	"CHAT_API_KEY", "CHAT_BASE_URL", "CHAT_MODEL", "CHAT_TOPIC_GUARD", "YOUTUBE_API_KEY",
	"DAILY_MESSAGE_LIMIT", "TIMEZONE", "NEUTRAL_MARGIN", "MIN_EMOTION_CONFIDENCE",
	"CONTENT_FILE", "ASSETS_DIRS",
}

// isolateEnv blanks every config variable for the duration of the test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("AUTH_MODE", "jwt")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DAILY_MESSAGE_LIMIT", "5")
	t.Setenv("NEUTRAL_MARGIN", "0.2")
	t.Setenv("CHAT_TOPIC_GUARD", "true")
	t.Setenv("TIMEZONE", "Asia/Kolkata")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != DatabaseSQLite {
		t.Errorf("expected sqlite default, got %s", cfg.DatabaseType)
	}
	if cfg.DailyMessageLimit != 5 {
		t.Errorf("expected limit 5, got %d", cfg.DailyMessageLimit)
	}
	if cfg.NeutralMargin != 0.2 || cfg.MinEmotionConfidence != 0.20 {
		t.Errorf("unexpected thresholds %v %v", cfg.NeutralMargin, cfg.MinEmotionConfidence)
	}
	if !cfg.ChatTopicGuard {
		t.Error("expected topic guard on")
	}
	if cfg.Location().String() != "Asia/Kolkata" {
		t.Errorf("expected Asia/Kolkata, got %s", cfg.Location())
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DATABASE_URL", "file:test.db")

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.AuthMode != AuthFirebase {
		t.Errorf("expected firebase auth by default, got %s", cfg.AuthMode)
	}
	if cfg.ChatProvider != "openai" {
		t.Errorf("expected openai provider by default, got %s", cfg.ChatProvider)
	}
	if cfg.DailyMessageLimit != 20 {
		t.Errorf("expected limit 20, got %d", cfg.DailyMessageLimit)
	}
	if cfg.LoginURL != "/login.html" {
		t.Errorf("unexpected login URL %s", cfg.LoginURL)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("AUTH_MODE", "firebase")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-auth", "jwt", "-jwt-secret", "s1"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.AuthMode != AuthJWT {
		t.Errorf("CLI should override env: expected jwt, got %s", cfg.AuthMode)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
		args []string
		want string
	}{
		{"missing database url", nil, nil, "database URL required"},
		{"bad port", map[string]string{"PORT": "abc", "DATABASE_URL": "x"}, nil, "invalid PORT"},
		{"bad database type", map[string]string{"DATABASE_URL": "x", "DATABASE_TYPE": "oracle"}, nil, "unsupported DATABASE_TYPE"},
		{"jwt without secret", map[string]string{"DATABASE_URL": "x", "AUTH_MODE": "jwt"}, nil, "JWT_SECRET required"},
		{"firestore without project", map[string]string{"DATABASE_TYPE": "firestore"}, nil, "FIREBASE_PROJECT_ID required"},
		{"bad limit", map[string]string{"DATABASE_URL": "x", "DAILY_MESSAGE_LIMIT": "0"}, nil, "must be positive"},
		{"bad margin", map[string]string{"DATABASE_URL": "x", "NEUTRAL_MARGIN": "1.5"}, nil, "between 0 and 1"},
		{"bad timezone", map[string]string{"DATABASE_URL": "x", "TIMEZONE": "Nowhere/City"}, nil, "invalid TIMEZONE"},
		{"bad bool", map[string]string{"DATABASE_URL": "x", "CHAT_TOPIC_GUARD": "maybe"}, nil, "CHAT_TOPIC_GUARD"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			isolateEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := ParseFlags(tc.args)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestParseFlags_FirestoreNeedsNoURL(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DATABASE_TYPE", "firestore")
	t.Setenv("FIREBASE_PROJECT_ID", "mindmaze-dev")

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("expected empty database URL, got %s", cfg.DatabaseURL)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".env")
	if err := os.WriteFile(p, []byte("MINDMAZE_TEST_VALUE=from-file\nMINDMAZE_TEST_KEEP=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MINDMAZE_TEST_KEEP", "from-env")
	t.Setenv("MINDMAZE_TEST_VALUE", "")
	os.Unsetenv("MINDMAZE_TEST_VALUE")

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), p); err != nil {
		t.Fatal(err)
	}

	if got := os.Getenv("MINDMAZE_TEST_VALUE"); got != "from-file" {
		t.Errorf("expected value from file, got %q", got)
	}
	if got := os.Getenv("MINDMAZE_TEST_KEEP"); got != "from-env" {
		t.Errorf("existing env must win, got %q", got)
	}
}
