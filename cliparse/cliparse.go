// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database backends
const (
	DatabaseSQLite    = "sqlite"
	DatabasePostgres  = "postgres"
	DatabaseFirestore = "firestore"
	DatabaseMongo     = "mongo"
)

// Auth modes
const (
	AuthFirebase = "firebase"
	AuthJWT      = "jwt"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	MongoDB      string

	FirebaseProjectID      string
	FirebaseServiceAccount string // JSON credentials or a path to them
	AuthMode               string
	JWTSecret              string
	LoginURL               string

	ChatProvider   string
	ChatAPIKey     string
	ChatBaseURL    string
	ChatModel      string
	ChatTopicGuard bool

	YouTubeAPIKey string

	DailyMessageLimit    int
	Timezone             string
	NeutralMargin        float64
	MinEmotionConfidence float64

	ContentFile string
	AssetsDirs  string
}

// Location returns the default zone for users who send no X-Timezone header.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadDotEnv loads .env style files into the environment. Missing files are
// skipped and variables already set are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env.local", ".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
		slog.Info("loaded env file", "path", p)
	}
	return nil
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("mindmaze", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite, postgres, firestore or mongo)")

	fs.StringVar(&cfg.AuthMode, "auth", "", "Auth mode (firebase or jwt)")
	fs.StringVar(&cfg.ChatProvider, "chat-provider", "", "Chat provider (openai or gemini)")
	fs.StringVar(&cfg.ContentFile, "content", "", "Content override YAML file")
	fs.StringVar(&cfg.AssetsDirs, "assets", "", "Comma separated audio asset roots")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "HS256 token secret (prefer env)")
	fs.StringVar(&cfg.ChatAPIKey, "chat-key", "", "Chat provider API key (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	fallback(&cfg.DatabaseType, "DATABASE_TYPE", DatabaseSQLite)
	fallback(&cfg.DatabaseURL, "DATABASE_URL", "")
	fallback(&cfg.MongoDB, "MONGO_DATABASE", "mindmaze")
	switch cfg.DatabaseType {
	case DatabaseSQLite, DatabasePostgres, DatabaseMongo:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
	case DatabaseFirestore:
	default:
		return Config{}, fmt.Errorf("unsupported DATABASE_TYPE %q", cfg.DatabaseType)
	}

	fallback(&cfg.FirebaseProjectID, "FIREBASE_PROJECT_ID", "")
	fallback(&cfg.FirebaseServiceAccount, "FIREBASE_SERVICE_ACCOUNT", "")
	fallback(&cfg.AuthMode, "AUTH_MODE", AuthFirebase)
	fallback(&cfg.JWTSecret, "JWT_SECRET", "")
	fallback(&cfg.LoginURL, "LOGIN_URL", "/login.html")
	switch cfg.AuthMode {
	case AuthJWT:
		if cfg.JWTSecret == "" {
			return Config{}, errors.New("JWT_SECRET required when AUTH_MODE=jwt")
		}
	case AuthFirebase:
	default:
		return Config{}, fmt.Errorf("unsupported AUTH_MODE %q", cfg.AuthMode)
	}
	if cfg.DatabaseType == DatabaseFirestore && cfg.FirebaseProjectID == "" {
		return Config{}, errors.New("FIREBASE_PROJECT_ID required for the firestore backend")
	}

	fallback(&cfg.ChatProvider, "CHAT_PROVIDER", "openai")
	fallback(&cfg.ChatAPIKey, "CHAT_API_KEY", "")
	fallback(&cfg.ChatBaseURL, "CHAT_BASE_URL", "")
	fallback(&cfg.ChatModel, "CHAT_MODEL", "")
	fallback(&cfg.YouTubeAPIKey, "YOUTUBE_API_KEY", "")
	fallback(&cfg.Timezone, "TIMEZONE", "UTC")
	fallback(&cfg.ContentFile, "CONTENT_FILE", "")
	fallback(&cfg.AssetsDirs, "ASSETS_DIRS", "public/assets,assets")

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return Config{}, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	var err error
	if cfg.ChatTopicGuard, err = envBool("CHAT_TOPIC_GUARD", false); err != nil {
		return Config{}, err
	}
	if cfg.DailyMessageLimit, err = envInt("DAILY_MESSAGE_LIMIT", 20); err != nil {
		return Config{}, err
	}
	if cfg.DailyMessageLimit <= 0 {
		return Config{}, errors.New("DAILY_MESSAGE_LIMIT must be positive")
	}
	if cfg.NeutralMargin, err = envFloat("NEUTRAL_MARGIN", 0.12); err != nil {
		return Config{}, err
	}
	if cfg.MinEmotionConfidence, err = envFloat("MIN_EMOTION_CONFIDENCE", 0.20); err != nil {
		return Config{}, err
	}
	if cfg.NeutralMargin < 0 || cfg.NeutralMargin > 1 || cfg.MinEmotionConfidence < 0 || cfg.MinEmotionConfidence > 1 {
		return Config{}, errors.New("emotion thresholds must be between 0 and 1")
	}

	return cfg, nil
}

func fallback(dst *string, env, def string) {
	if *dst != "" {
		return
	}
	*dst = strings.TrimSpace(os.Getenv(env))
	if *dst == "" {
		*dst = def
	}
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return f, nil
}

func envBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s env variable", key)
	}
	return b, nil
}
