// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	firebase "firebase.google.com/go/v4"
	_ "github.com/lib/pq"
	"google.golang.org/api/option"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/mindmaze/auth"
	"github.com/danielhkuo/mindmaze/chatbot"
	"github.com/danielhkuo/mindmaze/cliparse"
	"github.com/danielhkuo/mindmaze/content"
	"github.com/danielhkuo/mindmaze/db"
	"github.com/danielhkuo/mindmaze/handlers"
	"github.com/danielhkuo/mindmaze/media"
	"github.com/danielhkuo/mindmaze/middleware"
	"github.com/danielhkuo/mindmaze/router"
	"github.com/danielhkuo/mindmaze/store"
	"github.com/danielhkuo/mindmaze/videos"
)

// App owns every long-lived resource behind the HTTP handler.
type App struct {
	Config  cliparse.Config
	Store   store.Store
	Content *content.Loader
	Handler http.Handler

	exercises *handlers.ExerciseHandler
	firebase  *firebase.App
}

// New connects the configured backends and builds the routed handler.
// On error everything opened so far is closed again.
func New(ctx context.Context, cfg cliparse.Config) (*App, error) {
	a := &App{Config: cfg}
	if err := a.init(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Config

	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	a.Store = st
	slog.Info("document store ready", "type", cfg.DatabaseType)

	verifier, err := a.verifier(ctx)
	if err != nil {
		return err
	}

	if a.Content, err = content.NewLoader(cfg.ContentFile); err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}
	if err := a.Content.Watch(ctx); err != nil {
		// Hot reload is a convenience; the loaded library still serves.
		slog.Warn("content hot reload disabled", "path", cfg.ContentFile, "error", err)
	}

	svc := router.Services{
		Verifier: verifier,
		Library:  a.Content,
		Media:    media.NewResolver(media.ParseRoots(cfg.AssetsDirs)...),
	}

	if cfg.ChatAPIKey != "" {
		bot, err := chatbot.New(ctx, chatbot.Config{
			Provider: cfg.ChatProvider,
			APIKey:   cfg.ChatAPIKey,
			BaseURL:  cfg.ChatBaseURL,
			Model:    cfg.ChatModel,
		})
		if err != nil {
			return fmt.Errorf("failed to create chat provider: %w", err)
		}
		svc.Chat = bot
	} else {
		slog.Warn("no chat API key, chat uses canned replies")
	}

	if cfg.YouTubeAPIKey != "" {
		yt, err := videos.NewClient(ctx, cfg.YouTubeAPIKey)
		if err != nil {
			return fmt.Errorf("failed to create video client: %w", err)
		}
		svc.Videos = yt
	} else {
		slog.Warn("no YouTube API key, video search disabled")
	}

	a.exercises = handlers.NewExerciseHandler(a.Store, cfg, a.Content, nil)
	svc.Exercises = a.exercises

	a.Handler = middleware.CORS(router.NewRouter(a.Store, cfg, svc))
	return nil
}

func (a *App) openStore(ctx context.Context) (store.Store, error) {
	cfg := a.Config
	switch cfg.DatabaseType {
	case cliparse.DatabaseSQLite, cliparse.DatabasePostgres:
		driver, err := db.DriverName(cfg.DatabaseType)
		if err != nil {
			return nil, err
		}
		conn, err := sql.Open(driver, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		if cfg.DatabaseType == cliparse.DatabaseSQLite {
			// one writer keeps SQLite free of SQLITE_BUSY and :memory: shared
			conn.SetMaxOpenConns(1)
		}
		if err := conn.PingContext(ctx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("database ping failed: %w", err)
		}
		st, err := store.NewSQLStore(conn, cfg.DatabaseType)
		if err != nil {
			conn.Close()
			return nil, err
		}
		return st, nil

	case cliparse.DatabaseFirestore:
		fb, err := a.firebaseApp(ctx)
		if err != nil {
			return nil, err
		}
		client, err := fb.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create firestore client: %w", err)
		}
		return store.NewFirestoreStore(client), nil

	case cliparse.DatabaseMongo:
		st, err := store.NewMongoStore(ctx, cfg.DatabaseURL, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return st, nil

	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
}

func (a *App) verifier(ctx context.Context) (auth.Verifier, error) {
	switch a.Config.AuthMode {
	case cliparse.AuthJWT:
		v, err := auth.NewJWTVerifier(a.Config.JWTSecret)
		if err != nil {
			return nil, err
		}
		return v, nil

	case cliparse.AuthFirebase:
		fb, err := a.firebaseApp(ctx)
		if err != nil {
			return nil, err
		}
		client, err := fb.Auth(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create firebase auth client: %w", err)
		}
		return auth.NewFirebaseVerifier(client), nil

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", a.Config.AuthMode)
	}
}

// firebaseApp creates the Firebase app on first use; Firestore and Auth share it.
func (a *App) firebaseApp(ctx context.Context) (*firebase.App, error) {
	if a.firebase != nil {
		return a.firebase, nil
	}

	var opts []option.ClientOption
	if creds := strings.TrimSpace(a.Config.FirebaseServiceAccount); creds != "" {
		raw := []byte(creds)
		if !strings.HasPrefix(creds, "{") {
			var err error
			if raw, err = os.ReadFile(creds); err != nil {
				return nil, fmt.Errorf("failed to read service account: %w", err)
			}
		}
		opts = append(opts, option.WithCredentialsJSON(raw))
	}

	var fbCfg *firebase.Config
	if a.Config.FirebaseProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: a.Config.FirebaseProjectID}
	}

	fb, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase: %w", err)
	}
	slog.Info("firebase initialized", "project", a.Config.FirebaseProjectID)
	a.firebase = fb
	return fb, nil
}

// Close stops timers and the content watcher, then closes the store.
func (a *App) Close() error {
	var errs []error
	if a.exercises != nil {
		a.exercises.Close()
	}
	if a.Content != nil {
		errs = append(errs, a.Content.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}
