// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

LoadDotEnv reads .env.local and .env (missing files are skipped, variables
already set win). ParseFlags then returns a Config struct with all settings:

	cliparse.LoadDotEnv()
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p              Server port
	-d              Database URL
	-t              Database type (sqlite, postgres, firestore, mongo)
	-auth           Auth mode (firebase, jwt)
	-chat-provider  Chat provider (openai, gemini)
	-content        Content override YAML file
	-assets         Audio asset roots
	-jwt-secret     HS256 secret (prefer env)
	-chat-key       Chat API key (prefer env)

# Environment Variables

	PORT (3318), DATABASE_URL, DATABASE_TYPE (sqlite), MONGO_DATABASE (mindmaze)
	FIREBASE_PROJECT_ID, FIREBASE_SERVICE_ACCOUNT
	AUTH_MODE (firebase), JWT_SECRET, LOGIN_URL (/login.html)
	CHAT_PROVIDER (openai), CHAT_API_KEY, CHAT_BASE_URL, CHAT_MODEL, CHAT_TOPIC_GUARD (false)
	YOUTUBE_API_KEY
	DAILY_MESSAGE_LIMIT (20), TIMEZONE (UTC)
	NEUTRAL_MARGIN (0.12), MIN_EMOTION_CONFIDENCE (0.20)
	CONTENT_FILE, ASSETS_DIRS (public/assets,assets)

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error when:

  - DATABASE_URL is missing for the sqlite, postgres and mongo backends
  - FIREBASE_PROJECT_ID is missing for the firestore backend
  - JWT_SECRET is missing with AUTH_MODE=jwt
  - a number, boolean or time zone does not parse
*/
package cliparse
