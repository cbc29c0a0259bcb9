// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the MindMaze API server.

MindMaze is a personal wellness companion: a daily stress assessment, mood
and journal check-ins, a rate-limited wellness chatbot, guided breathing and
meditation timers, facial mood logging, relaxation audio and stress-aware
video suggestions.

# Starting the Server

Configuration comes from flags, environment variables or a .env file:

	DATABASE_TYPE=sqlite DATABASE_URL=mindmaze.db AUTH_MODE=jwt JWT_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Storage:

  - DATABASE_TYPE: sqlite, postgres, firestore or mongo
  - DATABASE_URL (-d): SQL DSN or Mongo URI
  - FIREBASE_PROJECT_ID, FIREBASE_SERVICE_ACCOUNT: Firestore and Firebase Auth

Auth:

  - AUTH_MODE: firebase (ID tokens) or jwt (HS256 with JWT_SECRET)

Optional upstreams:

  - CHAT_PROVIDER, CHAT_API_KEY, CHAT_MODEL: chatbot backend (openai, groq, gemini)
  - YOUTUBE_API_KEY: video search and suggestions

See cliparse for the full list and defaults.

# Architecture

  - app: wires config into the store, verifier and handlers
  - handlers: HTTP request handlers per feature
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, auth, JSON helpers
  - store: document store over SQL, Firestore and MongoDB
  - wellness: scoring, quotas, greetings and mood rules
  - exercise: breathing and meditation timers
  - content: YAML content library with hot reload
  - chatbot, videos, media: upstream clients and audio lookup

The same handler also runs on AWS Lambda; see lambda/api.
*/
package main
