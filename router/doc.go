// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the MindMaze API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(st, cfg, router.Services{Verifier: v, Library: loader})

Routes marked private require an Authorization: Bearer <ID token> header
and answer 401 with a login_url otherwise.

# Endpoints

Health:

	GET /health
	GET /

Chat (private unless noted):

	GET  /api/chat/usage    - Daily quota and newDay flag
	GET  /api/chat/tip      - Tip of the day (public)
	GET  /api/chat/messages - Today's log
	POST /api/chat/messages - Send a message
	GET  /api/chat/stream   - Today's log over WebSocket
	POST /api/chat          - Thin completion proxy

Dashboard (private unless noted):

	GET  /api/profile                - Profile, greeting and quote
	GET  /api/dashboard/today        - Today's assessment, mood and journal
	GET  /api/assessment/questions   - Daily questions
	POST /api/assessment             - Submit answers
	GET  /api/stress/history         - Last 7 days
	POST /api/stress/logs            - Record a stress level
	POST /api/mood                   - Log today's mood
	GET  /api/journal/prompt         - Prompt of the day (public)
	POST /api/journal                - Save today's entry
	GET  /api/activities             - Activity feed
	POST /api/activities             - Log a client-side activity
	POST /api/face-sessions          - Classified expression frames

Exercises (private):

	GET  /api/exercises/{kind}
	POST /api/exercises/{kind}/start
	POST /api/exercises/{kind}/pause
	POST /api/exercises/{kind}/stop

Audio and resources:

	GET /api/audio/{category}/{name} - Sound or story mp3 (private)
	GET /api/youtube                 - Video search (public)
	GET /api/resources/suggestions   - Stress-matched videos (private)

Preferences and landing page:

	GET  /api/preferences        - Theme (private)
	PUT  /api/preferences        - Switch theme (private)
	GET  /api/preferences/stream - Preference changes over WebSocket (private)
	POST /api/feedback           - Contact form (public)
*/
package router
