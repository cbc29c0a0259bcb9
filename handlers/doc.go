// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the MindMaze API.

# Handler Types

Each handler is a struct embedding the shared store, config and clock:

  - DashboardHandler: Profile, greeting and today's cards
  - AssessmentHandler: Daily stress questions, scoring and stress history
  - JournalHandler: Daily mood and journal entries
  - ChatHandler: Rate-limited wellness chat and the stateless proxy
  - ActivityHandler: Recent activity feed
  - ExerciseHandler: Breathing and meditation timers
  - FaceHandler: Facial mood session results
  - MediaHandler: Relaxation audio
  - ResourcesHandler: Video search and stress-aware suggestions
  - PreferencesHandler: Theme preference and its change stream
  - FeedbackHandler: Contact form

Handlers are created via constructor functions that accept a store.Store
and Config:

	dashboard := handlers.NewDashboardHandler(st, cfg, library)

# Users and Days

Every private route runs behind middleware.RequireUser; handlers read the
caller with currentUser. A "day" is the YYYY-MM-DD date in the zone named by
the X-Timezone header, falling back to the configured default, so the
once-per-day documents (assessment, mood, journal, chat usage) roll over at
the user's local midnight.

	POST /api/assessment → 201, then 409 for the rest of the day

# Degradation

Reads that feed a page degrade instead of failing: a broken usage counter
counts as zero, an empty stress history or activity feed is replaced by
sample data flagged with "sample": true, and a failed chat provider is
answered with a canned reply flagged with "fallback": true. Activity logging
never fails the request that triggered it.

# Streams

Chat messages and preferences are also served over WebSocket. Each frame is
a full snapshot sent after every store change:

	GET /api/chat/stream
	GET /api/preferences/stream
*/
package handlers
