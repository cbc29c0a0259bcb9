// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and stored record types for the API.

# Stored Records

Every record lives under users/{uid} in the document store:

  - Profile: profile/main
  - ChatUsage: chatUsage/{day}
  - ChatMessage: chatLogs/{day}/messages/{id}
  - DailyResponse: dailyResponses/{day}
  - StressLog: stressLogs/{id}
  - MoodLog: moodLogs/{day}
  - JournalEntry: journal/{day}
  - Activity: activities/{id}
  - FaceLog: faceLogs/{unixMillis}
  - Wellbeing: wellbeing/current or wellbeing/{day} (read only)
  - Preferences: settings/preferences

{day} is the user's local calendar date in YYYY-MM-DD form.

# Request Types

  - SendMessageRequest: message
  - ProxyRequest: messages [{role, content}]
  - AssessmentRequest: answers (8 weights, 1-5)
  - StressLogRequest: stressLevel (0-10), source
  - MoodRequest: mood, emoji, text, value
  - JournalRequest: entry
  - ActivityRequest: type, title, icon, color
  - FaceSessionRequest: frames [{expressions {label: probability}}]
  - ExerciseStartRequest: focusType
  - PreferencesRequest: theme
  - FeedbackRequest: name, email, message

# Errors

ErrorResponse carries error (HTTP status text) and message. Authentication
failures use AuthErrorResponse, which adds login_url.
*/
package models
