// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# Authentication

RequireUser verifies the Authorization bearer token and stores the user in
the request context:

	user := middleware.RequireUser(verifier, "/login.html")
	mux.HandleFunc("GET /api/profile", middleware.WithLogging(user(h.GetProfile)))

Missing or invalid tokens get a 401 with error, message and login_url.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, Authorization, X-Timezone, X-Session-Seed.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.MoodRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client Context

ClientLocation resolves the X-Timezone header to a *time.Location so "today"
is the user's calendar day. GetClientIP handles X-Forwarded-For and X-Real-IP.
*/
package middleware
