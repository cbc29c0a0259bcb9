// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package app assembles the MindMaze API from a cliparse.Config.

New opens the document store selected by DATABASE_TYPE (sqlite, postgres,
firestore or mongo), the token verifier selected by AUTH_MODE, the content
library with hot reload, and the optional chat and video clients, then
returns a CORS-wrapped handler:

	a, err := app.New(ctx, cfg)
	if err != nil { ... }
	defer a.Close()
	server := http.Server{Handler: a.Handler}

Firestore and Firebase Auth share one Firebase app. A missing chat key
falls back to canned replies; a missing YouTube key disables video search.
*/
package app
