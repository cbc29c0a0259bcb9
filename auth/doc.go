// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth verifies caller identity and carries it through request contexts.

# Verifiers

Two Verifier implementations turn a bearer ID token into a User:

	v := auth.NewFirebaseVerifier(fbAuthClient) // production: Firebase Authentication
	v, err := auth.NewJWTVerifier(secret)       // development and tests: HS256

Firebase verification runs with a 5 second timeout. HS256 tokens must carry
a subject and an expiry; other signing algorithms are rejected.

# Issuing Dev Tokens

	token, err := auth.IssueToken(secret, auth.User{UID: "u1", Name: "Sam"}, time.Hour)

# Request Context

middleware.RequireUser stores the verified user; handlers read it back:

	user, ok := auth.FromContext(r.Context())

All per-user data is keyed by User.UID.
*/
package auth
