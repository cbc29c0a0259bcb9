// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package media resolves calming sound and sleep story files.
//
// A Resolver tries {root}/{category}/{name}.mp3 for each configured asset
// root in order. Names are restricted to letters, digits, dashes and
// underscores so a request can never leave the asset roots.
package media
