// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package videos searches YouTube for wellness videos through the Data API.
// Results are reduced to id, title, thumbnail and channel title; non-video
// results are skipped and the result count is clamped to 1..25.
package videos
