// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"fmt"
	"strings"
)

// Collection names under users/{uid}.
const (
	Profile        = "profile"
	ChatUsage      = "chatUsage"
	ChatLogs       = "chatLogs"
	Messages       = "messages"
	DailyResponses = "dailyResponses"
	StressLogs     = "stressLogs"
	MoodLogs       = "moodLogs"
	Journal        = "journal"
	Activities     = "activities"
	FaceLogs       = "faceLogs"
	Wellbeing      = "wellbeing"
	Settings       = "settings"
)

// UserPath joins segments under users/{uid}.
func UserPath(uid string, segments ...string) string {
	return strings.Join(append([]string{"users", uid}, segments...), "/")
}

// split validates a path and returns its segments.
func split(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	parts := strings.Split(path, "/")
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
	}
	return parts, nil
}

// splitDoc breaks a document path into its parent collection and ID.
func splitDoc(path string) (collection, id string, err error) {
	parts, err := split(path)
	if err != nil {
		return "", "", err
	}
	if len(parts)%2 != 0 {
		return "", "", fmt.Errorf("%w: %q is a collection path", ErrInvalidPath, path)
	}
	return strings.Join(parts[:len(parts)-1], "/"), parts[len(parts)-1], nil
}

// checkCollection validates a collection path.
func checkCollection(path string) error {
	parts, err := split(path)
	if err != nil {
		return err
	}
	if len(parts)%2 != 1 {
		return fmt.Errorf("%w: %q is a document path", ErrInvalidPath, path)
	}
	return nil
}

// ParentOf returns the collection containing the document at path, or "".
func ParentOf(path string) string {
	collection, _, err := splitDoc(path)
	if err != nil {
		return ""
	}
	return collection
}
