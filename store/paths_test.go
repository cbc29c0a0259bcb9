// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import "testing"

func TestUserPathAndParent(t *testing.T) {
	p := UserPath("abc", ChatLogs, "2026-10-16", Messages, "m1")
	if p != "users/abc/chatLogs/2026-10-16/messages/m1" {
		t.Errorf("unexpected path %s", p)
	}
	if parent := ParentOf(p); parent != "users/abc/chatLogs/2026-10-16/messages" {
		t.Errorf("unexpected parent %s", parent)
	}
	if parent := ParentOf("users/abc/activities"); parent != "" {
		t.Errorf("collection paths have no parent document collection, got %s", parent)
	}
}

func TestSplitDoc(t *testing.T) {
	tests := []struct {
		path    string
		coll    string
		id      string
		wantErr bool
	}{
		{"users/u/profile/main", "users/u/profile", "main", false},
		{"users/u/profile", "", "", true},
		{"", "", "", true},
		{"users/u//main", "", "", true},
		{"users/../profile/main", "", "", true},
	}
	for _, tt := range tests {
		coll, id, err := splitDoc(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("splitDoc(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if coll != tt.coll || id != tt.id {
			t.Errorf("splitDoc(%q) = %s, %s", tt.path, coll, id)
		}
	}
}
