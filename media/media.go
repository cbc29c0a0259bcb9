// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package media

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Audio categories.
const (
	Sounds  = "sounds"
	Stories = "stories"
)

const extension = ".mp3"

var (
	ErrUnknownCategory = errors.New("unknown audio category")
	ErrInvalidName     = errors.New("invalid audio name")
	ErrUnavailable     = errors.New("audio unavailable")
)

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// Resolver looks up audio files across asset roots, first match wins.
type Resolver struct {
	roots []string
}

// NewResolver creates a resolver. Empty roots are ignored.
func NewResolver(roots ...string) *Resolver {
	r := &Resolver{}
	for _, root := range roots {
		root = strings.TrimSpace(root)
		if root != "" {
			r.roots = append(r.roots, filepath.Clean(root))
		}
	}
	return r
}

// ParseRoots splits a comma or path-list separated ASSETS_DIRS value.
func ParseRoots(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == filepath.ListSeparator
	})
}

// Roots returns the configured roots in lookup order.
func (r *Resolver) Roots() []string {
	return append([]string(nil), r.roots...)
}

// Resolve returns the path of {root}/{category}/{name}.mp3 for the first root
// where it exists as a regular file.
func (r *Resolver) Resolve(category, name string) (string, error) {
	if category != Sounds && category != Stories {
		return "", fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	name = strings.TrimSuffix(name, extension)
	if !validName.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	rel := filepath.Join(category, name+extension)
	for _, root := range r.roots {
		p := filepath.Join(root, rel)
		info, err := os.Stat(p)
		if err == nil && info.Mode().IsRegular() {
			return p, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", p, err)
		}
	}
	return "", fmt.Errorf("%w: %s/%s", ErrUnavailable, category, name)
}

// DisplayName turns a file name like "ocean-waves" into "Ocean Waves".
func DisplayName(name string) string {
	words := strings.FieldsFunc(strings.TrimSuffix(name, extension), func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
