// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package videos

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	DefaultMax = 8
	MaxResults = 25
)

var ErrEmptyQuery = errors.New("query is required")

// Video is one search result.
type Video struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	Thumbnail    string `json:"thumbnail"`
	ChannelTitle string `json:"channelTitle"`
}

// Searcher finds videos for a query.
type Searcher interface {
	Search(ctx context.Context, query string, max int) ([]Video, error)
}

// Client wraps the YouTube Data API search endpoint.
type Client struct {
	svc *youtube.Service
}

// NewClient creates a YouTube client. Extra options (for example an
// endpoint override) are appended after the API key.
func NewClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// ClampMax bounds a requested result count to 1..MaxResults, defaulting to DefaultMax.
func ClampMax(n int) int {
	switch {
	case n <= 0:
		return DefaultMax
	case n > MaxResults:
		return MaxResults
	default:
		return n
	}
}

// Search returns up to max videos matching query.
func (c *Client) Search(ctx context.Context, query string, max int) ([]Video, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	resp, err := c.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(int64(ClampMax(max))).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	out := make([]Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		out = append(out, Video{
			VideoID:      item.Id.VideoId,
			Title:        item.Snippet.Title,
			Thumbnail:    thumbnail(item.Snippet.Thumbnails),
			ChannelTitle: item.Snippet.ChannelTitle,
		})
	}
	return out, nil
}

func thumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.Medium, t.High, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

// Shuffle randomizes the order of vs in place.
func Shuffle(vs []Video, r *rand.Rand) {
	shuffle := rand.Shuffle
	if r != nil {
		shuffle = r.Shuffle
	}
	shuffle(len(vs), func(i, j int) { vs[i], vs[j] = vs[j], vs[i] })
}
