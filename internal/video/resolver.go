// Package video resolves free-text song queries to YouTube video identifiers.
package video

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/api/option"
)

// ErrNotFound is returned when a live search yields no results.
var ErrNotFound = errors.New("video: no results")

// Resolver maps a search query to a playable video identifier. A nil error
// always comes with a non-empty identifier.
type Resolver interface {
	Resolve(ctx context.Context, query string) (string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, query string) (string, error)

func (f ResolverFunc) Resolve(ctx context.Context, query string) (string, error) {
	return f(ctx, query)
}

// New returns a live YouTube resolver when key is set and the deterministic
// fallback otherwise. Extra options are passed to the YouTube service.
func New(ctx context.Context, key string, opts ...option.ClientOption) (Resolver, error) {
	if strings.TrimSpace(key) == "" {
		return Fallback{}, nil
	}
	yt, err := NewYouTube(ctx, key, opts...)
	if err != nil {
		return nil, err
	}
	return yt, nil
}

// WatchURL returns the public watch page for a video identifier.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
