package video

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	searchCacheTTL = 10 * time.Minute
	// searchCacheMax bounds the cache; the API accepts arbitrary queries.
	searchCacheMax = 1024
)

type searchCacheEntry struct {
	id        string
	expiresAt time.Time
}

// YouTube resolves queries with the YouTube Data API search endpoint.
// Successful lookups are cached in memory for ten minutes, up to
// searchCacheMax queries.
type YouTube struct {
	service *youtube.Service
	now     func() time.Time

	mu    sync.RWMutex
	cache map[string]searchCacheEntry
}

func NewYouTube(ctx context.Context, key string, opts ...option.ClientOption) (*YouTube, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(key)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("video: couldn't create youtube service: %w", err)
	}
	return &YouTube{
		service: service,
		now:     time.Now,
		cache:   map[string]searchCacheEntry{},
	}, nil
}

func (y *YouTube) Resolve(ctx context.Context, query string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if id, ok := y.cached(key); ok {
		return id, nil
	}

	resp, err := y.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("video: search %q: %w", query, err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Id == nil || resp.Items[0].Id.VideoId == "" {
		return "", ErrNotFound
	}
	id := resp.Items[0].Id.VideoId
	slog.Debug("video resolved", "component", "video", "query", query, "id", id)

	y.store(key, id)
	return id, nil
}

func (y *YouTube) cached(key string) (string, bool) {
	y.mu.RLock()
	entry, ok := y.cache[key]
	y.mu.RUnlock()
	if !ok {
		return "", false
	}
	if y.now().Before(entry.expiresAt) {
		return entry.id, true
	}

	y.mu.Lock()
	if current, ok := y.cache[key]; ok && !y.now().Before(current.expiresAt) {
		delete(y.cache, key)
	}
	y.mu.Unlock()
	return "", false
}

func (y *YouTube) store(key, id string) {
	y.mu.Lock()
	defer y.mu.Unlock()
	now := y.now()
	if _, ok := y.cache[key]; !ok && len(y.cache) >= searchCacheMax {
		y.evictLocked(now)
	}
	y.cache[key] = searchCacheEntry{id: id, expiresAt: now.Add(searchCacheTTL)}
}

// evictLocked drops expired entries, or the one closest to expiry when
// none has expired yet.
func (y *YouTube) evictLocked(now time.Time) {
	var oldest string
	var oldestAt time.Time
	found := false
	for k, e := range y.cache {
		if !now.Before(e.expiresAt) {
			delete(y.cache, k)
			continue
		}
		if !found || e.expiresAt.Before(oldestAt) {
			oldest, oldestAt, found = k, e.expiresAt, true
		}
	}
	if len(y.cache) >= searchCacheMax && found {
		delete(y.cache, oldest)
	}
}

func (y *YouTube) cacheLen() int {
	y.mu.RLock()
	defer y.mu.RUnlock()
	return len(y.cache)
}
