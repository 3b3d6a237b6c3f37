package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	// DefaultCacheTTL is the default time-to-live for cached data (24 hours).
	DefaultCacheTTL = 24 * time.Hour

	gameVersionsKey = "game_versions"
)

var (
	ErrCacheMiss    = errors.New("not in cache")
	ErrCacheExpired = errors.New("cache entry expired")
)

// CacheEntry is the on-disk form of a cached value.
type CacheEntry struct {
	Data      json.RawMessage `json:"data"`
	CachedAt  time.Time       `json:"cached_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func (e *CacheEntry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Cache provides a file-based caching layer for metadata.
type Cache struct {
	baseDir string
	ttl     time.Duration
	mu      sync.RWMutex
}

// NewCache creates a cache in the user cache directory.
func NewCache() (*Cache, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get cache directory: %w", err)
	}
	return NewCacheWithDir(filepath.Join(dir, "ferium"), DefaultCacheTTL)
}

// NewCacheWithDir creates a cache with a custom directory and TTL.
func NewCacheWithDir(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Cache{
		baseDir: dir,
		ttl:     ttl,
	}, nil
}

// Get retrieves data from the cache.
// Returns ErrCacheExpired if the cached data has expired and ErrCacheMiss if
// there is none.
func (c *Cache) Get(key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.getPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var entry CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", err)
	}

	if entry.IsExpired() {
		return nil, ErrCacheExpired
	}

	return entry.Data, nil
}

// Set stores JSON data in the cache with the configured TTL.
func (c *Cache) Set(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := CacheEntry{
		Data:      data,
		CachedAt:  now,
		ExpiresAt: now.Add(c.ttl),
	}

	entryData, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := os.WriteFile(c.getPath(key), entryData, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

func (c *Cache) getPath(key string) string {
	return filepath.Join(c.baseDir, sanitizeFilename(key)+".json")
}

// sanitizeFilename converts a cache key to a safe filename.
func sanitizeFilename(name string) string {
	var result []byte
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '-' || ch == '_' {
			result = append(result, ch)
		} else {
			result = append(result, '_')
		}
	}
	return string(result)
}

// CachedLister serves the game version list from a Cache, falling back to
// the wrapped lister when the entry is missing or expired.
type CachedLister struct {
	lister GameVersionLister
	cache  *Cache
}

func NewCachedLister(lister GameVersionLister, cache *Cache) *CachedLister {
	return &CachedLister{lister: lister, cache: cache}
}

func (l *CachedLister) ListGameVersions(ctx context.Context) ([]GameVersion, error) {
	if data, err := l.cache.Get(gameVersionsKey); err == nil {
		var versions []GameVersion
		if err := json.Unmarshal(data, &versions); err == nil {
			return versions, nil
		}
	}

	versions, err := l.lister.ListGameVersions(ctx)
	if err != nil {
		return nil, err
	}

	// A cache write failure only costs a refetch next time.
	if data, err := json.Marshal(versions); err == nil {
		_ = l.cache.Set(gameVersionsKey, data)
	}
	return versions, nil
}
