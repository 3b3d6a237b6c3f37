package metadata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewCacheWithDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")

	ttl := 1 * time.Hour
	cache, err := NewCacheWithDir(dir, ttl)
	if err != nil {
		t.Fatalf("NewCacheWithDir() error = %v", err)
	}

	if cache.baseDir != dir {
		t.Errorf("cache.baseDir = %v, want %v", cache.baseDir, dir)
	}
	if cache.ttl != ttl {
		t.Errorf("cache.ttl = %v, want %v", cache.ttl, ttl)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("Cache directory was not created")
	}
}

func TestCache_SetAndGet(t *testing.T) {
	cache, err := NewCacheWithDir(t.TempDir(), 1*time.Hour)
	if err != nil {
		t.Fatalf("NewCacheWithDir() error = %v", err)
	}

	key := "test-key"
	data := []byte(`{"test":"data"}`)

	if err := cache.Set(key, data); err != nil {
		t.Fatalf("cache.Set() error = %v", err)
	}

	got, err := cache.Get(key)
	if err != nil {
		t.Fatalf("cache.Get() error = %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("cache.Get() = %v, want %v", string(got), string(data))
	}
}

func TestCache_GetMiss(t *testing.T) {
	cache, err := NewCacheWithDir(t.TempDir(), 1*time.Hour)
	if err != nil {
		t.Fatalf("NewCacheWithDir() error = %v", err)
	}

	if _, err := cache.Get("nonexistent-key"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("cache.Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestCache_GetExpired(t *testing.T) {
	cache, err := NewCacheWithDir(t.TempDir(), 1*time.Millisecond)
	if err != nil {
		t.Fatalf("NewCacheWithDir() error = %v", err)
	}

	if err := cache.Set("test-key", []byte(`[]`)); err != nil {
		t.Fatalf("cache.Set() error = %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := cache.Get("test-key"); !errors.Is(err, ErrCacheExpired) {
		t.Errorf("cache.Get() error = %v, want ErrCacheExpired", err)
	}
}

func TestCachedLister(t *testing.T) {
	cache, err := NewCacheWithDir(t.TempDir(), 1*time.Hour)
	if err != nil {
		t.Fatalf("NewCacheWithDir() error = %v", err)
	}
	lister := &countingLister{versions: sampleVersions()}
	cached := NewCachedLister(lister, cache)

	for i := 0; i < 3; i++ {
		versions, err := cached.ListGameVersions(context.Background())
		if err != nil {
			t.Fatalf("ListGameVersions() error = %v", err)
		}
		if len(versions) != len(sampleVersions()) {
			t.Fatalf("ListGameVersions() returned %d versions, want %d", len(versions), len(sampleVersions()))
		}
		if versions[3] != sampleVersions()[3] {
			t.Errorf("versions[3] = %+v, want %+v", versions[3], sampleVersions()[3])
		}
	}

	if calls := lister.calls.Load(); calls != 1 {
		t.Errorf("lister called %d times, want 1", calls)
	}

	// A second lister sharing the cache directory does not fetch either.
	other := &countingLister{err: errors.New("offline")}
	if _, err := NewCachedLister(other, cache).ListGameVersions(context.Background()); err != nil {
		t.Errorf("ListGameVersions() error = %v, want cached result", err)
	}
}

func TestCachedLister_ErrorNotCached(t *testing.T) {
	cache, err := NewCacheWithDir(t.TempDir(), 1*time.Hour)
	if err != nil {
		t.Fatalf("NewCacheWithDir() error = %v", err)
	}
	lister := &countingLister{err: errors.New("offline")}
	cached := NewCachedLister(lister, cache)

	if _, err := cached.ListGameVersions(context.Background()); err == nil {
		t.Fatal("ListGameVersions() error = nil, want error")
	}
	if _, err := cache.Get(gameVersionsKey); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("cache.Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple name",
			input: "test",
			want:  "test",
		},
		{
			name:  "with underscores",
			input: "game_versions",
			want:  "game_versions",
		},
		{
			name:  "with special chars",
			input: "test:key/name",
			want:  "test_key_name",
		},
		{
			name:  "with spaces",
			input: "test key name",
			want:  "test_key_name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeFilename(tt.input); got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
