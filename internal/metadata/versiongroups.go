package metadata

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// GameVersionLister lists every known game version, newest first.
type GameVersionLister interface {
	ListGameVersions(ctx context.Context) ([]GameVersion, error)
}

// VersionGroupError is returned when the game version list could not be fetched.
type VersionGroupError struct {
	Err error
}

func (e *VersionGroupError) Error() string {
	return fmt.Sprintf("failed to get version groups: %v", e.Err)
}

func (e *VersionGroupError) Unwrap() []error {
	return []error{ErrVersionGroupingUnavailable, e.Err}
}

// VersionGroups partitions release game versions into groups that are
// considered minor updates of each other in terms of mod compatibility.
//
// The partition is fetched on first use and cached for the lifetime of the
// value. A failed fetch is not cached, so the next call retries.
type VersionGroups struct {
	lister GameVersionLister
	flight singleflight.Group

	mu     sync.RWMutex
	groups [][]string
}

// NewVersionGroups creates a version grouping service backed by lister.
func NewVersionGroups(lister GameVersionLister) *VersionGroups {
	return &VersionGroups{lister: lister}
}

// Groups returns the memoized version groups, fetching them if needed.
// The returned slices must not be modified.
func (g *VersionGroups) Groups(ctx context.Context) ([][]string, error) {
	g.mu.RLock()
	groups := g.groups
	g.mu.RUnlock()
	if groups != nil {
		return groups, nil
	}

	// The fetch is shared, so it must outlive any single caller.
	fetchCtx := context.WithoutCancel(ctx)
	ch := g.flight.DoChan("groups", func() (interface{}, error) {
		g.mu.RLock()
		cached := g.groups
		g.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		versions, err := g.lister.ListGameVersions(fetchCtx)
		if err != nil {
			return nil, &VersionGroupError{Err: err}
		}

		built := buildGroups(versions)

		g.mu.Lock()
		g.groups = built
		g.mu.Unlock()

		return built, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([][]string), nil
	}
}

// Expand returns the union of every group that contains any of versions.
func (g *VersionGroups) Expand(ctx context.Context, versions []string) ([]string, error) {
	groups, err := g.Groups(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(versions))
	for _, v := range versions {
		wanted[v] = struct{}{}
	}

	var expanded []string
	for _, group := range groups {
		for _, v := range group {
			if _, ok := wanted[v]; ok {
				expanded = append(expanded, group...)
				break
			}
		}
	}

	return expanded, nil
}

// buildGroups folds release versions into groups, starting a new group after
// every version flagged as major.
func buildGroups(versions []GameVersion) [][]string {
	groups := [][]string{{}}
	for _, v := range versions {
		if v.Type != VersionRelease {
			continue
		}
		last := len(groups) - 1
		groups[last] = append(groups[last], v.Version)
		if v.Major {
			groups = append(groups, []string{})
		}
	}
	return groups
}
