// Package upgrade resolves the mods of a profile to files and downloads them.
package upgrade

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gorilla-devs/ferium-sub000/internal/config"
	"github.com/gorilla-devs/ferium-sub000/internal/filters"
	"github.com/gorilla-devs/ferium-sub000/internal/metadata"
	"github.com/gorilla-devs/ferium-sub000/internal/sources"
	"github.com/gorilla-devs/ferium-sub000/internal/ui"
)

// Source fetches the files of a mod. *sources.Manager implements it.
type Source interface {
	Candidates(ctx context.Context, id config.ModIdentifier) ([]metadata.Metadata, []sources.DownloadData, error)
	Pinned(ctx context.Context, id config.ModIdentifier) (sources.DownloadData, error)
}

// Resolution is the outcome of resolving one mod. Data is only meaningful
// when Err is nil.
type Resolution struct {
	Name string
	Data sources.DownloadData
	Err  error
}

type Resolver struct {
	source   Source
	selector *filters.Selector
	limit    int
}

// NewResolver creates a resolver running at most limit resolutions at once.
func NewResolver(source Source, selector *filters.Selector, limit int) *Resolver {
	if limit < 1 {
		limit = 1
	}
	return &Resolver{
		source:   source,
		selector: selector,
		limit:    limit,
	}
}

// ResolveMod picks the file of mod to download. Pinned mods resolve to their
// pin; other mods resolve to the latest file passing the mod's effective filters.
func (r *Resolver) ResolveMod(ctx context.Context, profile *config.Profile, mod *config.Mod) (sources.DownloadData, error) {
	if mod.Identifier.IsPinned() {
		data, err := r.source.Pinned(ctx, mod.Identifier)
		if err != nil {
			return sources.DownloadData{}, fmt.Errorf("failed to fetch pinned file: %w", err)
		}
		return data, nil
	}

	metas, data, err := r.source.Candidates(ctx, mod.Identifier)
	if err != nil {
		return sources.DownloadData{}, fmt.Errorf("failed to fetch files: %w", err)
	}

	i, err := r.selector.SelectLatest(ctx, metas, profile.EffectiveFilters(mod))
	if err != nil {
		return sources.DownloadData{}, err
	}
	ui.Debug("selected file", "mod", mod.Name, "file", data[i].Filename())

	if data[i].Denied != nil {
		return data[i], data[i].Denied
	}
	return data[i], nil
}

// ResolveProfile resolves every mod of profile concurrently. The resolutions
// are in profile order and one mod failing does not affect the others.
func (r *Resolver) ResolveProfile(ctx context.Context, profile *config.Profile) []Resolution {
	results := make([]Resolution, len(profile.Mods))

	var g errgroup.Group
	g.SetLimit(r.limit)
	for i := range profile.Mods {
		mod := &profile.Mods[i]
		results[i].Name = mod.Name
		g.Go(func() error {
			results[i].Data, results[i].Err = r.ResolveMod(ctx, profile, mod)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
