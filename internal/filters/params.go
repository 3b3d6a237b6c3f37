package filters

import (
	"slices"

	"github.com/gorilla-devs/ferium-sub000/internal/metadata"
)

// Filters is an ordered list of filters, as stored on a profile or a mod.
type Filters []Filter

// GameVersions returns the versions of the first game version filter, if any.
func (fs Filters) GameVersions() ([]string, bool) {
	for _, f := range fs {
		if f.Kind == KindGameVersionStrict || f.Kind == KindGameVersionMinor {
			return f.Versions, true
		}
	}
	return nil, false
}

// ModLoaders returns the loaders of the first loader filter, if any.
func (fs Filters) ModLoaders() ([]metadata.Loader, bool) {
	for _, f := range fs {
		if f.Kind == KindModLoaderPrefer || f.Kind == KindModLoaderAny {
			return f.Loaders, true
		}
	}
	return nil, false
}

// ModLoader returns the first loader of the first loader filter, if any.
func (fs Filters) ModLoader() (metadata.Loader, bool) {
	loaders, ok := fs.ModLoaders()
	if !ok || len(loaders) == 0 {
		return "", false
	}
	return loaders[0], true
}

// SetGameVersions replaces the versions of the first game version filter.
// It reports false if there is no such filter.
func (fs Filters) SetGameVersions(versions []string) bool {
	for i, f := range fs {
		if f.Kind == KindGameVersionStrict || f.Kind == KindGameVersionMinor {
			fs[i].Versions = slices.Clone(versions)
			return true
		}
	}
	return false
}

// SetModLoaders replaces the loaders of the first loader filter.
// It reports false if there is no such filter.
func (fs Filters) SetModLoaders(loaders []metadata.Loader) bool {
	for i, f := range fs {
		if f.Kind == KindModLoaderPrefer || f.Kind == KindModLoaderAny {
			fs[i].Loaders = slices.Clone(loaders)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of fs.
func (fs Filters) Clone() Filters {
	if fs == nil {
		return nil
	}
	out := make(Filters, len(fs))
	for i, f := range fs {
		out[i] = f.Clone()
	}
	return out
}

// Only returns copies of the filters whose kind is one of kinds.
func (fs Filters) Only(kinds ...Kind) Filters {
	var out Filters
	for _, f := range fs {
		if slices.Contains(kinds, f.Kind) {
			out = append(out, f.Clone())
		}
	}
	return out
}

// Merge combines profile filters fs with a mod's own filters. When override is
// set the mod's filters replace the profile's, otherwise they are appended.
// The result never shares memory with either input.
func (fs Filters) Merge(mod Filters, override bool) Filters {
	if override {
		return mod.Clone()
	}
	return append(fs.Clone(), mod.Clone()...)
}
