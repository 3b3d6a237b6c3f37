package filters

import (
	"context"
	"errors"
	"slices"

	"github.com/gorilla-devs/ferium-sub000/internal/metadata"
)

// Selector picks the best candidate out of a list of release artifacts.
// It holds no per-selection state and is safe for concurrent use.
type Selector struct {
	groups VersionGrouper
}

// NewSelector creates a selector that expands minor game versions with groups.
func NewSelector(groups VersionGrouper) *Selector {
	return &Selector{groups: groups}
}

type filterResult struct {
	filter  Filter
	indices IndexSet
}

// SelectLatest returns the index of the first file in files that satisfies
// every filter.
//
// files must already be sorted in order of preference (usually newest first);
// the lowest surviving index wins. Constraint filters are applied to every file
// and intersected, then preference filters are resolved on what remains.
func (s *Selector) SelectLatest(ctx context.Context, files []metadata.Metadata, filters []Filter) (int, error) {
	all := Enumerate(files)

	var constraints, preferences []filterResult
	var patternErrs []error

	for _, f := range filters {
		indices, err := f.Apply(ctx, s.groups, all)
		if err != nil {
			var patternErr *InvalidPatternError
			if errors.As(err, &patternErr) {
				patternErrs = append(patternErrs, err)
				continue
			}
			return 0, err
		}

		result := filterResult{filter: f, indices: indices}
		if f.Category() == Preference {
			preferences = append(preferences, result)
		} else {
			constraints = append(constraints, result)
		}
	}

	var empty []string
	for _, r := range slices.Concat(constraints, preferences) {
		if r.indices.Len() == 0 {
			empty = append(empty, r.filter.String())
		}
	}
	if len(empty) > 0 {
		patternErrs = append(patternErrs, &FilterEmptyError{Filters: empty})
	}
	if len(patternErrs) > 0 {
		return 0, errors.Join(patternErrs...)
	}

	surviving := NewIndexSet()
	if len(constraints) == 0 {
		for _, c := range all {
			surviving[c.Index] = struct{}{}
		}
	} else {
		surviving = constraints[0].indices
		for _, r := range constraints[1:] {
			surviving = surviving.Intersect(r.indices)
		}
	}

	// Preference filters only see what the constraints let through, but keep
	// the original indices.
	var narrowed []Candidate
	for _, c := range all {
		if surviving.Contains(c.Index) {
			narrowed = append(narrowed, c)
		}
	}

	final := surviving
	for _, r := range preferences {
		indices, err := r.filter.Apply(ctx, s.groups, narrowed)
		if err != nil {
			return 0, err
		}
		final = final.Intersect(indices)
	}

	index, ok := final.Min()
	if !ok {
		return 0, ErrNoCompatibleCombination
	}
	return index, nil
}
