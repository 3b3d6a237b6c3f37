package filters

import (
	"context"
	"fmt"
	"regexp"
	"slices"

	"github.com/gorilla-devs/ferium-sub000/internal/metadata"
)

// VersionGrouper expands game versions to their minor-compatible groups.
// *metadata.VersionGroups implements it.
type VersionGrouper interface {
	Expand(ctx context.Context, versions []string) ([]string, error)
}

// Candidate pairs an artifact with its position in the caller's preference order.
type Candidate struct {
	Index int
	Meta  *metadata.Metadata
}

// Enumerate returns candidates for files, indexed by position.
func Enumerate(files []metadata.Metadata) []Candidate {
	candidates := make([]Candidate, len(files))
	for i := range files {
		candidates[i] = Candidate{Index: i, Meta: &files[i]}
	}
	return candidates
}

// IndexSet is a set of candidate indices.
type IndexSet map[int]struct{}

// NewIndexSet creates a set holding indices.
func NewIndexSet(indices ...int) IndexSet {
	s := make(IndexSet, len(indices))
	for _, i := range indices {
		s[i] = struct{}{}
	}
	return s
}

// Contains reports whether i is in s.
func (s IndexSet) Contains(i int) bool {
	_, ok := s[i]
	return ok
}

// Len returns the number of indices in s.
func (s IndexSet) Len() int {
	return len(s)
}

// Intersect returns the indices present in both s and other.
func (s IndexSet) Intersect(other IndexSet) IndexSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(IndexSet, len(small))
	for i := range small {
		if large.Contains(i) {
			out[i] = struct{}{}
		}
	}
	return out
}

// Min returns the lowest index in s. ok is false if s is empty.
func (s IndexSet) Min() (lowest int, ok bool) {
	for i := range s {
		if !ok || i < lowest {
			lowest, ok = i, true
		}
	}
	return lowest, ok
}

// Sorted returns the indices of s in ascending order.
func (s IndexSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// positions returns the indices of candidates for which match returns true.
func positions(candidates []Candidate, match func(*metadata.Metadata) bool) IndexSet {
	out := make(IndexSet)
	for _, c := range candidates {
		if match(c.Meta) {
			out[c.Index] = struct{}{}
		}
	}
	return out
}

func stringSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Apply returns the indices of candidates that pass through f.
//
// It fails only if expanding game versions fails (KindGameVersionMinor), or if
// a regex pattern does not compile. groups is only consulted by
// KindGameVersionMinor and may be nil otherwise.
func (f Filter) Apply(ctx context.Context, groups VersionGrouper, candidates []Candidate) (IndexSet, error) {
	switch f.Kind {
	case KindModLoaderPrefer:
		for _, l := range f.Loaders {
			matched := positions(candidates, func(m *metadata.Metadata) bool {
				return m.HasLoader(l)
			})
			if matched.Len() > 0 {
				return matched, nil
			}
		}
		return IndexSet{}, nil

	case KindModLoaderAny:
		return positions(candidates, func(m *metadata.Metadata) bool {
			return slices.ContainsFunc(f.Loaders, m.HasLoader)
		}), nil

	case KindGameVersionStrict:
		versions := stringSet(f.Versions)
		return positions(candidates, func(m *metadata.Metadata) bool {
			return m.HasAnyGameVersion(versions)
		}), nil

	case KindGameVersionMinor:
		if groups == nil {
			return nil, &metadata.VersionGroupError{Err: fmt.Errorf("no version grouping service configured")}
		}
		expanded, err := groups.Expand(ctx, f.Versions)
		if err != nil {
			return nil, err
		}
		versions := stringSet(expanded)
		return positions(candidates, func(m *metadata.Metadata) bool {
			return m.HasAnyGameVersion(versions)
		}), nil

	case KindReleaseChannel:
		return positions(candidates, func(m *metadata.Metadata) bool {
			return f.Channel.Accepts(m.Channel)
		}), nil

	case KindFilename, KindTitle, KindDescription:
		re, err := regexp.Compile(f.Pattern)
		if err != nil {
			return nil, &InvalidPatternError{Filter: f.String(), Pattern: f.Pattern, Err: err}
		}
		field := f.textField()
		return positions(candidates, func(m *metadata.Metadata) bool {
			return re.MatchString(field(m))
		}), nil

	default:
		return nil, fmt.Errorf("unknown filter kind %q", f.Kind)
	}
}

// textField returns the accessor for the text a regex filter matches against.
func (f Filter) textField() func(*metadata.Metadata) string {
	switch f.Kind {
	case KindTitle:
		return func(m *metadata.Metadata) string { return m.Title }
	case KindDescription:
		return func(m *metadata.Metadata) string { return m.Description }
	default:
		return func(m *metadata.Metadata) string { return m.Filename }
	}
}
