package filters

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gorilla-devs/ferium-sub000/internal/metadata"
)

var (
	// ErrFilterEmpty is matched by FilterEmptyError.
	ErrFilterEmpty = errors.New("filter produced an empty set")
	// ErrNoCompatibleCombination is returned when every filter matches something
	// but no single candidate survives all of them.
	ErrNoCompatibleCombination = errors.New("failed to find a compatible combination")
	// ErrInvalidPattern is matched by InvalidPatternError.
	ErrInvalidPattern = errors.New("invalid filter pattern")
	// ErrVersionGroupingUnavailable is re-exported from metadata for callers
	// that only import this package.
	ErrVersionGroupingUnavailable = metadata.ErrVersionGroupingUnavailable
)

// FilterEmptyError names every filter that matched no candidate.
type FilterEmptyError struct {
	Filters []string
}

func (e *FilterEmptyError) Error() string {
	return fmt.Sprintf("the following filter(s) were empty: %s", strings.Join(e.Filters, ", "))
}

func (e *FilterEmptyError) Unwrap() error {
	return ErrFilterEmpty
}

// InvalidPatternError is returned when a regex filter's pattern does not compile.
type InvalidPatternError struct {
	Filter  string
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("%s: invalid pattern %q: %v", e.Filter, e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() []error {
	return []error{ErrInvalidPattern, e.Err}
}
