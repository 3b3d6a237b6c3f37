// Package filters implements the compatibility filters of a profile and the
// selection of the best candidate artifact among a list of releases.
package filters

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gorilla-devs/ferium-sub000/internal/metadata"
)

// Kind identifies a filter variant.
type Kind string

const (
	// KindModLoaderPrefer prefers files in the order of the given loaders.
	// It only works as intended when run last on an already filtered list.
	KindModLoaderPrefer Kind = "ModLoaderPrefer"
	// KindModLoaderAny selects files compatible with any of the given loaders.
	KindModLoaderAny Kind = "ModLoaderAny"
	// KindGameVersionStrict selects files strictly compatible with the given versions.
	KindGameVersionStrict Kind = "GameVersionStrict"
	// KindGameVersionMinor selects files compatible with the given versions and
	// every version in the same minor-compatible group.
	KindGameVersionMinor Kind = "GameVersionMinor"
	// KindReleaseChannel selects files on the given channel or a more stable one.
	KindReleaseChannel Kind = "ReleaseChannel"
	// KindFilename selects files whose filename matches a regex.
	KindFilename Kind = "Filename"
	// KindTitle selects files whose title matches a regex.
	KindTitle Kind = "Title"
	// KindDescription selects files whose description matches a regex.
	KindDescription Kind = "Description"
)

// Kinds lists every filter kind.
var Kinds = []Kind{
	KindModLoaderPrefer,
	KindModLoaderAny,
	KindGameVersionStrict,
	KindGameVersionMinor,
	KindReleaseChannel,
	KindFilename,
	KindTitle,
	KindDescription,
}

// Category tells the selector how a filter's results may be combined.
type Category int

const (
	// Constraint filters reject incompatible candidates. Their results can be
	// intersected in any order.
	Constraint Category = iota
	// Preference filters pick among candidates by trying options in priority
	// order. They run after every constraint has narrowed the candidates.
	Preference
)

func (c Category) String() string {
	if c == Preference {
		return "preference"
	}
	return "constraint"
}

// Category returns the category of filters of kind k.
func (k Kind) Category() Category {
	if k == KindModLoaderPrefer {
		return Preference
	}
	return Constraint
}

// Valid reports whether k is a known filter kind.
func (k Kind) Valid() bool {
	return slices.Contains(Kinds, k)
}

// Filter is one compatibility filter. Only the fields relevant to Kind are set.
type Filter struct {
	Kind Kind

	// Loaders is used by KindModLoaderPrefer (ordered) and KindModLoaderAny.
	Loaders []metadata.Loader
	// Versions is used by KindGameVersionStrict and KindGameVersionMinor.
	Versions []string
	// Channel is the least stable channel accepted by KindReleaseChannel.
	Channel metadata.ReleaseChannel
	// Pattern is the regex of KindFilename, KindTitle and KindDescription.
	Pattern string
}

// LoaderPrefer creates a filter preferring loaders in the given order.
func LoaderPrefer(loaders ...metadata.Loader) Filter {
	return Filter{Kind: KindModLoaderPrefer, Loaders: loaders}
}

// LoaderAny creates a filter accepting any of the given loaders.
func LoaderAny(loaders ...metadata.Loader) Filter {
	return Filter{Kind: KindModLoaderAny, Loaders: loaders}
}

// GameVersionStrict creates a filter accepting exactly the given game versions.
func GameVersionStrict(versions ...string) Filter {
	return Filter{Kind: KindGameVersionStrict, Versions: versions}
}

// GameVersionMinor creates a filter accepting the given game versions and
// their minor-compatible relatives.
func GameVersionMinor(versions ...string) Filter {
	return Filter{Kind: KindGameVersionMinor, Versions: versions}
}

// MinChannel creates a filter accepting channel c or anything more stable.
func MinChannel(c metadata.ReleaseChannel) Filter {
	return Filter{Kind: KindReleaseChannel, Channel: c}
}

// FilenameRegex creates a filter matching filenames against pattern.
func FilenameRegex(pattern string) Filter {
	return Filter{Kind: KindFilename, Pattern: pattern}
}

// TitleRegex creates a filter matching titles against pattern.
func TitleRegex(pattern string) Filter {
	return Filter{Kind: KindTitle, Pattern: pattern}
}

// DescriptionRegex creates a filter matching descriptions against pattern.
func DescriptionRegex(pattern string) Filter {
	return Filter{Kind: KindDescription, Pattern: pattern}
}

// Category returns the category of f.
func (f Filter) Category() Category {
	return f.Kind.Category()
}

// Clone returns a deep copy of f.
func (f Filter) Clone() Filter {
	f.Loaders = slices.Clone(f.Loaders)
	f.Versions = slices.Clone(f.Versions)
	return f
}

// String returns the human readable form used in error reports.
func (f Filter) String() string {
	switch f.Kind {
	case KindModLoaderPrefer:
		return fmt.Sprintf("Mod Loader (%s)", joinLoaders(f.Loaders))
	case KindModLoaderAny:
		return fmt.Sprintf("Mod Loader Either (%s)", joinLoaders(f.Loaders))
	case KindGameVersionStrict:
		return fmt.Sprintf("Game Version (%s)", strings.Join(f.Versions, ", "))
	case KindGameVersionMinor:
		return fmt.Sprintf("Game Version Minor (%s)", strings.Join(f.Versions, ", "))
	case KindReleaseChannel:
		return fmt.Sprintf("Release Channel (%s)", f.Channel)
	case KindFilename:
		return fmt.Sprintf("Filename (%s)", f.Pattern)
	case KindTitle:
		return fmt.Sprintf("Title (%s)", f.Pattern)
	case KindDescription:
		return fmt.Sprintf("Description (%s)", f.Pattern)
	default:
		return fmt.Sprintf("Unknown (%s)", string(f.Kind))
	}
}

func joinLoaders(loaders []metadata.Loader) string {
	names := make([]string, len(loaders))
	for i, l := range loaders {
		names[i] = string(l)
	}
	return strings.Join(names, ", ")
}
