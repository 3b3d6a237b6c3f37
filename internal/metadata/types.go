// Package metadata provides the normalized view of a release artifact that the
// compatibility engine works on, together with the game version grouping service
// used for minor-version compatibility.
package metadata

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownLoader is returned when a string is not a recognised mod loader.
	ErrUnknownLoader = errors.New("the given string is not a recognised mod loader")
	// ErrUnknownChannel is returned when a string is not a recognised release channel.
	ErrUnknownChannel = errors.New("the given string is not a recognised release channel")
	// ErrVersionGroupingUnavailable is returned when the game version list could not be fetched.
	ErrVersionGroupingUnavailable = errors.New("version grouping unavailable")
)

// Loader represents a Minecraft mod loader.
type Loader string

const (
	LoaderQuilt    Loader = "Quilt"
	LoaderFabric   Loader = "Fabric"
	LoaderForge    Loader = "Forge"
	LoaderNeoForge Loader = "NeoForge"
)

// Loaders lists every known loader.
var Loaders = []Loader{LoaderQuilt, LoaderFabric, LoaderForge, LoaderNeoForge}

// ParseLoader parses a loader name. Matching is case-insensitive.
func ParseLoader(s string) (Loader, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quilt":
		return LoaderQuilt, nil
	case "fabric":
		return LoaderFabric, nil
	case "forge":
		return LoaderForge, nil
	case "neoforge":
		return LoaderNeoForge, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLoader, s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Loader) UnmarshalText(text []byte) error {
	parsed, err := ParseLoader(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLoaders parses every recognised loader in names and silently drops the rest.
// Platforms mix loader names with other tags (e.g. CurseForge game versions), so
// unrecognised entries are expected.
func ParseLoaders(names []string) []Loader {
	var loaders []Loader
	for _, name := range names {
		if l, err := ParseLoader(name); err == nil {
			loaders = append(loaders, l)
		}
	}
	return loaders
}

// ReleaseChannel is the stability tier of a release artifact.
type ReleaseChannel string

const (
	ChannelRelease ReleaseChannel = "Release"
	ChannelBeta    ReleaseChannel = "Beta"
	ChannelAlpha   ReleaseChannel = "Alpha"
)

// ParseReleaseChannel parses a channel name. Matching is case-insensitive.
func ParseReleaseChannel(s string) (ReleaseChannel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "release":
		return ChannelRelease, nil
	case "beta":
		return ChannelBeta, nil
	case "alpha":
		return ChannelAlpha, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownChannel, s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ReleaseChannel) UnmarshalText(text []byte) error {
	parsed, err := ParseReleaseChannel(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// stability ranks channels, higher is more stable.
func (c ReleaseChannel) stability() int {
	switch c {
	case ChannelRelease:
		return 2
	case ChannelBeta:
		return 1
	default:
		return 0
	}
}

// Accepts reports whether an artifact on channel other is at least as stable as c.
func (c ReleaseChannel) Accepts(other ReleaseChannel) bool {
	return other.stability() >= c.stability()
}

// Metadata is the normalized, read-only description of one candidate artifact:
// a GitHub release asset, a Modrinth version or a CurseForge file.
type Metadata struct {
	// Title is the release name, version name or file display name.
	Title string
	// Description is the release body or version changelog.
	Description string
	Filename    string

	Channel ReleaseChannel

	GameVersions []string
	Loaders      []Loader
}

// HasLoader reports whether the artifact declares support for l.
func (m *Metadata) HasLoader(l Loader) bool {
	for _, loader := range m.Loaders {
		if loader == l {
			return true
		}
	}
	return false
}

// HasAnyGameVersion reports whether any declared game version is in versions.
func (m *Metadata) HasAnyGameVersion(versions map[string]struct{}) bool {
	for _, v := range m.GameVersions {
		if _, ok := versions[v]; ok {
			return true
		}
	}
	return false
}

// VersionType indicates whether a game version is stable or experimental.
type VersionType string

const (
	VersionRelease  VersionType = "release"
	VersionSnapshot VersionType = "snapshot"
	VersionBeta     VersionType = "beta"
	VersionAlpha    VersionType = "alpha"
)

// GameVersion is one entry of the game version tag list.
type GameVersion struct {
	Version string      `json:"version"`
	Type    VersionType `json:"version_type"`
	// Major marks a version that starts a new minor-compatible group after it.
	Major bool `json:"major"`
}
