package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidIdentifier is returned when a string cannot be parsed into a mod identifier.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// Platform is a distribution platform hosting mod files.
type Platform string

const (
	PlatformCurseForge Platform = "CurseForge"
	PlatformModrinth   Platform = "Modrinth"
	PlatformGitHub     Platform = "GitHub"
)

// ModIdentifier identifies a project on a platform, optionally pinned to one file.
//
// Only the fields of Platform are set: CurseForgeID for CurseForge, ModrinthID
// for Modrinth, Owner and Repo for GitHub. Pin is a CurseForge file ID, a
// Modrinth version ID or a GitHub release asset ID.
type ModIdentifier struct {
	Platform     Platform
	CurseForgeID int
	ModrinthID   string
	Owner        string
	Repo         string
	Pin          string
}

// CurseForgeProject identifies a CurseForge project.
func CurseForgeProject(id int) ModIdentifier {
	return ModIdentifier{Platform: PlatformCurseForge, CurseForgeID: id}
}

// ModrinthProject identifies a Modrinth project by ID or slug.
func ModrinthProject(id string) ModIdentifier {
	return ModIdentifier{Platform: PlatformModrinth, ModrinthID: id}
}

// GitHubRepository identifies a GitHub repository.
func GitHubRepository(owner, repo string) ModIdentifier {
	return ModIdentifier{Platform: PlatformGitHub, Owner: owner, Repo: repo}
}

// Pinned returns a copy of id pinned to pin.
func (id ModIdentifier) Pinned(pin string) ModIdentifier {
	id.Pin = pin
	return id
}

// IsPinned reports whether id is pinned to a single file.
func (id ModIdentifier) IsPinned() bool {
	return id.Pin != ""
}

// Unpinned returns a copy of id without its pin.
func (id ModIdentifier) Unpinned() ModIdentifier {
	id.Pin = ""
	return id
}

// PinID returns the pin as a numeric ID, for CurseForge and GitHub pins.
func (id ModIdentifier) PinID() (int, error) {
	n, err := strconv.Atoi(id.Pin)
	if err != nil {
		return 0, fmt.Errorf("%w: pin %q is not numeric", ErrInvalidIdentifier, id.Pin)
	}
	return n, nil
}

// IsSameAs reports whether id and other refer to the same project, ignoring pins.
// GitHub repositories and Modrinth IDs are compared case-insensitively.
func (id ModIdentifier) IsSameAs(other ModIdentifier) bool {
	if id.Platform != other.Platform {
		return false
	}
	switch id.Platform {
	case PlatformCurseForge:
		return id.CurseForgeID == other.CurseForgeID
	case PlatformModrinth:
		return strings.EqualFold(id.ModrinthID, other.ModrinthID)
	case PlatformGitHub:
		return strings.EqualFold(id.Owner, other.Owner) && strings.EqualFold(id.Repo, other.Repo)
	}
	return false
}

// String returns the identifier in the form accepted by ParseIdentifier.
func (id ModIdentifier) String() string {
	var s string
	switch id.Platform {
	case PlatformCurseForge:
		s = strconv.Itoa(id.CurseForgeID)
	case PlatformModrinth:
		s = id.ModrinthID
	case PlatformGitHub:
		s = id.Owner + "/" + id.Repo
	}
	if id.Pin != "" {
		s += "@" + id.Pin
	}
	return s
}

// ParseIdentifier parses a user supplied identifier.
//
//	238222            CurseForge project
//	AANobbMI, sodium  Modrinth project ID or slug
//	owner/repo        GitHub repository
//
// Any form may be followed by @pin to pin a file, version or asset ID.
func ParseIdentifier(s string) (ModIdentifier, error) {
	s = strings.TrimSpace(s)
	project, pin, pinned := strings.Cut(s, "@")
	if project == "" || (pinned && pin == "") {
		return ModIdentifier{}, fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
	}

	var id ModIdentifier
	if n, err := strconv.Atoi(project); err == nil {
		id = CurseForgeProject(n)
	} else if owner, repo, ok := strings.Cut(project, "/"); ok {
		if owner == "" || repo == "" || strings.Contains(repo, "/") {
			return ModIdentifier{}, fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
		}
		id = GitHubRepository(owner, repo)
	} else {
		id = ModrinthProject(project)
	}

	if pinned {
		id = id.Pinned(pin)
		if id.Platform != PlatformModrinth {
			if _, err := id.PinID(); err != nil {
				return ModIdentifier{}, err
			}
		}
	}
	return id, nil
}

// Identifiers are stored externally tagged, compatible with ferium config files:
//
//	{"CurseForgeProject": 238222}
//	{"ModrinthProject": "AANobbMI"}
//	{"GitHubRepository": ["owner", "repo"]}
//	{"PinnedCurseForgeProject": [238222, 4712309]}
//	{"PinnedModrinthProject": ["AANobbMI", "tMSjaQh6"]}
//	{"PinnedGitHubRepository": [["owner", "repo"], 123456]}

func (id ModIdentifier) tagged() (map[string]interface{}, error) {
	switch id.Platform {
	case PlatformCurseForge:
		if id.IsPinned() {
			pin, err := id.PinID()
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"PinnedCurseForgeProject": []int{id.CurseForgeID, pin}}, nil
		}
		return map[string]interface{}{"CurseForgeProject": id.CurseForgeID}, nil
	case PlatformModrinth:
		if id.IsPinned() {
			return map[string]interface{}{"PinnedModrinthProject": []string{id.ModrinthID, id.Pin}}, nil
		}
		return map[string]interface{}{"ModrinthProject": id.ModrinthID}, nil
	case PlatformGitHub:
		repo := []string{id.Owner, id.Repo}
		if id.IsPinned() {
			pin, err := id.PinID()
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"PinnedGitHubRepository": []interface{}{repo, pin}}, nil
		}
		return map[string]interface{}{"GitHubRepository": repo}, nil
	}
	return nil, fmt.Errorf("%w: unknown platform %q", ErrInvalidIdentifier, id.Platform)
}

func (id *ModIdentifier) decodeTagged(tag string, decode func(v interface{}) error) error {
	var (
		out ModIdentifier
		err error
	)

	switch tag {
	case "CurseForgeProject":
		var n int
		err = decode(&n)
		out = CurseForgeProject(n)
	case "ModrinthProject":
		var s string
		err = decode(&s)
		out = ModrinthProject(s)
	case "GitHubRepository":
		var repo [2]string
		err = decode(&repo)
		out = GitHubRepository(repo[0], repo[1])
	case "PinnedCurseForgeProject":
		var pair [2]int
		err = decode(&pair)
		out = CurseForgeProject(pair[0]).Pinned(strconv.Itoa(pair[1]))
	case "PinnedModrinthProject":
		var pair [2]string
		err = decode(&pair)
		out = ModrinthProject(pair[0]).Pinned(pair[1])
	case "PinnedGitHubRepository":
		var pair pinnedRepository
		err = decode(&pair)
		out = GitHubRepository(pair.Repo[0], pair.Repo[1]).Pinned(strconv.Itoa(pair.Asset))
	default:
		return fmt.Errorf("%w: unknown identifier kind %q", ErrInvalidIdentifier, tag)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidIdentifier, tag, err)
	}

	*id = out
	return nil
}

// pinnedRepository is the [["owner", "repo"], assetID] tuple.
type pinnedRepository struct {
	Repo  [2]string
	Asset int
}

func (p *pinnedRepository) UnmarshalJSON(data []byte) error {
	var tuple [2]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if err := json.Unmarshal(tuple[0], &p.Repo); err != nil {
		return err
	}
	return json.Unmarshal(tuple[1], &p.Asset)
}

func (p *pinnedRepository) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode || len(value.Content) != 2 {
		return fmt.Errorf("line %d: expected [[owner, repo], asset]", value.Line)
	}
	if err := value.Content[0].Decode(&p.Repo); err != nil {
		return err
	}
	return value.Content[1].Decode(&p.Asset)
}

// MarshalJSON implements json.Marshaler.
func (id ModIdentifier) MarshalJSON() ([]byte, error) {
	tagged, err := id.tagged()
	if err != nil {
		return nil, err
	}
	return json.Marshal(tagged)
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ModIdentifier) UnmarshalJSON(data []byte) error {
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidIdentifier, err)
	}
	if len(tagged) != 1 {
		return fmt.Errorf("%w: expected exactly one key, got %d", ErrInvalidIdentifier, len(tagged))
	}
	for tag, raw := range tagged {
		return id.decodeTagged(tag, func(v interface{}) error {
			return json.Unmarshal(raw, v)
		})
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (id ModIdentifier) MarshalYAML() (interface{}, error) {
	return id.tagged()
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (id *ModIdentifier) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return fmt.Errorf("%w: line %d: expected a mapping with a single key", ErrInvalidIdentifier, value.Line)
	}
	return id.decodeTagged(value.Content[0].Value, value.Content[1].Decode)
}
