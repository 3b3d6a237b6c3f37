// Package config holds the profiles and mods managed by ferium, their on-disk
// store and the runtime settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gorilla-devs/ferium-sub000/internal/filters"
	"github.com/gorilla-devs/ferium-sub000/internal/metadata"
)

var (
	// ErrNoProfiles is returned when an operation needs a profile and there are none.
	ErrNoProfiles = errors.New("there are no profiles configured, create one with `ferium profile create`")
	// ErrProfileNotFound is returned when a profile name does not match any profile.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProfileExists is returned when creating a profile with a name already in use.
	ErrProfileExists = errors.New("a profile with this name already exists")
	// ErrModNotFound is returned when a name or ID does not match any mod of a profile.
	ErrModNotFound = errors.New("mod is not present in this profile")
)

// Config is the persisted list of profiles.
type Config struct {
	ActiveProfile int       `json:"active_profile,omitempty" yaml:"active_profile,omitempty"`
	Profiles      []Profile `json:"profiles,omitempty" yaml:"profiles,omitempty"`
}

// Profile is a set of mods sharing an output directory and a list of filters.
type Profile struct {
	Name string `json:"name" yaml:"name"`
	// OutputDir is the directory mod files are downloaded to.
	OutputDir string          `json:"output_dir" yaml:"output_dir"`
	Filters   filters.Filters `json:"filters" yaml:"filters"`
	Mods      []Mod           `json:"mods" yaml:"mods"`

	// Pre-filter profiles stored a single game version and loader.
	LegacyGameVersion string `json:"game_version,omitempty" yaml:"game_version,omitempty"`
	LegacyModLoader   string `json:"mod_loader,omitempty" yaml:"mod_loader,omitempty"`
}

// Mod is a project added to a profile.
type Mod struct {
	Name       string        `json:"name" yaml:"name"`
	Identifier ModIdentifier `json:"identifier" yaml:"identifier"`
	Slug       string        `json:"slug,omitempty" yaml:"slug,omitempty"`

	// Filters apply only to this mod.
	Filters filters.Filters `json:"filters,omitempty" yaml:"filters,omitempty"`
	// OverrideFilters makes Filters replace the profile's filters instead of adding to them.
	OverrideFilters bool `json:"override_filters,omitempty" yaml:"override_filters,omitempty"`
}

// DefaultFilters returns the filters of a new profile. Quilt profiles also
// accept Fabric mods.
func DefaultFilters(gameVersions []string, loader metadata.Loader) filters.Filters {
	loaders := []metadata.Loader{loader}
	if loader == metadata.LoaderQuilt {
		loaders = append(loaders, metadata.LoaderFabric)
	}
	return filters.Filters{
		filters.LoaderPrefer(loaders...),
		filters.GameVersionStrict(gameVersions...),
	}
}

// NewProfile creates an empty profile for the given game versions and loader.
func NewProfile(name, outputDir string, gameVersions []string, loader metadata.Loader) Profile {
	return Profile{
		Name:      name,
		OutputDir: outputDir,
		Filters:   DefaultFilters(gameVersions, loader),
		Mods:      []Mod{},
	}
}

// PushMod appends a mod to the profile.
func (p *Profile) PushMod(name string, id ModIdentifier, slug string, overrideFilters bool, fs filters.Filters) {
	p.Mods = append(p.Mods, Mod{
		Name:            name,
		Identifier:      id,
		Slug:            slug,
		Filters:         fs.Clone(),
		OverrideFilters: overrideFilters,
	})
}

// EffectiveFilters returns the filters used when resolving mod in this profile.
func (p *Profile) EffectiveFilters(mod *Mod) filters.Filters {
	return p.Filters.Merge(mod.Filters, mod.OverrideFilters)
}

// FindMod returns the index of the first mod named name (case-insensitive)
// or identified by id.
func (p *Profile) FindMod(name string, id ModIdentifier) (int, bool) {
	for i := range p.Mods {
		if strings.EqualFold(p.Mods[i].Name, name) || p.Mods[i].Identifier.IsSameAs(id) {
			return i, true
		}
	}
	return -1, false
}

// LookupMod returns the index of the mod whose name, slug or unpinned
// identifier matches query, ignoring case.
func (p *Profile) LookupMod(query string) (int, bool) {
	for i := range p.Mods {
		m := &p.Mods[i]
		if strings.EqualFold(m.Name, query) ||
			strings.EqualFold(m.Identifier.Unpinned().String(), query) ||
			(m.Slug != "" && strings.EqualFold(m.Slug, query)) {
			return i, true
		}
	}
	return -1, false
}

// RemoveMod removes the mod at index i.
func (p *Profile) RemoveMod(i int) {
	p.Mods = append(p.Mods[:i], p.Mods[i+1:]...)
}

// SetGameVersions replaces the versions of the profile's game version filter,
// adding a strict one if there is none.
func (p *Profile) SetGameVersions(versions []string) {
	if !p.Filters.SetGameVersions(versions) {
		p.Filters = append(p.Filters, filters.GameVersionStrict(versions...))
	}
}

// SetModLoader replaces the loaders of the profile's loader filter, adding a
// preferring one if there is none. Quilt profiles also accept Fabric mods.
func (p *Profile) SetModLoader(loader metadata.Loader) {
	loaders := []metadata.Loader{loader}
	if loader == metadata.LoaderQuilt {
		loaders = append(loaders, metadata.LoaderFabric)
	}
	if !p.Filters.SetModLoaders(loaders) {
		p.Filters = append(p.Filters, filters.LoaderPrefer(loaders...))
	}
}

// migrate converts the legacy game version and loader fields into filters.
func (p *Profile) migrate() error {
	if p.LegacyGameVersion == "" || p.LegacyModLoader == "" {
		p.LegacyGameVersion, p.LegacyModLoader = "", ""
		return nil
	}

	loader, err := metadata.ParseLoader(p.LegacyModLoader)
	if err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	p.Filters = DefaultFilters([]string{p.LegacyGameVersion}, loader)
	p.LegacyGameVersion, p.LegacyModLoader = "", ""
	return nil
}

// Active returns the active profile.
func (c *Config) Active() (*Profile, error) {
	if len(c.Profiles) == 0 {
		return nil, ErrNoProfiles
	}
	if c.ActiveProfile < 0 || c.ActiveProfile >= len(c.Profiles) {
		c.ActiveProfile = 0
	}
	return &c.Profiles[c.ActiveProfile], nil
}

// AddProfile appends p and makes it the active profile.
func (c *Config) AddProfile(p Profile) error {
	if _, ok := c.profileIndex(p.Name); ok {
		return fmt.Errorf("%w: %s", ErrProfileExists, p.Name)
	}
	c.Profiles = append(c.Profiles, p)
	c.ActiveProfile = len(c.Profiles) - 1
	return nil
}

// Switch makes the profile called name active.
func (c *Config) Switch(name string) error {
	i, ok := c.profileIndex(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	c.ActiveProfile = i
	return nil
}

// Rename renames the active profile.
func (c *Config) Rename(name string) error {
	profile, err := c.Active()
	if err != nil {
		return err
	}
	if i, ok := c.profileIndex(name); ok && i != c.ActiveProfile {
		return fmt.Errorf("%w: %s", ErrProfileExists, name)
	}
	profile.Name = name
	return nil
}

// DeleteProfile removes the profile called name. Deleting the active profile
// makes the first remaining profile active.
func (c *Config) DeleteProfile(name string) error {
	i, ok := c.profileIndex(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	c.Profiles = append(c.Profiles[:i], c.Profiles[i+1:]...)
	switch {
	case i == c.ActiveProfile:
		c.ActiveProfile = 0
	case i < c.ActiveProfile:
		c.ActiveProfile--
	}
	return nil
}

func (c *Config) profileIndex(name string) (int, bool) {
	for i := range c.Profiles {
		if strings.EqualFold(c.Profiles[i].Name, name) {
			return i, true
		}
	}
	return -1, false
}

// DefaultPath returns ~/.config/ferium/config.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ferium", "config.json"), nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Load reads the config at path. A missing file is created with an empty config.
// Files ending in .yaml or .yml are read as YAML, anything else as JSON.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg := &Config{}
		if err := cfg.Save(path); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	for i := range cfg.Profiles {
		if err := cfg.Profiles[i].migrate(); err != nil {
			return nil, err
		}
		if cfg.Profiles[i].Mods == nil {
			cfg.Profiles[i].Mods = []Mod{}
		}
	}
	return &cfg, nil
}

// Save writes the config to path, creating its directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "    ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}
