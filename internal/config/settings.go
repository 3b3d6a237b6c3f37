package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Environment variable prefix for ferium settings.
const envPrefix = "FERIUM"

const (
	DefaultConcurrency   = 75
	DefaultModrinthURL   = "https://api.modrinth.com/v2"
	DefaultCurseForgeURL = "https://api.curseforge.com"
	DefaultGitHubURL     = "https://api.github.com"
)

// Settings are the runtime options of the CLI. They come from flags, then
// FERIUM_* environment variables, then defaults.
type Settings struct {
	ConfigFile       string `mapstructure:"config_file"`
	GitHubToken      string `mapstructure:"github_token"`
	CurseForgeAPIKey string `mapstructure:"curseforge_api_key"`
	// Concurrency bounds the number of mods resolved at once.
	Concurrency   int    `mapstructure:"concurrency"`
	ModrinthURL   string `mapstructure:"modrinth_url"`
	CurseForgeURL string `mapstructure:"curseforge_url"`
	GitHubURL     string `mapstructure:"github_url"`
	Verbose       bool   `mapstructure:"verbose"`
	// CacheGameVersions keeps the game version list on disk between runs.
	CacheGameVersions bool `mapstructure:"cache_game_versions"`
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	// The platform tokens are also read from their conventional names
	_ = v.BindEnv("github_token", "FERIUM_GITHUB_TOKEN", "GITHUB_TOKEN")
	_ = v.BindEnv("curseforge_api_key", "FERIUM_CURSEFORGE_API_KEY", "CURSEFORGE_API_KEY")
	_ = v.BindEnv("config_file", "FERIUM_CONFIG_FILE")

	v.SetDefault("config_file", "")
	v.SetDefault("github_token", "")
	v.SetDefault("curseforge_api_key", "")
	v.SetDefault("concurrency", DefaultConcurrency)
	v.SetDefault("modrinth_url", DefaultModrinthURL)
	v.SetDefault("curseforge_url", DefaultCurseForgeURL)
	v.SetDefault("github_url", DefaultGitHubURL)
	v.SetDefault("verbose", false)
	v.SetDefault("cache_game_versions", false)

	return v
}

// LoadSettings resolves the settings. Flags in flags override the environment
// when they were set explicitly; flag names use dashes for the underscored keys.
func LoadSettings(flags *pflag.FlagSet) (*Settings, error) {
	v := newViper()

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return nil, fmt.Errorf("binding flags: %w", bindErr)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshaling settings: %w", err)
	}

	if s.Concurrency < 1 {
		s.Concurrency = 1
	}
	if s.ConfigFile == "" {
		path, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
		s.ConfigFile = path
	}
	return &s, nil
}
