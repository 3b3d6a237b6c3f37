package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gorilla-devs/ferium-sub000/internal/config"
	"github.com/gorilla-devs/ferium-sub000/internal/filters"
	"github.com/gorilla-devs/ferium-sub000/internal/metadata"
	"github.com/gorilla-devs/ferium-sub000/internal/sources"
	"github.com/gorilla-devs/ferium-sub000/internal/ui"
)

// RegisterPersistentFlags adds the flags shared by every command. Their names
// match the settings keys, with dashes for underscores.
func RegisterPersistentFlags(flags *pflag.FlagSet) {
	flags.String("config-file", "", "Path to the config file (default ~/.config/ferium/config.json)")
	flags.String("github-token", "", "GitHub personal access token, required to add GitHub repositories")
	flags.String("curseforge-api-key", "", "CurseForge API key")
	flags.Int("concurrency", config.DefaultConcurrency, "Maximum number of mods resolved at once")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.Bool("cache-game-versions", false, "Keep the game version list on disk for a day instead of fetching it every run")
}

// env is what a command needs to run: its settings and the loaded config.
type env struct {
	settings *config.Settings
	cfg      *config.Config
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	settings, err := config.LoadSettings(cmd.Flags())
	if err != nil {
		return nil, err
	}
	ui.SetupLogging(settings.Verbose)
	ui.Debug("loading config", "path", settings.ConfigFile)

	cfg, err := config.Load(settings.ConfigFile)
	if err != nil {
		return nil, err
	}
	return &env{settings: settings, cfg: cfg}, nil
}

func (e *env) save() error {
	if err := e.cfg.Save(e.settings.ConfigFile); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// selector builds the selector used for compatibility checks. Game version
// groups come from Modrinth.
func (e *env) selector(manager *sources.Manager) *filters.Selector {
	return filters.NewSelector(metadata.NewVersionGroups(e.gameVersionLister(manager.Modrinth)))
}

// gameVersionLister wraps lister with the disk cache when it is enabled.
func (e *env) gameVersionLister(lister metadata.GameVersionLister) metadata.GameVersionLister {
	if !e.settings.CacheGameVersions {
		return lister
	}
	cache, err := metadata.NewCache()
	if err != nil {
		ui.Debug("game version cache disabled", "err", err)
		return lister
	}
	return metadata.NewCachedLister(lister, cache)
}
