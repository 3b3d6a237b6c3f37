package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorilla-devs/ferium-sub000/internal/config"
	"github.com/gorilla-devs/ferium-sub000/internal/metadata"
	"github.com/gorilla-devs/ferium-sub000/internal/ui"
)

var (
	profileName         string
	profileOutputDir    string
	profileGameVersions []string
	profileLoader       string
)

var ProfileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage profiles",
}

var profileCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a profile and make it active",
	Long: `Create a profile and make it active. The profile starts with a filter
preferring the given loader and one requiring the given game versions.

Examples:
  ferium profile create --name fabric --game-version 1.20.1 --loader fabric --output-dir ~/.minecraft/mods`,
	Args: cobra.NoArgs,
	RunE: runProfileCreate,
}

var profileInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the active profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		profile, err := e.cfg.Active()
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s\n", ui.StyleNoun.Render(profile.Name))
		fmt.Fprintf(w, "  Output directory: %s\n", profile.OutputDir)
		fmt.Fprintf(w, "  Mods:             %d\n", len(profile.Mods))
		fmt.Fprintln(w, "  Filters:")
		for _, f := range profile.Filters {
			fmt.Fprintf(w, "    %s\n", f)
		}
		return nil
	},
}

var profileSwitchCmd = &cobra.Command{
	Use:   "switch <name>",
	Short: "Make another profile active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		if err := e.cfg.Switch(args[0]); err != nil {
			return err
		}
		if err := e.save(); err != nil {
			return err
		}
		ui.PrintSuccess(fmt.Sprintf("Switched to %s", ui.StyleNoun.Render(args[0])))
		return nil
	},
}

var profileConfigureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Change the settings of the active profile",
	Long: `Change the name, output directory, game versions or mod loader of the
active profile. Only the given flags are changed. The game versions and mod
loader replace the values of the profile's existing filters.

Examples:
  ferium profile configure --game-version 1.21.1
  ferium profile configure --loader quilt --output-dir ./mods`,
	Args: cobra.NoArgs,
	RunE: runProfileConfigure,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		if err := e.cfg.DeleteProfile(args[0]); err != nil {
			return err
		}
		if err := e.save(); err != nil {
			return err
		}
		ui.PrintSuccess(fmt.Sprintf("Deleted profile %s", ui.StyleNoun.Render(args[0])))
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every profile, marking the active one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		if len(e.cfg.Profiles) == 0 {
			return config.ErrNoProfiles
		}

		w := cmd.OutOrStdout()
		for i, p := range e.cfg.Profiles {
			marker := ""
			if i == e.cfg.ActiveProfile {
				marker = " *"
			}
			fmt.Fprintf(w, "%s%s\n", ui.StyleNoun.Render(p.Name), marker)
			fmt.Fprintf(w, "  Output directory: %s\n", p.OutputDir)
			if versions, ok := p.Filters.GameVersions(); ok {
				fmt.Fprintf(w, "  Game versions:    %s\n", strings.Join(versions, ", "))
			}
			if loaders, ok := p.Filters.ModLoaders(); ok {
				fmt.Fprintf(w, "  Mod loaders:      %s\n", joinLoaders(loaders))
			}
			fmt.Fprintf(w, "  Mods:             %d\n", len(p.Mods))
		}
		return nil
	},
}

func joinLoaders(loaders []metadata.Loader) string {
	names := make([]string, len(loaders))
	for i, l := range loaders {
		names[i] = string(l)
	}
	return strings.Join(names, ", ")
}

func init() {
	profileConfigureCmd.Flags().String("name", "", "New name of the profile")
	profileConfigureCmd.Flags().String("output-dir", "", "Directory mods are downloaded to")
	profileConfigureCmd.Flags().StringSlice("game-version", nil, "Game versions to download mods for")
	profileConfigureCmd.Flags().String("loader", "", "Mod loader to download mods for")

	profileCreateCmd.Flags().StringVar(&profileName, "name", "", "Name of the profile")
	profileCreateCmd.Flags().StringVar(&profileOutputDir, "output-dir", "", "Directory mods are downloaded to")
	profileCreateCmd.Flags().StringSliceVar(&profileGameVersions, "game-version", nil, "Game versions to download mods for")
	profileCreateCmd.Flags().StringVar(&profileLoader, "loader", "", "Mod loader to download mods for")
	for _, name := range []string{"name", "output-dir", "game-version", "loader"} {
		_ = profileCreateCmd.MarkFlagRequired(name)
	}

	ProfileCmd.AddCommand(profileCreateCmd, profileConfigureCmd, profileDeleteCmd, profileInfoCmd, profileListCmd, profileSwitchCmd)
}

func runProfileCreate(cmd *cobra.Command, args []string) error {
	loader, err := metadata.ParseLoader(profileLoader)
	if err != nil {
		return err
	}
	outputDir, err := filepath.Abs(profileOutputDir)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	if err := e.cfg.AddProfile(config.NewProfile(profileName, outputDir, profileGameVersions, loader)); err != nil {
		return err
	}
	if err := e.save(); err != nil {
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("Created profile %s", ui.StyleNoun.Render(profileName)))
	return nil
}

func runProfileConfigure(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("name") && !flags.Changed("output-dir") && !flags.Changed("game-version") && !flags.Changed("loader") {
		return fmt.Errorf("nothing to change, pass at least one of --name, --output-dir, --game-version or --loader")
	}

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	profile, err := e.cfg.Active()
	if err != nil {
		return err
	}

	if flags.Changed("loader") {
		name, _ := flags.GetString("loader")
		loader, err := metadata.ParseLoader(name)
		if err != nil {
			return err
		}
		profile.SetModLoader(loader)
	}
	if flags.Changed("game-version") {
		versions, _ := flags.GetStringSlice("game-version")
		profile.SetGameVersions(versions)
	}
	if flags.Changed("output-dir") {
		dir, _ := flags.GetString("output-dir")
		if profile.OutputDir, err = filepath.Abs(dir); err != nil {
			return fmt.Errorf("failed to resolve output directory: %w", err)
		}
	}
	if flags.Changed("name") {
		name, _ := flags.GetString("name")
		if err := e.cfg.Rename(name); err != nil {
			return err
		}
	}

	if err := e.save(); err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Updated profile %s", ui.StyleNoun.Render(profile.Name)))
	return nil
}
