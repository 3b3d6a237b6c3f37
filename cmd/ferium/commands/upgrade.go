package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorilla-devs/ferium-sub000/internal/metadata"
	"github.com/gorilla-devs/ferium-sub000/internal/sources"
	"github.com/gorilla-devs/ferium-sub000/internal/ui"
	"github.com/gorilla-devs/ferium-sub000/internal/upgrade"
)

var (
	dryRun     bool
	skipVerify bool
)

var UpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Download the latest compatible version of every mod",
	Long: `Resolve every mod of the active profile to its latest compatible file and
download it to the profile's output directory.

Files in the output directory that no mod resolves to are moved to .old.
Jars in the user directory of the output directory are copied next to the
downloaded mods, except for Quilt profiles.

Examples:
  ferium upgrade
  ferium upgrade --dry-run    # Show the selected files without downloading`,
	Args: cobra.NoArgs,
	RunE: runUpgrade,
}

func init() {
	UpgradeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the selected files without downloading them")
	UpgradeCmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "Skip checksum verification of downloaded files")
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	profile, err := e.cfg.Active()
	if err != nil {
		return err
	}
	if len(profile.Mods) == 0 {
		ui.PrintInfo("The profile has no mods, add some with `ferium add`")
		return nil
	}

	manager := sources.NewManager(e.settings)
	resolver := upgrade.NewResolver(manager, e.selector(manager), e.settings.Concurrency)

	ui.PrintInfo(fmt.Sprintf("Determining the latest compatible versions of %d mods", len(profile.Mods)))
	resolutions := resolver.ResolveProfile(cmd.Context(), profile)

	failed := 0
	for _, r := range resolutions {
		if r.Err != nil {
			failed++
			ui.PrintError(fmt.Sprintf("%s: %v", ui.StyleNoun.Render(r.Name), r.Err))
			continue
		}
		ui.PrintSuccess(fmt.Sprintf("%s %s", ui.StyleNoun.Render(r.Name), ui.StyleDim.Render(r.Data.Filename())))
	}

	if dryRun {
		if failed > 0 {
			return fmt.Errorf("could not get the latest compatible version of %d mod(s)", failed)
		}
		return nil
	}

	// Quilt loads the user directory itself.
	var userMods []string
	if loader, ok := profile.Filters.ModLoader(); !ok || loader != metadata.LoaderQuilt {
		if userMods, err = upgrade.UserMods(profile.OutputDir); err != nil {
			return err
		}
	}

	// A failed mod keeps its current file.
	if failed == 0 {
		moved, err := upgrade.Clean(profile.OutputDir, resolutions, userMods)
		for _, name := range moved {
			ui.PrintWarning(fmt.Sprintf("Moved %s to %s", name, upgrade.OldDir))
		}
		if err != nil {
			return err
		}
	}

	downloader := upgrade.NewDownloader(e.settings.Concurrency)
	downloader.SkipVerify = skipVerify
	if err := downloader.DownloadAll(cmd.Context(), profile.OutputDir, resolutions); err != nil {
		return err
	}
	if err := upgrade.InstallUserMods(profile.OutputDir, userMods); err != nil {
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("Downloaded %d mods to %s", len(resolutions)-failed, profile.OutputDir))
	if failed > 0 {
		return fmt.Errorf("could not get the latest compatible version of %d mod(s)", failed)
	}
	return nil
}
