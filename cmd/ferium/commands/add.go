package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorilla-devs/ferium-sub000/internal/add"
	"github.com/gorilla-devs/ferium-sub000/internal/config"
	"github.com/gorilla-devs/ferium-sub000/internal/sources"
	"github.com/gorilla-devs/ferium-sub000/internal/ui"
)

var (
	addNoChecks bool
	addOverride bool
	addFilters  filterFlags
)

var AddCmd = &cobra.Command{
	Use:   "add <identifier>...",
	Short: "Add mods to the active profile",
	Long: `Add mods from Modrinth, CurseForge or GitHub to the active profile.

Identifiers are resolved as follows:
  238222            CurseForge project ID
  AANobbMI, sodium  Modrinth project ID or slug
  owner/repo        GitHub repository

Append @<id> to pin a specific file, version or release asset.

Examples:
  ferium add sodium lithium
  ferium add 238222
  ferium add CaffeineMC/sodium-fabric
  ferium add sodium@tMSjaQh6
  ferium add sodium --override --game-version-strict 1.20.1`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	AddCmd.Flags().BoolVar(&addNoChecks, "no-checks", false, "Skip the compatibility check")
	AddCmd.Flags().BoolVar(&addOverride, "override", false, "Use only this mod's filters instead of adding them to the profile's")
	addFilters.register(AddCmd.Flags())
}

func runAdd(cmd *cobra.Command, args []string) error {
	fs, err := addFilters.build()
	if err != nil {
		return err
	}

	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	profile, err := e.cfg.Active()
	if err != nil {
		return err
	}

	var (
		ids     []config.ModIdentifier
		invalid int
	)
	for _, arg := range args {
		id, err := config.ParseIdentifier(arg)
		if err != nil {
			ui.PrintError(fmt.Sprintf("%s: %v", arg, err))
			invalid++
			continue
		}
		ids = append(ids, id)
	}

	manager := sources.NewManager(e.settings)
	adder := add.New(manager.Modrinth, manager.CurseForge, manager.GitHub, e.selector(manager))

	result, err := adder.Add(cmd.Context(), profile, ids, add.Options{
		PerformChecks:   !addNoChecks,
		OverrideProfile: addOverride,
		Filters:         fs,
	})
	if err != nil {
		return err
	}

	for _, s := range result.Successes {
		ui.PrintSuccess(fmt.Sprintf("Added %s", ui.StyleNoun.Render(s.Name)))
	}
	for _, f := range result.Failures {
		ui.PrintError(fmt.Sprintf("%s: %v", ui.StyleNoun.Render(f.Name), f.Err))
	}

	if len(result.Successes) > 0 {
		if err := e.save(); err != nil {
			return err
		}
	}

	if failed := len(result.Failures) + invalid; failed > 0 {
		return fmt.Errorf("%d mod(s) could not be added", failed)
	}
	return nil
}
