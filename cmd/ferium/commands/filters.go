package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorilla-devs/ferium-sub000/internal/config"
)

var FiltersCmd = &cobra.Command{
	Use:   "filters [mod]",
	Short: "Show the filters of the active profile, or those applied to a mod",
	Long: `Show the filters of the active profile. When a mod name is given, show
the filters used when resolving that mod, which combine the profile's filters
with the mod's own unless the mod overrides them.

Examples:
  ferium filters
  ferium filters sodium`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		profile, err := e.cfg.Active()
		if err != nil {
			return err
		}

		fs := profile.Filters
		if len(args) == 1 {
			i, ok := profile.FindMod(args[0], config.ModIdentifier{})
			if !ok {
				return fmt.Errorf("no mod named %q in profile %s", args[0], profile.Name)
			}
			fs = profile.EffectiveFilters(&profile.Mods[i])
		}

		w := cmd.OutOrStdout()
		for _, f := range fs {
			fmt.Fprintf(w, "%-20s %s\n", f.Category(), f)
		}
		return nil
	},
}
