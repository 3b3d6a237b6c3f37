package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorilla-devs/ferium-sub000/internal/config"
	"github.com/gorilla-devs/ferium-sub000/internal/ui"
)

var RemoveCmd = &cobra.Command{
	Use:   "remove <name|id>...",
	Short: "Remove mods from the active profile",
	Long: `Remove mods from the active profile. Each argument is matched against the
mod names, slugs and identifiers, ignoring case. Nothing is removed if any
argument does not match a mod.

Examples:
  ferium remove sodium
  ferium remove 238222 CaffeineMC/sodium`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		profile, err := e.cfg.Active()
		if err != nil {
			return err
		}

		var indices []int
		for _, arg := range args {
			i, ok := profile.LookupMod(arg)
			if !ok {
				return fmt.Errorf("%w: %s", config.ErrModNotFound, arg)
			}
			if !slices.Contains(indices, i) {
				indices = append(indices, i)
			}
		}

		// Remove from the back so earlier indices stay valid.
		slices.Sort(indices)
		removed := make([]string, 0, len(indices))
		for _, i := range slices.Backward(indices) {
			removed = append(removed, profile.Mods[i].Name)
			profile.RemoveMod(i)
		}
		slices.Reverse(removed)

		if err := e.save(); err != nil {
			return err
		}
		ui.PrintSuccess(fmt.Sprintf("Removed %s", strings.Join(removed, ", ")))
		return nil
	},
}
