package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gorilla-devs/ferium-sub000/internal/config"
	"github.com/gorilla-devs/ferium-sub000/internal/ui"
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the mods of the active profile",
	Long: `List the mods of the active profile with their identifiers.

Examples:
  ferium list
  ferium list --json    # Output in JSON format`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		e, err := loadEnv(cmd)
		if err != nil {
			return err
		}
		profile, err := e.cfg.Active()
		if err != nil {
			return err
		}

		if jsonOutput {
			return displayJSON(cmd.OutOrStdout(), profile.Mods)
		}
		displayMods(cmd.OutOrStdout(), profile)
		return nil
	},
}

func init() {
	ListCmd.Flags().Bool("json", false, "Output in JSON format")
}

func displayJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func displayMods(w io.Writer, profile *config.Profile) {
	if len(profile.Mods) == 0 {
		fmt.Fprintf(w, "%s has no mods\n", profile.Name)
		return
	}

	for _, mod := range profile.Mods {
		line := fmt.Sprintf("%-30s %s %s", ui.StyleNoun.Render(mod.Name), mod.Identifier.Platform, ui.StyleDim.Render(mod.Identifier.String()))
		if mod.OverrideFilters {
			line += " (overrides profile filters)"
		}
		fmt.Fprintln(w, line)
	}
}
