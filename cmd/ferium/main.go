package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/gorilla-devs/ferium-sub000/cmd/ferium/commands"
)

var (
	version = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "ferium",
	Short: "Ferium - Minecraft mod manager",
	Long: `Ferium manages Minecraft mods from Modrinth, CurseForge and GitHub Releases.

Mods are added to profiles. Each profile has filters, such as the game
version and mod loader, that decide which file of every mod is downloaded.

Examples:
  ferium profile create --name main --game-version 1.20.1 --loader fabric --output-dir ./mods
  ferium add sodium lithium
  ferium remove lithium
  ferium upgrade`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate(`{{printf "ferium version %s\n" .Version}}`)
	commands.RegisterPersistentFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(commands.AddCmd)
	rootCmd.AddCommand(commands.RemoveCmd)
	rootCmd.AddCommand(commands.UpgradeCmd)
	rootCmd.AddCommand(commands.ListCmd)
	rootCmd.AddCommand(commands.ProfileCmd)
	rootCmd.AddCommand(commands.FiltersCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
