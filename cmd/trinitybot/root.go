package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trinitybot",
	Short: "trinitybot is a Discord bot that answers !trinity and !salvation",
	Long: `trinitybot connects to the Discord gateway over one or more shards,
keeps a cache of recent guild messages, and replies to the exact-match
triggers "!trinity" and "!salvation" with rich embeds.

The bot token is read from the TOKEN environment variable (or a .env file)
unless the config file sets it.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}
