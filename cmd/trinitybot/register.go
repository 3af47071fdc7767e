package main

import (
	"context"
	"fmt"
	"io"

	"github.com/bwmarrin/discordgo"
	"github.com/keepmind9/trinitybot/internal/bot"
	"github.com/keepmind9/trinitybot/internal/core"
	"github.com/spf13/cobra"
)

var (
	registerConfig string
	registerGuild  string

	registerCmd = &cobra.Command{
		Use:   "register",
		Short: "Register the bot's slash commands with Discord",
		Long: `Overwrite the application's commands with the bot's command list.
Without --guild the commands are registered globally, which can take up to
an hour to propagate. The event loop does not need this step.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load configuration
			config, err := core.LoadConfig(registerConfig)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			client, err := bot.NewClient(config.Token)
			if err != nil {
				return err
			}

			return registerCommands(cmd.Context(), client, registerGuild, cmd.OutOrStdout())
		},
	}
)

// commandRegistrar is the part of bot.Client the register command uses
type commandRegistrar interface {
	ApplicationID(ctx context.Context) (string, error)
	RegisterCommands(ctx context.Context, appID, guildID string, cmds []*discordgo.ApplicationCommand) ([]*discordgo.ApplicationCommand, error)
}

func registerCommands(ctx context.Context, client commandRegistrar, guildID string, out io.Writer) error {
	// Commands belong to the application, whose ID may differ from the bot user's
	appID, err := client.ApplicationID(ctx)
	if err != nil {
		return err
	}

	created, err := client.RegisterCommands(ctx, appID, guildID, core.Commands())
	if err != nil {
		return err
	}

	scope := "globally"
	if guildID != "" {
		scope = "in guild " + guildID
	}
	fmt.Fprintf(out, "Registered %d command(s) %s:\n", len(created), scope)
	for _, c := range created {
		fmt.Fprintf(out, "  /%s - %s\n", c.Name, c.Description)
	}
	return nil
}

func init() {
	registerCmd.Flags().StringVarP(&registerConfig, "config", "c", "", "Configuration file path (optional)")
	registerCmd.Flags().StringVar(&registerGuild, "guild", "", "Register in a single guild instead of globally")
}
