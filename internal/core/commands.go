package core

import "github.com/bwmarrin/discordgo"

// Commands returns the application commands registered with Discord.
// The event loop never routes interactions; registration happens out of
// band via the register CLI command.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "trinity",
			Type:        discordgo.ChatApplicationCommand,
			Description: "Gets information about the trinity.",
		},
	}
}
