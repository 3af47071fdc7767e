// Package bot owns everything that talks to Discord.
//
// Two pieces live here:
//
//   - Client: a REST-only session used to fetch the bot identity, read the
//     recommended shard count, register application commands and send
//     replies. It is safe for concurrent use.
//   - ShardManager: one gateway session per shard, merged into a single
//     stream of ShardEvent values.
//
// # Usage
//
//	client, _ := bot.NewClient(token)
//	me, _ := client.Identity(ctx)
//	count, _ := bot.ResolveShardCount(ctx, client, 0)
//	manager, _ := bot.NewShardManager(token, bot.ShardConfig{Count: count})
//	manager.Up(ctx)
//	for ev := range manager.Events() {
//	    // ev.ShardID, ev.Event
//	}
//
// Events on one shard arrive in gateway order. Events from different
// shards interleave.
package bot

import "github.com/bwmarrin/discordgo"

// ShardEvent is one gateway event tagged with the shard it arrived on.
// Event holds a discordgo event pointer such as *discordgo.MessageCreate
// or *discordgo.Connect.
type ShardEvent struct {
	ShardID int
	Event   interface{}
}

// shardSession is the part of *discordgo.Session a shard needs.
// Tests substitute a fake.
type shardSession interface {
	AddHandler(handler interface{}) func()
	Open() error
	Close() error
}

// restSession is the part of *discordgo.Session the Client needs
type restSession interface {
	User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)
	Application(appID string) (*discordgo.Application, error)
	GatewayBot(options ...discordgo.RequestOption) (*discordgo.GatewayBotResponse, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}
