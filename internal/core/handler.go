package core

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/keepmind9/trinitybot/internal/envelope"
	"github.com/keepmind9/trinitybot/internal/logger"
	"github.com/sirupsen/logrus"
)

// Messenger sends a rich embed to a channel. Implementations must be safe
// for concurrent use; every handler task shares one.
type Messenger interface {
	SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error
}

// triggers maps exact message content to the template it answers with.
// No trimming or case folding: "!Trinity" and "!trinity " do not match.
var triggers = map[string]string{
	"!trinity":   envelope.Trinity,
	"!salvation": envelope.Salvation,
}

// HandleEvent reacts to a single gateway event
func HandleEvent(ctx context.Context, shardID int, event interface{}, messenger Messenger) error {
	switch e := event.(type) {
	case *discordgo.MessageCreate:
		if e.Message == nil {
			return nil
		}
		name, ok := triggers[e.Content]
		if !ok {
			return nil
		}
		return reply(ctx, shardID, e.Message, name, messenger)

	case *discordgo.Connect:
		logger.WithField("shard_id", shardID).Info("shard-connected")
	}

	return nil
}

func reply(ctx context.Context, shardID int, msg *discordgo.Message, template string, messenger Messenger) error {
	embed, err := envelope.BuildNamed(template)
	if err != nil {
		return fmt.Errorf("failed to build %s envelope: %w", template, err)
	}

	logger.WithFields(logrus.Fields{
		"shard_id": shardID,
		"trigger":  msg.Content,
		"channel":  msg.ChannelID,
	}).Debug("trigger-matched")

	if err := messenger.SendEmbed(ctx, msg.ChannelID, embed); err != nil {
		return fmt.Errorf("failed to send %s reply: %w", template, err)
	}
	return nil
}
