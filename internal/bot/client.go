package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/keepmind9/trinitybot/internal/logger"
	"github.com/sirupsen/logrus"
)

var (
	// ErrMissingToken is returned when a client or shard manager gets an empty token
	ErrMissingToken = errors.New("missing bot token")
	// ErrNoShards is returned when the shard count is below one
	ErrNoShards = errors.New("shard count must be at least 1")
)

// Client is the REST side of the bot. Replies from concurrent handler
// tasks share one Client.
type Client struct {
	session restSession
}

// NewClient creates a REST client for token
func NewClient(token string) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	session, err := discordgo.New(botToken(token))
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.StateEnabled = false

	return &Client{session: session}, nil
}

// Identity fetches the bot's own user. An invalid token fails here,
// before any gateway connection is attempted.
func (c *Client) Identity(ctx context.Context) (*discordgo.User, error) {
	user, err := c.session.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bot identity: %w", err)
	}
	if user == nil {
		return nil, errors.New("failed to fetch bot identity: empty response")
	}

	logger.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("bot-identity-fetched")

	return user, nil
}

// ApplicationID fetches the ID of the application that owns the bot.
// Application commands are registered against it, not the bot user.
func (c *Client) ApplicationID(ctx context.Context) (string, error) {
	app, err := c.session.Application("@me")
	if err != nil {
		return "", fmt.Errorf("failed to fetch application: %w", err)
	}
	if app == nil || app.ID == "" {
		return "", errors.New("failed to fetch application: empty response")
	}
	return app.ID, nil
}

// RecommendedShards asks the gateway how many shards to run
func (c *Client) RecommendedShards(ctx context.Context) (int, error) {
	resp, err := c.session.GatewayBot(discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to fetch gateway info: %w", err)
	}
	if resp == nil {
		return 0, errors.New("failed to fetch gateway info: empty response")
	}
	return resp.Shards, nil
}

// SendEmbed posts a single rich embed to channelID
func (c *Client) SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error {
	if channelID == "" {
		return errors.New("channel id is empty")
	}
	if embed == nil {
		return errors.New("embed is nil")
	}

	msg, err := c.session.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx))
	if err != nil {
		logger.WithFields(logrus.Fields{
			"channel": channelID,
			"error":   err,
		}).Error("failed-to-send-embed-to-discord")
		return fmt.Errorf("failed to send embed to channel %s: %w", channelID, err)
	}

	fields := logrus.Fields{"channel": channelID}
	if msg != nil {
		fields["message_id"] = msg.ID
	}
	logger.WithFields(fields).Info("embed-sent-to-discord")
	return nil
}

// RegisterCommands replaces the application's commands with cmds.
// An empty guildID registers them globally.
func (c *Client) RegisterCommands(ctx context.Context, appID, guildID string, cmds []*discordgo.ApplicationCommand) ([]*discordgo.ApplicationCommand, error) {
	if appID == "" {
		return nil, errors.New("application id is empty")
	}

	created, err := c.session.ApplicationCommandBulkOverwrite(appID, guildID, cmds, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to register application commands: %w", err)
	}

	names := make([]string, 0, len(created))
	for _, cmd := range created {
		names = append(names, cmd.Name)
	}
	logger.WithFields(logrus.Fields{
		"application_id": appID,
		"guild_id":       guildID,
		"commands":       names,
	}).Info("application-commands-registered")

	return created, nil
}
