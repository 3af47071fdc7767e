package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keepmind9/trinitybot/internal/logger"
	"github.com/keepmind9/trinitybot/pkg/constants"
	"github.com/sirupsen/logrus"
)

// ShardConfig describes the shard topology and gateway subscription
type ShardConfig struct {
	Count            int
	Intents          discordgo.Intent
	IdentifyInterval time.Duration
}

// ShardCounter reports the gateway's recommended shard count
type ShardCounter interface {
	RecommendedShards(ctx context.Context) (int, error)
}

// Intents returns the gateway intents the bot subscribes to: guild
// messages, plus message content when requested.
func Intents(messageContent bool) discordgo.Intent {
	intents := discordgo.IntentsGuildMessages
	// Privileged: without it guild message content arrives empty and no trigger can match
	if messageContent {
		intents |= discordgo.IntentMessageContent
	}
	return intents
}

// ResolveShardCount returns configured when positive, otherwise the
// gateway's recommendation (at least one shard).
func ResolveShardCount(ctx context.Context, counter ShardCounter, configured int) (int, error) {
	if configured > 0 {
		return configured, nil
	}

	count, err := counter.RecommendedShards(ctx)
	if err != nil {
		return 0, err
	}
	if count < 1 {
		count = 1
	}

	logger.WithField("shard_count", count).Info("using-recommended-shard-count")
	return count, nil
}

var newShardSession = func(token string, shardID, shardCount int, intents discordgo.Intent) (shardSession, error) {
	session, err := discordgo.New(botToken(token))
	if err != nil {
		return nil, err
	}
	session.ShardID = shardID
	session.ShardCount = shardCount
	session.Identify.Intents = intents
	// The bot keeps its own cache
	session.StateEnabled = false
	// Handlers run on the shard's read loop so events keep gateway order
	session.SyncEvents = true
	return session, nil
}

// ShardManager owns one gateway session per shard and merges their
// events into a single stream.
type ShardManager struct {
	config   ShardConfig
	sessions []shardSession
	events   chan ShardEvent
	done     chan struct{}

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	upOnce    sync.Once
}

// NewShardManager builds the shard sessions without connecting them
func NewShardManager(token string, config ShardConfig) (*ShardManager, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}
	if config.Count < 1 {
		return nil, fmt.Errorf("%w (got %d)", ErrNoShards, config.Count)
	}
	if config.Intents == 0 {
		config.Intents = Intents(true)
	}

	// Sessions are built up front; none connects until Up
	m := &ShardManager{
		config:   config,
		sessions: make([]shardSession, 0, config.Count),
		events:   make(chan ShardEvent, constants.EventChannelBufferSize),
		done:     make(chan struct{}),
	}

	for i := 0; i < config.Count; i++ {
		session, err := newShardSession(token, i, config.Count, config.Intents)
		if err != nil {
			return nil, fmt.Errorf("failed to create session for shard %d: %w", i, err)
		}

		// Tag every event with the shard it came from
		shardID := i
		session.AddHandler(func(_ *discordgo.Session, event interface{}) {
			m.emit(shardID, event)
		})
		m.sessions = append(m.sessions, session)
	}

	logger.WithFields(logrus.Fields{
		"shard_count": config.Count,
		"intents":     int(config.Intents),
	}).Info("shard-manager-initialized")

	return m, nil
}

// Events returns the merged event stream. It is closed by Close.
func (m *ShardManager) Events() <-chan ShardEvent {
	return m.events
}

// ShardCount returns the number of shards managed
func (m *ShardManager) ShardCount() int {
	return len(m.sessions)
}

// Up starts connecting shards in the background and returns immediately.
// Shards identify one after another, IdentifyInterval apart. Calling Up
// more than once has no effect.
func (m *ShardManager) Up(ctx context.Context) {
	m.upOnce.Do(func() {
		go m.up(ctx)
	})
}

func (m *ShardManager) up(ctx context.Context) {
	opened := 0
	for i, session := range m.sessions {
		// Respect the identify rate limit between shards
		if i > 0 && m.config.IdentifyInterval > 0 {
			timer := time.NewTimer(m.config.IdentifyInterval)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				logger.WithField("shard_id", i).Warn("shard-bring-up-cancelled")
				return
			case <-m.done:
				timer.Stop()
				return
			}
		}

		// Closed while waiting
		select {
		case <-m.done:
			return
		default:
		}

		if err := session.Open(); err != nil {
			logger.WithFields(logrus.Fields{
				"shard_id": i,
				"error":    err,
			}).Error("failed-to-open-shard")
			continue
		}
		opened++

		logger.WithFields(logrus.Fields{
			"shard_id":    i,
			"shard_count": len(m.sessions),
		}).Debug("shard-opened")
	}

	if opened == 0 {
		logger.Error("no-shards-opened")
	}
}

// emit forwards one event into the merged stream; it drops events once
// the manager is closed.
func (m *ShardManager) emit(shardID int, event interface{}) {
	// discordgo delivers every event twice to interface handlers: typed and raw
	if _, raw := event.(*discordgo.Event); raw {
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return
	}

	select {
	case m.events <- ShardEvent{ShardID: shardID, Event: event}:
	case <-m.done:
	}
}

// Close disconnects every shard and ends the event stream
func (m *ShardManager) Close() error {
	var errs []error
	m.closeOnce.Do(func() {
		close(m.done)

		for i, session := range m.sessions {
			if err := session.Close(); err != nil {
				errs = append(errs, fmt.Errorf("shard %d: %w", i, err))
			}
		}

		m.mu.Lock()
		m.closed = true
		close(m.events)
		m.mu.Unlock()

		logger.WithField("shard_count", len(m.sessions)).Info("shard-manager-closed")
	})

	if len(errs) > 0 {
		return fmt.Errorf("failed to close shards: %w", errors.Join(errs...))
	}
	return nil
}
