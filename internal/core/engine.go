package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/keepmind9/trinitybot/internal/bot"
	"github.com/keepmind9/trinitybot/internal/cache"
	"github.com/keepmind9/trinitybot/internal/logger"
	"github.com/keepmind9/trinitybot/pkg/constants"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// Bot is the context every handler task shares. It is immutable after
// NewBot returns and is passed around by pointer.
type Bot struct {
	cache     *cache.Cache
	messenger Messenger
}

// NewBot bundles the state cache and the messaging client
func NewBot(c *cache.Cache, messenger Messenger) *Bot {
	return &Bot{cache: c, messenger: messenger}
}

// Cache returns the shared state cache
func (b *Bot) Cache() *cache.Cache {
	return b.cache
}

// Messenger returns the shared messaging client
func (b *Bot) Messenger() Messenger {
	return b.messenger
}

// handlerFunc matches HandleEvent
type handlerFunc func(ctx context.Context, shardID int, event interface{}, messenger Messenger) error

// Engine is the event dispatcher: it feeds each event to the cache, then
// hands it to a handler task without waiting for the result.
type Engine struct {
	config      *Config
	bot         *Bot
	pool        *workerpool.WorkerPool
	handle      handlerFunc
	sendTimeout time.Duration
	ctx         context.Context    // Parent of every handler task context
	cancel      context.CancelFunc // Cancels in-flight handler tasks
	stopOnce    sync.Once
}

// NewEngine creates a new Engine instance
func NewEngine(config *Config, b *Bot) *Engine {
	ctx, cancel := context.WithCancel(context.Background())

	workers := config.Dispatcher.MaxWorkers
	if workers <= 0 {
		workers = constants.DefaultMaxWorkers
	}

	return &Engine{
		config:      config,
		bot:         b,
		pool:        workerpool.New(workers),
		handle:      HandleEvent,
		sendTimeout: config.SendTimeout(),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Run receives events until the stream ends or ctx is done. Cache updates
// happen in arrival order on this goroutine; handler tasks are submitted
// in arrival order but may finish in any order. Queued tasks are drained
// before Run returns.
func (e *Engine) Run(ctx context.Context, events <-chan bot.ShardEvent) error {
	logger.WithField("max_workers", e.pool.Size()).Info("engine-event-loop-started")
	defer func() {
		// Let queued handler tasks finish
		e.pool.StopWait()
		logger.Debug("handler-pool-drained")
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info("event-loop-shutting-down")
			return nil
		case ev, ok := <-events:
			if !ok {
				logger.Info("event-stream-ended")
				return nil
			}
			e.dispatch(ev)
		}
	}
}

// dispatch updates the cache and spawns the handler for one event
func (e *Engine) dispatch(ev bot.ShardEvent) {
	dispatchID := ulid.Make().String()

	// Cache first so the handler sees its own event
	e.bot.cache.Update(ev.Event)

	// Fire and forget
	e.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				logger.WithFields(logrus.Fields{
					"dispatch_id": dispatchID,
					"shard_id":    ev.ShardID,
					"panic":       r,
				}).Error("event-handler-panic-recovered")
			}
		}()

		// Bound the reply round-trip
		ctx, cancel := context.WithTimeout(e.ctx, e.sendTimeout)
		defer cancel()

		if err := e.handle(ctx, ev.ShardID, ev.Event, e.bot.messenger); err != nil {
			logger.WithFields(logrus.Fields{
				"dispatch_id": dispatchID,
				"shard_id":    ev.ShardID,
				"event_type":  fmt.Sprintf("%T", ev.Event),
				"error":       err,
			}).Error("event-handler-failed")
		}
	})
}

// Stop cancels in-flight handler tasks. Run still returns only when its
// stream ends or its context is done.
func (e *Engine) Stop() error {
	e.stopOnce.Do(func() {
		logger.Info("stopping-engine")
		e.cancel()
	})
	return nil
}
