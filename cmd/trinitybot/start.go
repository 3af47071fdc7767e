package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/keepmind9/trinitybot/internal/bot"
	"github.com/keepmind9/trinitybot/internal/cache"
	"github.com/keepmind9/trinitybot/internal/core"
	"github.com/keepmind9/trinitybot/internal/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configFile string

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the bot",
		Long: `Connect every shard to the Discord gateway and dispatch events until
interrupted. Any startup failure (missing token, identity fetch, shard
setup) exits with a non-zero status before the event loop starts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd.Context(), configFile)
		},
	}
)

func runStart(ctx context.Context, configPath string) error {
	// Load configuration
	config, err := core.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	if err := logger.InitLogger(config.LoggerConfig()); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"config_file": configPath,
		"log_level":   config.Logging.Level,
		"log_file":    config.Logging.File,
	}).Info("logger-initialized")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Create the REST client and fail fast on a bad token
	client, err := bot.NewClient(config.Token)
	if err != nil {
		return err
	}

	me, err := client.Identity(ctx)
	if err != nil {
		return err
	}

	// Resolve shard topology and build the shard manager
	shardCount, err := bot.ResolveShardCount(ctx, client, config.Gateway.ShardCount)
	if err != nil {
		return err
	}

	manager, err := bot.NewShardManager(config.Token, bot.ShardConfig{
		Count:            shardCount,
		Intents:          bot.Intents(config.MessageContentEnabled()),
		IdentifyInterval: config.IdentifyInterval(),
	})
	if err != nil {
		return fmt.Errorf("failed to build shard manager: %w", err)
	}

	// Create engine
	stateCache := cache.New(cache.Config{
		Resources:   cache.ResourceMessage,
		MaxMessages: config.Cache.MaxMessages,
	})
	engine := core.NewEngine(config, core.NewBot(stateCache, client))

	logger.WithFields(logrus.Fields{
		"user_id":     me.ID,
		"username":    me.Username,
		"shard_count": shardCount,
	}).Info("trinitybot-starting")

	// Connect shards in the background
	manager.Up(ctx)

	// Setup signal handling

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	// Start the event loop
	engineErrChan := make(chan error, 1)
	go func() {
		engineErrChan <- engine.Run(ctx, manager.Events())
	}()

	select {
	case sig := <-sigChan:
		logger.WithField("signal", sig.String()).Info("received-signal-shutting-down")
		if err := manager.Close(); err != nil {
			logger.WithError(err).Warn("error-during-shutdown")
		}
		if err := engine.Stop(); err != nil {
			logger.WithError(err).Warn("error-during-shutdown")
		}
		return <-engineErrChan
	case err := <-engineErrChan:
		logger.Warn("event-loop-exited-without-signal")
		if closeErr := manager.Close(); closeErr != nil {
			logger.WithError(closeErr).Warn("error-during-shutdown")
		}
		return err
	}
}

func init() {
	startCmd.Flags().StringVarP(&configFile, "config", "c", "", "Configuration file path (optional)")
}
