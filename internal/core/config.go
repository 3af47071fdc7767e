// Package core provides the event dispatcher, command handler and
// configuration management for trinitybot.
//
// The core package implements the loop that sits between the shard
// manager and the messaging client. It handles:
//
//   - Configuration loading and validation (YAML file, .env, environment)
//   - Feeding every gateway event to the state cache
//   - Dispatching each event to a handler task on a worker pool
//   - Matching the "!trinity" and "!salvation" triggers and replying
//
// # Configuration
//
// All sections are optional. The token comes from the file or, when the
// file leaves it empty, from the TOKEN environment variable:
//
//	token: ${TOKEN}
//	gateway:
//	  shard_count: 0          # 0 = ask the gateway
//	  identify_interval: 5s
//	  message_content: true
//	cache:
//	  max_messages: 10000     # -1 = unbounded
//	dispatcher:
//	  max_workers: 16
//	  send_timeout: 10s
//	logging:
//	  level: info
//	  file: /var/log/trinitybot/bot.log
package core

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/keepmind9/trinitybot/internal/logger"
	"github.com/keepmind9/trinitybot/pkg/constants"
	"gopkg.in/yaml.v3"
)

// TokenEnvVar is the environment variable holding the bot token
const TokenEnvVar = "TOKEN"

const (
	DefaultLogLevel         = "info"
	DefaultIdentifyInterval = "5s"
	DefaultSendTimeout      = "10s"
)

// ErrMissingToken is returned when no bot token is configured
var ErrMissingToken = errors.New("missing bot token: set " + TokenEnvVar + " or token in the config file")

// LoadConfig loads configuration from file, .env and the environment.
// An empty configPath skips the file and uses defaults.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.WithField("error", err).Debug("dotenv-not-loaded")
	}

	var config Config
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		expandedData, err := expandEnv(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to expand environment variables: %w", err)
		}

		if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if strings.TrimSpace(config.Token) == "" {
		config.Token = os.Getenv(TokenEnvVar)
	}
	config.Token = strings.TrimSpace(config.Token)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// expandEnv replaces ${VAR_NAME} patterns with environment variable values
func expandEnv(input string) (string, error) {
	var missingVars []string

	result := os.Expand(input, func(key string) string {
		if val := os.Getenv(key); val != "" {
			return val
		}
		missingVars = append(missingVars, key)
		return ""
	})

	if len(missingVars) > 0 {
		return "", fmt.Errorf("missing required environment variables: %s",
			strings.Join(missingVars, ", "))
	}

	return result, nil
}

// validateConfig fills defaults and rejects invalid values
func validateConfig(config *Config) error {
	if config.Token == "" {
		return ErrMissingToken
	}

	if config.Gateway.ShardCount < 0 {
		return fmt.Errorf("gateway.shard_count must not be negative (got %d)", config.Gateway.ShardCount)
	}
	if config.Gateway.IdentifyInterval == "" {
		config.Gateway.IdentifyInterval = DefaultIdentifyInterval
	}
	if _, err := parseNonNegativeDuration(config.Gateway.IdentifyInterval); err != nil {
		return fmt.Errorf("invalid gateway.identify_interval: %w", err)
	}
	if config.Gateway.MessageContent == nil {
		enabled := true
		config.Gateway.MessageContent = &enabled
	}

	if config.Cache.MaxMessages == 0 {
		config.Cache.MaxMessages = constants.DefaultCacheMaxMessages
	}
	if config.Cache.MaxMessages < -1 {
		return fmt.Errorf("cache.max_messages must be positive or -1 (got %d)", config.Cache.MaxMessages)
	}

	if config.Dispatcher.MaxWorkers == 0 {
		config.Dispatcher.MaxWorkers = constants.DefaultMaxWorkers
	}
	if config.Dispatcher.MaxWorkers < 0 {
		return fmt.Errorf("dispatcher.max_workers must be positive (got %d)", config.Dispatcher.MaxWorkers)
	}
	if config.Dispatcher.SendTimeout == "" {
		config.Dispatcher.SendTimeout = DefaultSendTimeout
	}
	if d, err := parseNonNegativeDuration(config.Dispatcher.SendTimeout); err != nil {
		return fmt.Errorf("invalid dispatcher.send_timeout: %w", err)
	} else if d == 0 {
		return fmt.Errorf("dispatcher.send_timeout must be greater than zero")
	}

	if config.Logging.Level == "" {
		config.Logging.Level = DefaultLogLevel
	}
	if config.Logging.MaxSize == 0 {
		config.Logging.MaxSize = constants.DefaultLogMaxSize
	}
	if config.Logging.MaxBackups == 0 {
		config.Logging.MaxBackups = constants.DefaultLogMaxBackups
	}
	if config.Logging.MaxAge == 0 {
		config.Logging.MaxAge = constants.DefaultLogMaxAge
	}
	if config.Logging.EnableStdout == nil {
		enabled := true
		config.Logging.EnableStdout = &enabled
	}

	return nil
}

func parseNonNegativeDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must not be negative (got %v)", d)
	}
	return d, nil
}

// IdentifyInterval returns the parsed wait between shard identifies
func (c *Config) IdentifyInterval() time.Duration {
	d, err := time.ParseDuration(c.Gateway.IdentifyInterval)
	if err != nil {
		return constants.DefaultIdentifyInterval
	}
	return d
}

// SendTimeout returns the parsed reply timeout
func (c *Config) SendTimeout() time.Duration {
	d, err := time.ParseDuration(c.Dispatcher.SendTimeout)
	if err != nil || d <= 0 {
		return constants.DefaultSendTimeout
	}
	return d
}

// MessageContentEnabled reports whether the message content intent is requested
func (c *Config) MessageContentEnabled() bool {
	return c.Gateway.MessageContent == nil || *c.Gateway.MessageContent
}

// LoggerConfig converts the logging section for logger.InitLogger
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:        c.Logging.Level,
		File:         c.Logging.File,
		MaxSize:      c.Logging.MaxSize,
		MaxBackups:   c.Logging.MaxBackups,
		MaxAge:       c.Logging.MaxAge,
		Compress:     c.Logging.Compress,
		EnableStdout: c.Logging.EnableStdout == nil || *c.Logging.EnableStdout,
	}
}
