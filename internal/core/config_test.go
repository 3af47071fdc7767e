package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_ValidConfig_ReturnsConfigStruct(t *testing.T) {
	t.Setenv(TokenEnvVar, "")
	path := writeConfig(t, `
token: "file-token-12345"
gateway:
  shard_count: 2
  identify_interval: 1s
  message_content: false
cache:
  max_messages: 50
dispatcher:
  max_workers: 4
  send_timeout: 3s
logging:
  level: debug
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "file-token-12345", config.Token)
	assert.Equal(t, 2, config.Gateway.ShardCount)
	assert.Equal(t, time.Second, config.IdentifyInterval())
	assert.False(t, config.MessageContentEnabled())
	assert.Equal(t, 50, config.Cache.MaxMessages)
	assert.Equal(t, 4, config.Dispatcher.MaxWorkers)
	assert.Equal(t, 3*time.Second, config.SendTimeout())
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadConfig_EnvExpansion_ExpandsVariables(t *testing.T) {
	t.Setenv("TRINITY_TEST_TOKEN", "expanded-token-123")
	path := writeConfig(t, `token: "${TRINITY_TEST_TOKEN}"`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "expanded-token-123", config.Token)
}

func TestLoadConfig_MissingEnvVar_ReturnsError(t *testing.T) {
	path := writeConfig(t, `token: "${TRINITY_TEST_UNSET_VAR}"`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRINITY_TEST_UNSET_VAR")
}

func TestLoadConfig_NoFile_UsesTokenFromEnvironment(t *testing.T) {
	t.Setenv(TokenEnvVar, "  env-token-98765  ")

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "env-token-98765", config.Token)
}

func TestLoadConfig_NoToken_ReturnsMissingTokenError(t *testing.T) {
	t.Setenv(TokenEnvVar, "")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingToken))
}

func TestLoadConfig_FileWithoutToken_FallsBackToEnvironment(t *testing.T) {
	t.Setenv(TokenEnvVar, "env-token-55555")
	path := writeConfig(t, "logging:\n  level: warn\n")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token-55555", config.Token)
	assert.Equal(t, "warn", config.Logging.Level)
}

func TestLoadConfig_MissingFile_ReturnsError(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_InvalidYAML_ReturnsError(t *testing.T) {
	path := writeConfig(t, "token: [unterminated")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestValidateConfig_AppliesDefaults(t *testing.T) {
	config := &Config{Token: "token-1234567890"}
	require.NoError(t, validateConfig(config))

	assert.Equal(t, 0, config.Gateway.ShardCount)
	assert.Equal(t, DefaultIdentifyInterval, config.Gateway.IdentifyInterval)
	assert.True(t, config.MessageContentEnabled())
	assert.Equal(t, 10000, config.Cache.MaxMessages)
	assert.Equal(t, 16, config.Dispatcher.MaxWorkers)
	assert.Equal(t, 10*time.Second, config.SendTimeout())
	assert.Equal(t, DefaultLogLevel, config.Logging.Level)
	assert.Equal(t, 100, config.Logging.MaxSize)
	assert.Equal(t, 5, config.Logging.MaxBackups)
	assert.Equal(t, 30, config.Logging.MaxAge)
	assert.True(t, config.LoggerConfig().EnableStdout)
}

func TestValidateConfig_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"negative shard count", func(c *Config) { c.Gateway.ShardCount = -1 }, "shard_count"},
		{"bad identify interval", func(c *Config) { c.Gateway.IdentifyInterval = "soon" }, "identify_interval"},
		{"negative identify interval", func(c *Config) { c.Gateway.IdentifyInterval = "-1s" }, "identify_interval"},
		{"bad cache bound", func(c *Config) { c.Cache.MaxMessages = -2 }, "max_messages"},
		{"negative workers", func(c *Config) { c.Dispatcher.MaxWorkers = -3 }, "max_workers"},
		{"bad send timeout", func(c *Config) { c.Dispatcher.SendTimeout = "later" }, "send_timeout"},
		{"zero send timeout", func(c *Config) { c.Dispatcher.SendTimeout = "0s" }, "send_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{Token: "token-1234567890"}
			tt.mutate(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateConfig_UnboundedCacheAllowed(t *testing.T) {
	config := &Config{Token: "token-1234567890", Cache: CacheConfig{MaxMessages: -1}}
	require.NoError(t, validateConfig(config))
	assert.Equal(t, -1, config.Cache.MaxMessages)
}

func TestConfig_LoggerConfig_RespectsStdoutFlag(t *testing.T) {
	disabled := false
	config := &Config{Logging: LoggingConfig{Level: "error", File: "/tmp/x.log", EnableStdout: &disabled}}

	lc := config.LoggerConfig()
	assert.Equal(t, "error", lc.Level)
	assert.Equal(t, "/tmp/x.log", lc.File)
	assert.False(t, lc.EnableStdout)
}
