package core

// Config represents the complete trinitybot configuration structure
type Config struct {
	Token      string           `yaml:"token"`
	Gateway    GatewayConfig    `yaml:"gateway"`
	Cache      CacheConfig      `yaml:"cache"`
	Dispatcher DispatcherConfig `yaml:"dispatcher"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GatewayConfig represents shard and intent configuration
type GatewayConfig struct {
	ShardCount       int    `yaml:"shard_count"`       // 0 asks the gateway for its recommendation
	IdentifyInterval string `yaml:"identify_interval"` // Wait between shard identifies (default: 5s)
	MessageContent   *bool  `yaml:"message_content"`   // Request the privileged message content intent (default: true)
}

// CacheConfig represents state cache configuration
type CacheConfig struct {
	MaxMessages int `yaml:"max_messages"` // Messages kept before FIFO eviction, -1 for unbounded (default: 10000)
}

// DispatcherConfig represents event handler pool configuration
type DispatcherConfig struct {
	MaxWorkers  int    `yaml:"max_workers"`  // Concurrent handler tasks (default: 16)
	SendTimeout string `yaml:"send_timeout"` // Reply round-trip timeout (default: 10s)
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	File         string `yaml:"file"`          // Log file path
	MaxSize      int    `yaml:"max_size"`      // Single file max size in MB (default: 100)
	MaxBackups   int    `yaml:"max_backups"`   // Number of backups to keep (default: 5)
	MaxAge       int    `yaml:"max_age"`       // Maximum days to retain (default: 30)
	Compress     bool   `yaml:"compress"`      // Whether to compress old logs
	EnableStdout *bool  `yaml:"enable_stdout"` // Also output to stdout (default: true)
}
