package constants

import "time"

// Gateway settings
const (
	// EventChannelBufferSize is the buffer size of the merged shard event stream
	EventChannelBufferSize = 100
	// DefaultIdentifyInterval is the wait between identifying consecutive shards.
	// Discord allows one identify per 5 seconds per max_concurrency bucket.
	DefaultIdentifyInterval = 5 * time.Second
	// DefaultShardCount of zero asks the gateway for its recommendation
	DefaultShardCount = 0
)

// Discord embed limits
const (
	// MaxEmbedTitleLength is Discord's embed title character limit
	MaxEmbedTitleLength = 256
	// MaxEmbedDescriptionLength is Discord's embed description character limit
	MaxEmbedDescriptionLength = 4096
	// MaxEmbedAuthorNameLength is Discord's embed author name character limit
	MaxEmbedAuthorNameLength = 256
	// MaxEmbedFooterTextLength is Discord's embed footer text character limit
	MaxEmbedFooterTextLength = 2048
	// MaxEmbedTotalLength is the combined character limit of all embed text
	MaxEmbedTotalLength = 6000
	// MaxEmbedColor is the largest valid RGB color value
	MaxEmbedColor = 0xFFFFFF
)

// Dispatcher settings
const (
	// DefaultMaxWorkers is the number of concurrent handler tasks
	DefaultMaxWorkers = 16
	// DefaultSendTimeout bounds a single reply round-trip
	DefaultSendTimeout = 10 * time.Second
)

// Cache settings
const (
	// DefaultCacheMaxMessages is the number of messages retained before eviction
	DefaultCacheMaxMessages = 10000
)

// Logging defaults
const (
	// DefaultLogMaxSize is the default maximum log file size in MB
	DefaultLogMaxSize = 100
	// DefaultLogMaxBackups is the default number of rotated log files to keep
	DefaultLogMaxBackups = 5
	// DefaultLogMaxAge is the default maximum number of days to retain old logs
	DefaultLogMaxAge = 30
)
