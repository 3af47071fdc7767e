package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/keepmind9/trinitybot/internal/core"
	"github.com/keepmind9/trinitybot/pkg/constants"
	"github.com/spf13/cobra"
)

var (
	validateConfigFile string
	validateJSON       bool
)

// ValidationResult represents the validation result
type ValidationResult struct {
	Valid          bool     `json:"valid"`
	Config         string   `json:"config"`
	TokenSet       bool     `json:"token_set"`
	ShardCount     string   `json:"shard_count,omitempty"`
	MessageContent bool     `json:"message_content"`
	CacheMax       int      `json:"cache_max_messages"`
	MaxWorkers     int      `json:"max_workers"`
	Errors         []string `json:"errors,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate trinitybot configuration",
	Long: `Validate the configuration without connecting to Discord.

This command checks:
  - YAML syntax and ${VAR} expansion
  - Token presence (config file or TOKEN)
  - Gateway, cache and dispatcher settings

Exit codes:
  0 - Configuration is valid
  1 - Configuration has errors`,
	RunE: func(cmd *cobra.Command, args []string) error {
		result := validate(validateConfigFile)
		outputValidationResult(cmd.OutOrStdout(), result, validateJSON)
		if !result.Valid {
			return fmt.Errorf("configuration is invalid")
		}
		return nil
	},
}

func validate(configPath string) ValidationResult {
	name := configPath
	if name == "" {
		name = "(environment)"
	}

	cfg, err := core.LoadConfig(configPath)
	if err != nil {
		return ValidationResult{
			Valid:  false,
			Config: name,
			Errors: []string{err.Error()},
		}
	}

	result := ValidationResult{
		Valid:          true,
		Config:         name,
		TokenSet:       cfg.Token != "",
		ShardCount:     "auto",
		MessageContent: cfg.MessageContentEnabled(),
		CacheMax:       cfg.Cache.MaxMessages,
		MaxWorkers:     cfg.Dispatcher.MaxWorkers,
	}
	if cfg.Gateway.ShardCount != constants.DefaultShardCount {
		result.ShardCount = fmt.Sprintf("%d", cfg.Gateway.ShardCount)
	}
	result.Warnings = validateConfigDetails(cfg)

	return result
}

func validateConfigDetails(cfg *core.Config) []string {
	var warnings []string

	if !cfg.MessageContentEnabled() {
		warnings = append(warnings, "message_content is disabled - guild message content will be empty and triggers will not match")
	}
	if cfg.Cache.MaxMessages < 0 {
		warnings = append(warnings, "cache.max_messages is unbounded - memory grows for the life of the process")
	}
	if cfg.IdentifyInterval() < constants.DefaultIdentifyInterval && cfg.Gateway.ShardCount != 1 {
		warnings = append(warnings, "gateway.identify_interval below 5s may hit Discord's identify rate limit")
	}

	return warnings
}

func outputValidationResult(out io.Writer, result ValidationResult, jsonFormat bool) {
	if jsonFormat {
		output, err := json.Marshal(result)
		if err != nil {
			fmt.Fprintf(out, "{\"error\": \"failed to marshal json: %v\"}\n", err)
			return
		}
		fmt.Fprintln(out, string(output))
		return
	}

	if !result.Valid {
		fmt.Fprintln(out, "❌ Configuration validation failed:")
		for _, errMsg := range result.Errors {
			fmt.Fprintf(out, "  - %s\n", errMsg)
		}
		return
	}

	fmt.Fprintln(out, "✓ Configuration is valid")
	fmt.Fprintf(out, "  - Config: %s\n", result.Config)
	fmt.Fprintf(out, "  - Shards: %s\n", result.ShardCount)
	fmt.Fprintf(out, "  - Message content intent: %v\n", result.MessageContent)
	fmt.Fprintf(out, "  - Cache max messages: %d\n", result.CacheMax)
	fmt.Fprintf(out, "  - Handler workers: %d\n", result.MaxWorkers)
	if len(result.Warnings) > 0 {
		fmt.Fprintln(out, "\n⚠️  Warnings:")
		for _, warning := range result.Warnings {
			fmt.Fprintf(out, "  - %s\n", warning)
		}
	}
}

func init() {
	validateCmd.Flags().StringVarP(&validateConfigFile, "config", "c", "", "Configuration file path (optional)")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output in JSON format")
}
