package config

import (
	"os"
	"strconv"
	"strings"
)

// Defaults for values that are not secret.
const (
	DefaultServerPort  = ":8080"
	DefaultUpstreamURL = "https://api.openai.com/v1/chat/completions"
	DefaultModel       = "gpt-4o-mini"
	DefaultBasePrompt  = "System prompt not set."
	DefaultPinLocale   = "en"

	DefaultRetentionDays = 30
	DefaultPruneSchedule = "0 3 * * *"
)

// Config holds application configuration loaded from environment and file.
// Priority: Env vars → config.toml → defaults
type Config struct {
	// ServerPort is the address to bind the server to (e.g., ":8080")
	ServerPort string

	// BasePrompt is the proprietary system prompt sent first on every request
	BasePrompt string

	// PromptFile, when set, supplies the base prompt and is watched for changes
	PromptFile string

	// APIKey is the upstream credential
	APIKey string

	// UpstreamURL is the chat-completion endpoint
	UpstreamURL string

	// Model is the upstream model identifier
	Model string

	// PinLocale selects the wording of language and price pins ("en" or "es")
	PinLocale string

	// UsageDBPath enables the SQLite usage log when non-empty
	UsageDBPath string

	// RetentionDays prunes request logs older than this at startup; 0 keeps all
	RetentionDays int

	// PruneSchedule is the cron expression for periodic pruning
	PruneSchedule string

	// EnableMetrics exposes Prometheus metrics at /metrics
	EnableMetrics bool

	// LogLevel is one of debug, info, warn, error
	LogLevel string

	// LogFormat is "text" or "json"
	LogFormat string
}

// Load reads configuration from file and environment variables.
// Environment variables override file config values.
func Load() *Config {
	fileConfig, err := LoadFile()
	if err != nil {
		fileConfig = &FileConfig{}
	}

	return &Config{
		ServerPort:    getEnvOrFile("SERVER_PORT", fileConfig.ServerPort, DefaultServerPort),
		BasePrompt:    getEnvOrFile("SOMMELIER_PROMPT_RECOMIENDA", fileConfig.BasePrompt, DefaultBasePrompt),
		PromptFile:    getEnvOrFile("SOMMELIER_PROMPT_FILE", fileConfig.PromptFile, ""),
		APIKey:        getEnvOrFile("OPENAI_API_KEY", fileConfig.APIKey, ""),
		UpstreamURL:   getEnvOrFile("UPSTREAM_URL", fileConfig.UpstreamURL, DefaultUpstreamURL),
		Model:         DefaultModel,
		PinLocale:     getEnvOrFile("PIN_LOCALE", fileConfig.PinLocale, DefaultPinLocale),
		UsageDBPath:   getEnvOrFile("USAGE_DB_PATH", fileConfig.UsageDBPath, ""),
		RetentionDays: getEnvIntOrFile("LOG_RETENTION_DAYS", fileConfig.RetentionDays, DefaultRetentionDays),
		PruneSchedule: getEnvOrFile("PRUNE_SCHEDULE", fileConfig.PruneSchedule, DefaultPruneSchedule),
		EnableMetrics: getEnvBoolOrFile("ENABLE_METRICS", fileConfig.EnableMetrics, true),
		LogLevel:      getEnvOrFile("LOG_LEVEL", fileConfig.LogLevel, "info"),
		LogFormat:     getEnvOrFile("LOG_FORMAT", fileConfig.LogFormat, "text"),
	}
}

// HasAPIKey reports whether an upstream credential is configured.
func (c *Config) HasAPIKey() bool {
	return c.APIKey != ""
}

// MaskKey returns a masked version of an API key for logging.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// getEnvOrFile returns env value, file value, or default (in priority order)
func getEnvOrFile(key, fileValue, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// getEnvBoolOrFile returns env bool, file bool, or default (in priority order)
func getEnvBoolOrFile(key string, fileValue *bool, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		value = strings.ToLower(value)
		return value == "true" || value == "1" || value == "yes"
	}
	if fileValue != nil {
		return *fileValue
	}
	return defaultValue
}

// getEnvIntOrFile returns env int, file int, or default (in priority order).
// Unparseable or negative env values fall through.
func getEnvIntOrFile(key string, fileValue *int, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n >= 0 {
			return n
		}
	}
	if fileValue != nil && *fileValue >= 0 {
		return *fileValue
	}
	return defaultValue
}
