package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileConfig represents the configuration file structure. TOML is the
// default format; files ending in .yaml or .yml are read as YAML.
type FileConfig struct {
	ServerPort    string `toml:"server_port" yaml:"server_port"`
	BasePrompt    string `toml:"base_prompt" yaml:"base_prompt"`
	PromptFile    string `toml:"prompt_file" yaml:"prompt_file"`
	APIKey        string `toml:"api_key" yaml:"api_key"`
	UpstreamURL   string `toml:"upstream_url" yaml:"upstream_url"`
	PinLocale     string `toml:"pin_locale" yaml:"pin_locale"`
	UsageDBPath   string `toml:"usage_db" yaml:"usage_db"`
	RetentionDays *int   `toml:"retention_days" yaml:"retention_days"`
	PruneSchedule string `toml:"prune_schedule" yaml:"prune_schedule"`
	EnableMetrics *bool  `toml:"enable_metrics" yaml:"enable_metrics"`
	LogLevel      string `toml:"log_level" yaml:"log_level"`
	LogFormat     string `toml:"log_format" yaml:"log_format"`
}

// LoadFile loads configuration from the TOML file.
// Returns an empty FileConfig if the file doesn't exist.
func LoadFile() (*FileConfig, error) {
	return LoadFileFrom(ConfigPath())
}

// LoadFileFrom loads configuration from the file at path.
func LoadFileFrom(path string) (*FileConfig, error) {
	cfg := &FileConfig{}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		_, err = toml.Decode(string(data), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// EnsureConfigFile creates a default config file with commented examples if none exists.
func EnsureConfigFile() error {
	path := ConfigPath()

	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := EnsureDataDir(); err != nil {
		return err
	}

	defaultConfig := `# Sommelier proxy configuration
# Environment variables take precedence over values in this file.

# server_port = ":8080"
# upstream_url = "https://api.openai.com/v1/chat/completions"

# Wording of the language and price pins: "en" or "es"
# pin_locale = "en"

# Read the base prompt from a file and reload it when the file changes
# prompt_file = "/etc/sommelier/prompt.txt"

# Keep secrets in the environment (OPENAI_API_KEY, SOMMELIER_PROMPT_RECOMIENDA)
# rather than here when the file is shared.
# api_key = ""
# base_prompt = ""

# SQLite usage log, disabled when empty
# usage_db = "/var/lib/sommelier/usage.db"
# retention_days = 30
# prune_schedule = "0 3 * * *"

# enable_metrics = true
# log_level = "info"
# log_format = "text"
`

	return os.WriteFile(path, []byte(defaultConfig), 0600)
}
