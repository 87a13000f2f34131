package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// DataDir returns the path to the Sommelier data directory.
// - Windows: %APPDATA%\sommelier
// - Other OS: ~/.sommelier
func DataDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "sommelier")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".sommelier"
	}
	return filepath.Join(home, ".sommelier")
}

// ConfigPath returns the config file path: $CONFIG_PATH or <DataDir>/config.toml.
func ConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return filepath.Join(DataDir(), "config.toml")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0700)
}
