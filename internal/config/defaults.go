package config

import (
	"os"
	"path/filepath"
)

// DefaultEditor is used when neither the config file nor the
// environment names an editor.
const DefaultEditor = "vim"

// DefaultConfig returns the configuration used when no config file
// exists. The store root defaults to the user config directory
// (e.g. ~/.config/templater).
func DefaultConfig() *Config {
	return &Config{
		StoreDir: defaultStoreDir(),
		Editor:   DefaultEditor,
	}
}

// defaultStoreDir resolves the default template store root. Falls back
// to a path relative to the home directory when the platform config
// directory cannot be determined.
func defaultStoreDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "templater")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "templater-store"
	}
	return filepath.Join(home, ".templater")
}

// DefaultPath returns the default config file location
// (e.g. ~/.config/templater/config.toml).
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "templater", "config.toml")
	}
	return ""
}
