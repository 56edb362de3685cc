package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/kballard/go-shellquote"
)

// Environment variables recognized at startup. They take precedence
// over the config file.
const (
	// EnvStoreDir overrides the template store root.
	EnvStoreDir = "TEMPLATER_HOME"
	// EnvEditor overrides the editor command.
	EnvEditor = "TEMPLATER_EDITOR"
)

// Load loads configuration from a TOML file at path.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, newConfigError(ConfigNotFound, path, "configuration file not found", err)
		}
		return nil, newConfigError(ConfigInvalid, path, "invalid TOML syntax", err)
	}

	if keys := meta.Undecoded(); len(keys) > 0 {
		return nil, newConfigError(ConfigInvalid, path,
			"unknown configuration key: "+keys[0].String(), nil)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads the config file at path, or returns defaults if
// it does not exist. An empty path means the platform default location.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return applyEnv(DefaultConfig()), nil
	}

	cfg, err := Load(path)
	if err != nil {
		if cfgErr, ok := err.(*ConfigError); ok && cfgErr.Type == ConfigNotFound {
			return applyEnv(DefaultConfig()), nil
		}
		return nil, err
	}
	return applyEnv(cfg), nil
}

// applyEnv overlays environment overrides onto cfg. The editor falls
// back to $EDITOR when no templater-specific override is set and the
// config file did not name one.
func applyEnv(cfg *Config) *Config {
	if dir := os.Getenv(EnvStoreDir); dir != "" {
		cfg.StoreDir = dir
	}
	if editor := os.Getenv(EnvEditor); editor != "" {
		cfg.Editor = editor
	} else if cfg.Editor == DefaultEditor {
		if editor := os.Getenv("EDITOR"); editor != "" {
			cfg.Editor = editor
		}
	}
	return cfg
}

// Validate validates the configuration.
func Validate(cfg *Config) error {
	if cfg.StoreDir == "" {
		return newConfigError(ConfigValidationFailed, "", "store_dir cannot be empty", nil)
	}
	// The editor command is split at invocation time; reject broken
	// quoting up front instead of at the first edit.
	if _, err := shellquote.Split(cfg.Editor); err != nil {
		return newConfigError(ConfigValidationFailed, "", "editor command has invalid quoting", err)
	}
	return nil
}
