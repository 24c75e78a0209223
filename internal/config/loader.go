package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Where a configuration was loaded from.
const (
	SourceCustom   = "custom"
	SourceUser     = "user"
	SourceLocal    = "local"
	SourceEmbedded = "embedded"
	SourceDefault  = "default"
)

// userConfigRel is the config file relative to the XDG config directories.
var userConfigRel = filepath.Join("chainreaction", "config.yaml")

// localConfigPath is checked relative to the working directory.
var localConfigPath = filepath.Join("configs", "chainreaction.yaml")

// Load loads the configuration.
// Search order: customPath -> $XDG_CONFIG_HOME/chainreaction/config.yaml ->
// ./configs/chainreaction.yaml -> embedded default -> Default().
// Files are applied over Default(), so they only need the keys they change.
func Load(customPath string) (Config, error) {
	cfg, _, err := LoadWithSource(customPath)
	return cfg, err
}

// LoadWithSource is Load that also reports which source was used.
func LoadWithSource(customPath string) (Config, string, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, "", fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return Config{}, "", fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return finish(cfg, SourceCustom)
	}

	// Try user config directory
	if userCfgPath := userConfigPath(); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return finish(cfg, SourceUser)
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(localConfigPath); err == nil {
		if cfg, err := parse(data); err == nil {
			return finish(cfg, SourceLocal)
		}
	}

	// Use embedded default YAML
	if cfg, err := parse(defaultYAML); err == nil {
		return finish(cfg, SourceEmbedded)
	}
	return finish(Default(), SourceDefault) // Fallback to hardcoded if embed fails
}

func parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func finish(cfg Config, source string) (Config, string, error) {
	if !IsFixedPreset(cfg.AI.Difficulty) {
		ApplyPreset(&cfg, cfg.AI.Difficulty)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, source, err
	}
	return cfg, source, nil
}

// userConfigPath returns the existing user config file, or empty if there is none.
func userConfigPath() string {
	path, err := xdg.SearchConfigFile(userConfigRel)
	if err != nil {
		return ""
	}
	return path
}

// UserConfigPath returns where the user config file lives, creating its
// parent directory.
func UserConfigPath() (string, error) {
	path, err := xdg.ConfigFile(userConfigRel)
	if err != nil {
		return "", fmt.Errorf("config: %w", err)
	}
	return path, nil
}

// WriteDefault writes the embedded default configuration to path unless a
// file already exists there.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: cannot create directory: %w", err)
	}
	if err := os.WriteFile(path, defaultYAML, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
