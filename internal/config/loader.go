package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Load builds the effective configuration.
// Hierarchy (lowest to highest precedence):
// 1. Built-in defaults
// 2. System config (/etc/fwminer/config.toml)
// 3. User config (~/.config/fwminer/config.toml)
// 4. Project config (./.fwminer.toml)
// 5. Environment variables (FWMINER_*)
func Load() (*Config, error) {
	cfg := GetDefaultConfig()

	for _, path := range GetConfigPaths() {
		if err := loadConfigFile(cfg, path); err != nil {
			// Only a file that exists but cannot be parsed is fatal.
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
		}
	}

	loadFromEnv(cfg)
	return cfg, nil
}

func loadConfigFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	var fileCfg Config
	if _, err := toml.DecodeFile(path, &fileCfg); err != nil {
		return err
	}

	cfg.Merge(&fileCfg)
	return nil
}

func loadFromEnv(cfg *Config) {
	if env := os.Getenv("FWMINER_FIREWALL_CMD"); env != "" {
		cfg.Binaries.FirewallCmd = env
	}
	if env := os.Getenv("FWMINER_FIREWALL_OFFLINE_CMD"); env != "" {
		cfg.Binaries.FirewallOfflineCmd = env
	}
	if env := os.Getenv("FWMINER_SYSTEMCTL"); env != "" {
		cfg.Binaries.Systemctl = env
	}
	if env := os.Getenv("FWMINER_LOG_PREFIX"); env != "" {
		cfg.Rules.LogPrefix = env
	}
	if env := os.Getenv("FWMINER_COMMAND_TIMEOUT"); env != "" {
		cfg.Rules.CommandTimeout = env
	}
	if env := os.Getenv("FWMINER_LOG_PATH"); env != "" {
		cfg.Mining.LogPath = env
	}
}
