package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds all fwminer configuration.
type Config struct {
	Binaries BinariesConfig `toml:"binaries"`
	Rules    RulesConfig    `toml:"rules"`
	Mining   MiningConfig   `toml:"mining"`
}

// BinariesConfig makes every external collaborator path explicit
// instead of hard-coding absolute paths. Bare names resolve through
// PATH.
type BinariesConfig struct {
	FirewallCmd        string `toml:"firewall_cmd"`
	FirewallOfflineCmd string `toml:"firewall_offline_cmd"`
	Systemctl          string `toml:"systemctl"`
}

type RulesConfig struct {
	// LogPrefix tags the catch-all diagnostic logging rules so they
	// can be found and removed again.
	LogPrefix string `toml:"log_prefix"`
	// CommandTimeout bounds each external invocation, e.g. "10s".
	CommandTimeout string `toml:"command_timeout"`
}

type MiningConfig struct {
	// LogPath is the default kernel log file to mine.
	LogPath string `toml:"log_path"`
}

// GetDefaultConfig returns the built-in defaults.
func GetDefaultConfig() *Config {
	return &Config{
		Binaries: BinariesConfig{
			FirewallCmd:        "firewall-cmd",
			FirewallOfflineCmd: "firewall-offline-cmd",
			Systemctl:          "systemctl",
		},
		Rules: RulesConfig{
			LogPrefix:      "POSHfirewalld_",
			CommandTimeout: "10s",
		},
		Mining: MiningConfig{
			LogPath: "/var/log/messages",
		},
	}
}

// Merge overlays non-empty fields from other onto c.
func (c *Config) Merge(other *Config) {
	if other.Binaries.FirewallCmd != "" {
		c.Binaries.FirewallCmd = other.Binaries.FirewallCmd
	}
	if other.Binaries.FirewallOfflineCmd != "" {
		c.Binaries.FirewallOfflineCmd = other.Binaries.FirewallOfflineCmd
	}
	if other.Binaries.Systemctl != "" {
		c.Binaries.Systemctl = other.Binaries.Systemctl
	}
	if other.Rules.LogPrefix != "" {
		c.Rules.LogPrefix = other.Rules.LogPrefix
	}
	if other.Rules.CommandTimeout != "" {
		c.Rules.CommandTimeout = other.Rules.CommandTimeout
	}
	if other.Mining.LogPath != "" {
		c.Mining.LogPath = other.Mining.LogPath
	}
}

// CommandTimeout parses the configured timeout, falling back to 10s
// on an empty or unparsable value.
func (c *Config) CommandTimeout() time.Duration {
	d, err := time.ParseDuration(c.Rules.CommandTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// GetConfigPaths returns config file locations in ascending
// precedence order.
func GetConfigPaths() []string {
	paths := []string{"/etc/fwminer/config.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "fwminer", "config.toml"))
	}
	paths = append(paths, ".fwminer.toml")
	return paths
}
