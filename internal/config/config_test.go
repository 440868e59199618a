package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()
	if cfg.Binaries.FirewallCmd != "firewall-cmd" {
		t.Errorf("expected firewall-cmd default, got %s", cfg.Binaries.FirewallCmd)
	}
	if cfg.Binaries.FirewallOfflineCmd != "firewall-offline-cmd" {
		t.Errorf("expected firewall-offline-cmd default, got %s", cfg.Binaries.FirewallOfflineCmd)
	}
	if cfg.Binaries.Systemctl != "systemctl" {
		t.Errorf("expected systemctl default, got %s", cfg.Binaries.Systemctl)
	}
	if cfg.Rules.LogPrefix != "POSHfirewalld_" {
		t.Errorf("expected POSHfirewalld_ prefix, got %s", cfg.Rules.LogPrefix)
	}
	if cfg.Mining.LogPath == "" {
		t.Error("expected a default mining log path")
	}
}

func TestMergeOverlaysOnlyNonEmptyFields(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Merge(&Config{
		Binaries: BinariesConfig{Systemctl: "/usr/bin/systemctl"},
		Rules:    RulesConfig{LogPrefix: "AUDIT_"},
	})

	if cfg.Binaries.Systemctl != "/usr/bin/systemctl" {
		t.Errorf("expected merged systemctl path, got %s", cfg.Binaries.Systemctl)
	}
	if cfg.Rules.LogPrefix != "AUDIT_" {
		t.Errorf("expected merged prefix, got %s", cfg.Rules.LogPrefix)
	}
	// Untouched fields keep their defaults.
	if cfg.Binaries.FirewallCmd != "firewall-cmd" {
		t.Errorf("expected firewall-cmd to stay default, got %s", cfg.Binaries.FirewallCmd)
	}
}

func TestCommandTimeoutParsing(t *testing.T) {
	cfg := GetDefaultConfig()
	if cfg.CommandTimeout() != 10*time.Second {
		t.Errorf("expected 10s default timeout, got %v", cfg.CommandTimeout())
	}

	cfg.Rules.CommandTimeout = "30s"
	if cfg.CommandTimeout() != 30*time.Second {
		t.Errorf("expected 30s, got %v", cfg.CommandTimeout())
	}

	cfg.Rules.CommandTimeout = "not-a-duration"
	if cfg.CommandTimeout() != 10*time.Second {
		t.Errorf("expected fallback to 10s on unparsable value, got %v", cfg.CommandTimeout())
	}

	cfg.Rules.CommandTimeout = "-5s"
	if cfg.CommandTimeout() != 10*time.Second {
		t.Errorf("expected fallback to 10s on negative value, got %v", cfg.CommandTimeout())
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")
	content := `
[binaries]
firewall_cmd = "/opt/firewalld/bin/firewall-cmd"

[rules]
log_prefix = "TRACE_"
command_timeout = "5s"

[mining]
log_path = "/var/log/kern.log"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg := GetDefaultConfig()
	if err := loadConfigFile(cfg, path); err != nil {
		t.Fatalf("expected config file to load, got %v", err)
	}
	if cfg.Binaries.FirewallCmd != "/opt/firewalld/bin/firewall-cmd" {
		t.Errorf("expected overridden firewall_cmd, got %s", cfg.Binaries.FirewallCmd)
	}
	if cfg.Rules.LogPrefix != "TRACE_" {
		t.Errorf("expected overridden prefix, got %s", cfg.Rules.LogPrefix)
	}
	if cfg.CommandTimeout() != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.CommandTimeout())
	}
	if cfg.Mining.LogPath != "/var/log/kern.log" {
		t.Errorf("expected overridden log path, got %s", cfg.Mining.LogPath)
	}
}

func TestLoadConfigFileMissingIsNotFatal(t *testing.T) {
	cfg := GetDefaultConfig()
	err := loadConfigFile(cfg, filepath.Join(t.TempDir(), "missing.toml"))
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadConfigFileRejectsBadTOML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "broken.toml")
	if err := os.WriteFile(path, []byte("[binaries\nfirewall_cmd = "), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg := GetDefaultConfig()
	if err := loadConfigFile(cfg, path); err == nil {
		t.Fatal("expected parse error for broken TOML")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FWMINER_SYSTEMCTL", "/bin/systemctl")
	t.Setenv("FWMINER_LOG_PREFIX", "ENVPFX_")
	t.Setenv("FWMINER_LOG_PATH", "/tmp/kern.log")

	cfg := GetDefaultConfig()
	loadFromEnv(cfg)

	if cfg.Binaries.Systemctl != "/bin/systemctl" {
		t.Errorf("expected env systemctl override, got %s", cfg.Binaries.Systemctl)
	}
	if cfg.Rules.LogPrefix != "ENVPFX_" {
		t.Errorf("expected env prefix override, got %s", cfg.Rules.LogPrefix)
	}
	if cfg.Mining.LogPath != "/tmp/kern.log" {
		t.Errorf("expected env log path override, got %s", cfg.Mining.LogPath)
	}
}
