package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// writeConfig writes a config file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfigFromPath_Defaults(t *testing.T) {
	viper.Reset()
	path := writeConfig(t, "")

	cfg, err := LoadConfigFromPath(path)
	if err != nil {
		t.Fatalf("LoadConfigFromPath failed: %v", err)
	}

	if cfg.Jolokia.Host != "localhost" {
		t.Errorf("Expected default host localhost, got %q", cfg.Jolokia.Host)
	}
	if cfg.Jolokia.Port != 8778 {
		t.Errorf("Expected default port 8778, got %d", cfg.Jolokia.Port)
	}
	if cfg.Jolokia.Context != "jolokia" {
		t.Errorf("Expected default context jolokia, got %q", cfg.Jolokia.Context)
	}
	if cfg.Jolokia.Timeout != 10*time.Second {
		t.Errorf("Expected default timeout 10s, got %v", cfg.Jolokia.Timeout)
	}
	if cfg.Watch.Interval != 30*time.Second {
		t.Errorf("Expected default watch interval 30s, got %v", cfg.Watch.Interval)
	}
	if cfg.Watch.WebhookURL != "" {
		t.Errorf("Expected empty default webhook URL, got %q", cfg.Watch.WebhookURL)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected default log level info, got %q", cfg.Log.Level)
	}
	if cfg.Explanations.Warning != "" || cfg.Explanations.Critical != "" {
		t.Errorf("Expected empty default explanations, got %q / %q",
			cfg.Explanations.Warning, cfg.Explanations.Critical)
	}
}

func TestLoadConfigFromPath_Overrides(t *testing.T) {
	viper.Reset()
	path := writeConfig(t, `
jolokia:
  host: jmx.example.com
  port: 7777
  context: hawtio/jolokia
  timeout: 30s
explanations:
  warning: "Page the on-call team."
  critical: "Wake everyone up."
watch:
  interval: 5s
  webhook_url: http://alerts.example.com/hook
log:
  level: debug
  file: /tmp/beancheck.log
`)

	cfg, err := LoadConfigFromPath(path)
	if err != nil {
		t.Fatalf("LoadConfigFromPath failed: %v", err)
	}

	if cfg.Jolokia.Host != "jmx.example.com" {
		t.Errorf("Expected host jmx.example.com, got %q", cfg.Jolokia.Host)
	}
	if cfg.Jolokia.Port != 7777 {
		t.Errorf("Expected port 7777, got %d", cfg.Jolokia.Port)
	}
	if cfg.Jolokia.Context != "hawtio/jolokia" {
		t.Errorf("Expected context hawtio/jolokia, got %q", cfg.Jolokia.Context)
	}
	if cfg.Jolokia.Timeout != 30*time.Second {
		t.Errorf("Expected timeout 30s, got %v", cfg.Jolokia.Timeout)
	}
	if cfg.Explanations.Warning != "Page the on-call team." {
		t.Errorf("Unexpected warning explanation: %q", cfg.Explanations.Warning)
	}
	if cfg.Explanations.Critical != "Wake everyone up." {
		t.Errorf("Unexpected critical explanation: %q", cfg.Explanations.Critical)
	}
	if cfg.Watch.Interval != 5*time.Second {
		t.Errorf("Expected watch interval 5s, got %v", cfg.Watch.Interval)
	}
	if cfg.Watch.WebhookURL != "http://alerts.example.com/hook" {
		t.Errorf("Unexpected webhook URL: %q", cfg.Watch.WebhookURL)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected log level debug, got %q", cfg.Log.Level)
	}
	if cfg.Log.File != "/tmp/beancheck.log" {
		t.Errorf("Unexpected log file: %q", cfg.Log.File)
	}
}

func TestLoadConfigFromPath_EnvOverride(t *testing.T) {
	viper.Reset()
	t.Setenv("BEANCHECK_JOLOKIA_HOST", "env.example.com")
	path := writeConfig(t, "")

	cfg, err := LoadConfigFromPath(path)
	if err != nil {
		t.Fatalf("LoadConfigFromPath failed: %v", err)
	}

	if cfg.Jolokia.Host != "env.example.com" {
		t.Errorf("Expected env override env.example.com, got %q", cfg.Jolokia.Host)
	}
}

func TestLoadConfigFromPath_MissingFile(t *testing.T) {
	viper.Reset()
	path := filepath.Join(t.TempDir(), "nonexistent.yaml")

	if _, err := LoadConfigFromPath(path); err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}

func TestLoadConfigFromPath_MalformedYAML(t *testing.T) {
	viper.Reset()
	path := writeConfig(t, "jolokia: [not: closed")

	if _, err := LoadConfigFromPath(path); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestLoadConfigFromPath_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "port too large",
			content: "jolokia:\n  port: 70000\n",
			wantErr: "jolokia.port",
		},
		{
			name:    "port zero",
			content: "jolokia:\n  port: 0\n",
			wantErr: "jolokia.port",
		},
		{
			name:    "timeout too small",
			content: "jolokia:\n  timeout: 500ms\n",
			wantErr: "jolokia.timeout",
		},
		{
			name:    "timeout too large",
			content: "jolokia:\n  timeout: 10m\n",
			wantErr: "jolokia.timeout",
		},
		{
			name:    "watch interval too small",
			content: "watch:\n  interval: 100ms\n",
			wantErr: "watch.interval",
		},
		{
			name:    "bad log level",
			content: "log:\n  level: trace\n",
			wantErr: "log.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			path := writeConfig(t, tt.content)

			_, err := LoadConfigFromPath(path)
			if err == nil {
				t.Fatalf("Expected validation error for %s", tt.name)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error mentioning %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateConfig_EmptyHost(t *testing.T) {
	cfg := &Config{
		Jolokia: JolokiaConfig{Host: "", Port: 8778, Context: "jolokia", Timeout: 10 * time.Second},
		Watch:   WatchConfig{Interval: 30 * time.Second},
		Log:     LogConfig{Level: "info"},
	}

	if err := ValidateConfig(cfg); err == nil {
		t.Error("Expected error for empty host")
	}
}

func TestValidateConfig_EmptyContext(t *testing.T) {
	cfg := &Config{
		Jolokia: JolokiaConfig{Host: "localhost", Port: 8778, Context: "", Timeout: 10 * time.Second},
		Watch:   WatchConfig{Interval: 30 * time.Second},
		Log:     LogConfig{Level: "info"},
	}

	if err := ValidateConfig(cfg); err == nil {
		t.Error("Expected error for empty context")
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	cfg := &Config{
		Jolokia: JolokiaConfig{Host: "localhost", Port: 8778, Context: "jolokia", Timeout: 10 * time.Second},
		Watch:   WatchConfig{Interval: 30 * time.Second},
		Log:     LogConfig{Level: "info"},
	}

	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("Expected valid config, got error: %v", err)
	}
}
