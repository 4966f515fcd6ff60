// Package config loads beancheck configuration from YAML and environment
// variables, and batch target files for multi-check runs.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the root configuration structure
type Config struct {
	Jolokia      JolokiaConfig      `mapstructure:"jolokia"`
	Explanations ExplanationsConfig `mapstructure:"explanations"`
	Watch        WatchConfig        `mapstructure:"watch"`
	Log          LogConfig          `mapstructure:"log"`
}

// JolokiaConfig holds default bridge connection coordinates. Command-line
// flags override these per invocation.
type JolokiaConfig struct {
	Host    string        `mapstructure:"host"`
	Port    int           `mapstructure:"port"`
	Context string        `mapstructure:"context"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ExplanationsConfig holds the contact templates attached verbatim to
// breached results.
type ExplanationsConfig struct {
	Warning  string `mapstructure:"warning"`
	Critical string `mapstructure:"critical"`
}

// WatchConfig holds defaults for continuous re-evaluation.
type WatchConfig struct {
	Interval   time.Duration `mapstructure:"interval"`
	WebhookURL string        `mapstructure:"webhook_url"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// LoadConfig loads configuration from YAML file and environment variables
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.config/beancheck")
	viper.AddConfigPath(".")

	return load()
}

// LoadConfigFromPath loads configuration from an explicit file path.
func LoadConfigFromPath(path string) (*Config, error) {
	viper.SetConfigFile(path)

	return load()
}

func load() (*Config, error) {
	// Environment variable support
	viper.AutomaticEnv()
	viper.SetEnvPrefix("BEANCHECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	applyDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file: defaults only.
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := ValidateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// ValidateConfig validates the configuration values
func ValidateConfig(cfg *Config) error {
	if cfg.Jolokia.Host == "" {
		return fmt.Errorf("jolokia.host cannot be empty")
	}
	if cfg.Jolokia.Port < 1 || cfg.Jolokia.Port > 65535 {
		return fmt.Errorf("jolokia.port must be between 1 and 65535, got %d", cfg.Jolokia.Port)
	}
	if cfg.Jolokia.Context == "" {
		return fmt.Errorf("jolokia.context cannot be empty")
	}
	if cfg.Jolokia.Timeout < time.Second || cfg.Jolokia.Timeout > 120*time.Second {
		return fmt.Errorf("jolokia.timeout must be between 1s and 120s, got %v", cfg.Jolokia.Timeout)
	}

	if cfg.Watch.Interval < time.Second || cfg.Watch.Interval > time.Hour {
		return fmt.Errorf("watch.interval must be between 1s and 1h, got %v", cfg.Watch.Interval)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	validLevel := false
	for _, level := range validLevels {
		if cfg.Log.Level == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("log.level must be one of: %v, got %s", validLevels, cfg.Log.Level)
	}

	return nil
}

// applyDefaults sets default configuration values
func applyDefaults() {
	// Bridge defaults
	viper.SetDefault("jolokia.host", "localhost")
	viper.SetDefault("jolokia.port", 8778)
	viper.SetDefault("jolokia.context", "jolokia")
	viper.SetDefault("jolokia.timeout", "10s")

	// Explanation templates default to empty: nothing is appended to
	// breached results unless the operator supplies text.
	viper.SetDefault("explanations.warning", "")
	viper.SetDefault("explanations.critical", "")

	// Watch defaults
	viper.SetDefault("watch.interval", "30s")
	viper.SetDefault("watch.webhook_url", "")

	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "")
}
