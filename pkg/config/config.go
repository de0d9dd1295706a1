// Package config loads herald's configuration: a YAML file layered under
// HERALD_* environment variable overrides. A missing file is not an error;
// env-only configuration is a supported deployment mode.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/openherald/herald/pkg/notifier"
	"github.com/openherald/herald/pkg/schedule"
)

// DaemonConfig controls the dispatcher runtime.
type DaemonConfig struct {
	QueueSize   int           `yaml:"queue_size" env:"HERALD_QUEUE_SIZE"`
	SendTimeout time.Duration `yaml:"send_timeout" env:"HERALD_SEND_TIMEOUT"`
	HistoryPath string        `yaml:"history_path" env:"HERALD_HISTORY_PATH"`
}

// ChannelsConfig holds per-channel credential blocks plus the enabled set.
// Only channels listed in Enabled are registered at startup.
type ChannelsConfig struct {
	Enabled   []string                 `yaml:"enabled" env:"HERALD_CHANNELS" envSeparator:","`
	Email     notifier.EmailConfig     `yaml:"email"`
	SMS       notifier.SMSConfig       `yaml:"sms"`
	Slack     notifier.SlackConfig     `yaml:"slack"`
	Discord   notifier.DiscordConfig   `yaml:"discord"`
	Telegram  notifier.TelegramConfig  `yaml:"telegram"`
	Webhook   notifier.WebhookConfig   `yaml:"webhook"`
	WebSocket notifier.WebSocketConfig `yaml:"websocket"`
}

// Config is the root configuration.
type Config struct {
	LogLevel  string           `yaml:"log_level" env:"HERALD_LOG_LEVEL"`
	Daemon    DaemonConfig     `yaml:"daemon"`
	Channels  ChannelsConfig   `yaml:"channels"`
	Schedules []schedule.Entry `yaml:"schedules"`
}

// Default returns the baseline configuration before file/env layering.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Daemon: DaemonConfig{
			QueueSize:   100,
			SendTimeout: 30 * time.Second,
			HistoryPath: "herald.db",
		},
		Channels: ChannelsConfig{
			Enabled: []string{"console"},
			Email:   notifier.EmailConfig{Port: 587},
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (skipped when absent), then HERALD_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// env-only mode
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate rejects configurations the daemon could not run with.
func (c *Config) validate() error {
	if c.Daemon.QueueSize <= 0 {
		return fmt.Errorf("config: queue_size must be positive, got %d", c.Daemon.QueueSize)
	}
	if c.Daemon.SendTimeout <= 0 {
		return fmt.Errorf("config: send_timeout must be positive, got %s", c.Daemon.SendTimeout)
	}
	if len(c.Channels.Enabled) == 0 {
		return fmt.Errorf("config: no channels enabled")
	}
	for _, e := range c.Schedules {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}
