package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all VIX Monitor configuration.
type Config struct {
	Market     MarketConfig     `mapstructure:"market"`
	Cooldown   CooldownConfig   `mapstructure:"cooldown"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Thresholds ThresholdsConfig `mapstructure:"thresholds"`
	Alerts     AlertsConfig     `mapstructure:"alerts"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// MarketConfig defines where readings come from.
type MarketConfig struct {
	Symbol  string `mapstructure:"symbol"`
	BaseURL string `mapstructure:"base_url"`
	Timeout string `mapstructure:"timeout"`
}

// TimeoutDuration parses Timeout, falling back to 10s.
func (m MarketConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(m.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// CooldownConfig defines the alert suppression window.
type CooldownConfig struct {
	Days int `mapstructure:"days"`
}

// StorageConfig defines where the last-purchase record lives.
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// ThresholdsConfig points at an optional custom threshold schedule.
type ThresholdsConfig struct {
	File string `mapstructure:"file"`
}

// AlertsConfig defines notification integrations.
type AlertsConfig struct {
	Email   EmailConfig   `mapstructure:"email"`
	Discord DiscordConfig `mapstructure:"discord"`
	Slack   SlackConfig   `mapstructure:"slack"`
	Webhook WebhookConfig `mapstructure:"webhook"`
}

// EmailConfig defines SMTP submission settings.
type EmailConfig struct {
	Sender     string `mapstructure:"sender"`
	Password   string `mapstructure:"password"`
	Receiver   string `mapstructure:"receiver"`
	SMTPHost   string `mapstructure:"smtp_host"`
	SMTPPort   int    `mapstructure:"smtp_port"`
	RequireTLS bool   `mapstructure:"require_tls"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

// SlackConfig defines Slack webhook settings.
type SlackConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
	Channel    string `mapstructure:"channel"`
}

// WebhookConfig defines generic webhook settings.
type WebhookConfig struct {
	URL    string `mapstructure:"url"`
	Secret string `mapstructure:"secret"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// legacyEnv maps config keys to the unprefixed variables the monitor has
// always read. The prefixed form (VIXMON_ALERTS_EMAIL_SENDER, ...) wins
// when both are set.
var legacyEnv = map[string]string{
	"alerts.email.sender":        "EMAIL_SENDER",
	"alerts.email.password":      "EMAIL_PASSWORD",
	"alerts.email.receiver":      "EMAIL_RECEIVER",
	"alerts.discord.webhook_url": "DISCORD_WEBHOOK_URL",
}

// Load reads configuration from file and environment variables.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".vixmon"))
		}
		v.SetConfigName("vixmon")
		v.SetConfigType("yaml")
	}

	// Defaults
	v.SetDefault("market.symbol", "^VIX")
	v.SetDefault("market.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("market.timeout", "10s")
	v.SetDefault("cooldown.days", 30)
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.path", "last_purchase.json")
	v.SetDefault("thresholds.file", "")
	v.SetDefault("alerts.email.smtp_host", "smtp.gmail.com")
	v.SetDefault("alerts.email.smtp_port", 587)
	v.SetDefault("alerts.email.require_tls", true)
	v.SetDefault("alerts.slack.webhook_url", "")
	v.SetDefault("alerts.slack.channel", "")
	v.SetDefault("alerts.webhook.url", "")
	v.SetDefault("alerts.webhook.secret", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Environment variables
	v.SetEnvPrefix("VIXMON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		prefixed := "VIXMON_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would make a run meaningless.
func (c *Config) Validate() error {
	if c.Cooldown.Days < 0 {
		return fmt.Errorf("cooldown.days must not be negative, got %d", c.Cooldown.Days)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	switch strings.ToLower(c.Storage.Driver) {
	case "file", "sqlite":
	default:
		return fmt.Errorf("storage.driver must be file or sqlite, got %q", c.Storage.Driver)
	}
	return nil
}
