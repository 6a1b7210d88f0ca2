package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ogulcanaydogan/vix-monitor/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "^VIX", cfg.Market.Symbol)
	assert.Equal(t, "https://query1.finance.yahoo.com", cfg.Market.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Market.TimeoutDuration())
	assert.Equal(t, 30, cfg.Cooldown.Days)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "last_purchase.json", cfg.Storage.Path)
	assert.Equal(t, "smtp.gmail.com", cfg.Alerts.Email.SMTPHost)
	assert.Equal(t, 587, cfg.Alerts.Email.SMTPPort)
	assert.True(t, cfg.Alerts.Email.RequireTLS)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "vixmon.yaml")
	data := []byte(`
market:
  symbol: "^VXN"
  timeout: 3s
cooldown:
  days: 14
storage:
  driver: sqlite
  path: /tmp/vixmon.db
thresholds:
  file: thresholds.yaml
alerts:
  slack:
    webhook_url: https://hooks.slack.com/services/x
    channel: "#markets"
logging:
  level: debug
`)
	require.NoError(t, os.WriteFile(cfgPath, data, 0o644))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "^VXN", cfg.Market.Symbol)
	assert.Equal(t, 3*time.Second, cfg.Market.TimeoutDuration())
	assert.Equal(t, 14, cfg.Cooldown.Days)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/vixmon.db", cfg.Storage.Path)
	assert.Equal(t, "thresholds.yaml", cfg.Thresholds.File)
	assert.Equal(t, "#markets", cfg.Alerts.Slack.Channel)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_LegacyEnv(t *testing.T) {
	t.Setenv("EMAIL_SENDER", "me@example.com")
	t.Setenv("EMAIL_PASSWORD", "app-password")
	t.Setenv("EMAIL_RECEIVER", "you@example.com")
	t.Setenv("DISCORD_WEBHOOK_URL", "https://discord.com/api/webhooks/1/abc")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "me@example.com", cfg.Alerts.Email.Sender)
	assert.Equal(t, "app-password", cfg.Alerts.Email.Password)
	assert.Equal(t, "you@example.com", cfg.Alerts.Email.Receiver)
	assert.Equal(t, "https://discord.com/api/webhooks/1/abc", cfg.Alerts.Discord.WebhookURL)
}

func TestLoad_PrefixedEnvWins(t *testing.T) {
	t.Setenv("EMAIL_SENDER", "legacy@example.com")
	t.Setenv("VIXMON_ALERTS_EMAIL_SENDER", "prefixed@example.com")
	t.Setenv("VIXMON_COOLDOWN_DAYS", "7")
	t.Setenv("VIXMON_LOGGING_LEVEL", "error")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "prefixed@example.com", cfg.Alerts.Email.Sender)
	assert.Equal(t, 7, cfg.Cooldown.Days)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoad_MissingTransportsAreEmpty(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Empty(t, cfg.Alerts.Discord.WebhookURL)
	assert.Empty(t, cfg.Alerts.Webhook.URL)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("invalid: [yaml"), 0o644))

	_, err := config.Load(cfgPath)
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"negative cooldown", "cooldown:\n  days: -1\n", "cooldown.days"},
		{"unknown driver", "storage:\n  driver: redis\n", "storage.driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgPath := filepath.Join(t.TempDir(), "vixmon.yaml")
			require.NoError(t, os.WriteFile(cfgPath, []byte(tt.yaml), 0o644))

			_, err := config.Load(cfgPath)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
