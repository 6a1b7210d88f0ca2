package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ogulcanaydogan/vix-monitor/internal/config"
	"github.com/ogulcanaydogan/vix-monitor/pkg/alerts"
	"github.com/ogulcanaydogan/vix-monitor/pkg/cooldown"
	"github.com/ogulcanaydogan/vix-monitor/pkg/market"
	"github.com/ogulcanaydogan/vix-monitor/pkg/monitor"
	"github.com/ogulcanaydogan/vix-monitor/pkg/storage"
	"github.com/ogulcanaydogan/vix-monitor/pkg/threshold"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "vixmon",
	Short: "VIX Monitor - volatility-triggered DCA buy alerts",
	Long: `VIX Monitor checks the CBOE Volatility Index once per invocation and,
when it crosses a buying threshold, emails and posts a recommendation for how
many months of your cash reserve to deploy. A cooldown suppresses repeat
alerts after a successful notification.

Run it from cron or a CI schedule; each invocation performs a single check.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runMonitor,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./vixmon.yaml or ~/.vixmon/vixmon.yaml)")
}

// loadConfig loads the configuration.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// newLogger creates a structured logger from config.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}

// initTable builds the threshold table, from file when configured.
func initTable(cfg *config.Config) (*threshold.Table, error) {
	if cfg.Thresholds.File == "" {
		return threshold.New(threshold.Default())
	}
	return threshold.LoadFile(cfg.Thresholds.File)
}

// initStorage creates the state store from config.
func initStorage(cfg *config.Config) (storage.Storage, error) {
	return storage.Open(cfg.Storage.Driver, cfg.Storage.Path)
}

// initGate creates the cooldown gate over store.
func initGate(cfg *config.Config, store storage.Storage, logger *slog.Logger) *cooldown.Gate {
	return cooldown.NewGate(store, cfg.Cooldown.Days, logger)
}

// initNotifiers creates alert notifiers from config. Email and Discord are
// always attempted so missing credentials show up in the run output; Slack
// and the generic webhook join only when an endpoint is set.
func initNotifiers(cfg *config.Config) []alerts.Notifier {
	email := cfg.Alerts.Email
	notifiers := []alerts.Notifier{
		alerts.NewEmailNotifier(alerts.EmailConfig{
			Sender:     email.Sender,
			Password:   email.Password,
			Receiver:   email.Receiver,
			Host:       email.SMTPHost,
			Port:       email.SMTPPort,
			RequireTLS: email.RequireTLS,
		}),
		alerts.NewDiscordNotifier(cfg.Alerts.Discord.WebhookURL),
	}

	if cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alerts.NewSlackNotifier(
			cfg.Alerts.Slack.WebhookURL,
			cfg.Alerts.Slack.Channel,
		))
	}

	if cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alerts.NewWebhookNotifier(
			cfg.Alerts.Webhook.URL,
			cfg.Alerts.Webhook.Secret,
		))
	}

	return notifiers
}

// initMonitor creates a fully wired monitor. The caller closes the store.
func initMonitor(cfg *config.Config, logger *slog.Logger) (*monitor.Monitor, storage.Storage, error) {
	table, err := initTable(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("load thresholds: %w", err)
	}

	store, err := initStorage(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}

	provider := market.NewYahoo(cfg.Market.BaseURL, cfg.Market.Symbol, cfg.Market.TimeoutDuration())
	dispatcher := alerts.NewDispatcher(initNotifiers(cfg), logger)
	gate := initGate(cfg, store, logger)

	return monitor.New(provider, table, gate, dispatcher, logger), store, nil
}
