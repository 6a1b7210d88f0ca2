package cli

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ogulcanaydogan/vix-monitor/pkg/alerts"
	"github.com/ogulcanaydogan/vix-monitor/pkg/model"
	"github.com/ogulcanaydogan/vix-monitor/pkg/monitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		cfgFile = ""
	})
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func writeConfig(t *testing.T, chartURL, discordURL string) string {
	t.Helper()
	for _, key := range []string{"EMAIL_SENDER", "EMAIL_PASSWORD", "EMAIL_RECEIVER", "DISCORD_WEBHOOK_URL"} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "vixmon.yaml")
	data := fmt.Sprintf(`
market:
  base_url: %s
storage:
  path: %s
alerts:
  email:
    sender: ""
    password: ""
    receiver: ""
  discord:
    webhook_url: %s
logging:
  level: error
`, chartURL, filepath.Join(dir, "last_purchase.json"), discordURL)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestRootCommand_AlertsThenCoolsDown(t *testing.T) {
	fetches := 0
	chart := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fetches++
		fmt.Fprint(w, `{"chart": {"result": [{"meta": {"symbol": "^VIX"}, "indicators": {"quote": [{"close": [32.0]}]}}]}}`)
	}))
	defer chart.Close()

	posts := 0
	discord := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		posts++
		w.WriteHeader(http.StatusNoContent)
	}))
	defer discord.Close()

	cfg := writeConfig(t, chart.URL, discord.URL)

	out := execute(t, "--config", cfg)
	assert.Contains(t, out, "Current VIX: 32.00")
	assert.Contains(t, out, "🎯 TRIGGER: Buy 1.0 month(s) worth!")
	assert.Contains(t, out, "✓ discord notification sent")
	assert.Contains(t, out, "✗ email skipped")
	assert.Contains(t, out, "Cooldown active for 30 days")

	out = execute(t, "--config", cfg)
	assert.Contains(t, out, "⏳ Cooldown active: 30 days remaining")
	assert.Equal(t, 1, fetches)
	assert.Equal(t, 1, posts)

	out = execute(t, "status", "--config", cfg)
	assert.Contains(t, out, "Alerts:        suppressed, 30 days remaining")
}

func TestStatusCommand_NoRecord(t *testing.T) {
	cfg := writeConfig(t, "http://127.0.0.1:1", "")

	out := execute(t, "status", "--config", cfg)
	assert.Contains(t, out, "Last purchase: never")
	assert.Contains(t, out, "Alerts:        enabled")
}

func TestThresholdsCommand(t *testing.T) {
	cfg := writeConfig(t, "http://127.0.0.1:1", "")

	out := execute(t, "thresholds", "--config", cfg)
	assert.Contains(t, out, "VIX 25-29: Buy 0.5 months")
	assert.Contains(t, out, "VIX 50+: Buy 3 months")
}

func TestVersionCommand(t *testing.T) {
	out := execute(t, "version")
	assert.Contains(t, out, "vixmon version dev")
}

func TestPrintReport(t *testing.T) {
	started := time.Date(2026, 4, 7, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		rep  monitor.Report
		want []string
	}{
		{
			name: "cooldown",
			rep:  monitor.Report{StartedAt: started, Status: monitor.StatusCooldown, RemainingDays: 12},
			want: []string{"VIX Monitor - 2026-04-07 09:30:00", "Cooldown active: 12 days remaining"},
		},
		{
			name: "no data",
			rep:  monitor.Report{StartedAt: started, Status: monitor.StatusNoData, Err: errors.New("timeout")},
			want: []string{"✗ Failed to fetch VIX data: timeout"},
		},
		{
			name: "no action",
			rep:  monitor.Report{StartedAt: started, Status: monitor.StatusNoAction, Reading: model.Reading{Value: 18.3}},
			want: []string{"Current VIX: 18.30", "No action needed"},
		},
		{
			name: "dispatch failed",
			rep: monitor.Report{
				StartedAt: started,
				Status:    monitor.StatusDispatchFailed,
				Reading:   model.Reading{Value: 41.2},
				Months:    2,
				Outcomes: []alerts.Outcome{
					{Notifier: "email", Status: alerts.OutcomeFailed, Err: errors.New("535 auth")},
					{Notifier: "discord", Status: alerts.OutcomeSkipped, Err: alerts.ErrNotConfigured},
				},
			},
			want: []string{"Buy 2.0 month(s)", "✗ email failed: 535 auth", "✗ discord skipped", "No notifications were sent"},
		},
		{
			name: "alerted with persist error",
			rep: monitor.Report{
				StartedAt:    started,
				Status:       monitor.StatusAlerted,
				Reading:      model.Reading{Value: 52},
				Months:       3,
				CooldownDays: 30,
				Outcomes:     []alerts.Outcome{{Notifier: "email", Status: alerts.OutcomeDelivered}},
				Err:          errors.New("disk full"),
			},
			want: []string{"✓ email notification sent", "Cooldown active for 30 days", "Could not save purchase date: disk full"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printReport(&buf, "VIX", tt.rep)
			for _, s := range tt.want {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}
