package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ogulcanaydogan/vix-monitor/pkg/alerts"
	"github.com/ogulcanaydogan/vix-monitor/pkg/monitor"
	"github.com/ogulcanaydogan/vix-monitor/pkg/threshold"
	"github.com/spf13/cobra"
)

func runMonitor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	m, store, err := initMonitor(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	rep := m.Run(cmd.Context())
	printReport(cmd.OutOrStdout(), labelFor(cfg.Market.Symbol), rep)
	return nil
}

func labelFor(symbol string) string {
	if l := strings.TrimPrefix(symbol, "^"); l != "" {
		return l
	}
	return "VIX"
}

// printReport renders a run for humans. Every outcome, including failures,
// ends up here rather than in the exit code.
func printReport(w io.Writer, label string, rep monitor.Report) {
	rule := strings.Repeat("=", 50)
	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "%s Monitor - %s\n", label, rep.StartedAt.Format(time.DateTime))
	fmt.Fprintf(w, "%s\n\n", rule)

	switch rep.Status {
	case monitor.StatusCooldown:
		fmt.Fprintf(w, "⏳ Cooldown active: %d days remaining\n", rep.RemainingDays)
		fmt.Fprintf(w, "   No alerts will be sent until cooldown expires.\n\n")
		return

	case monitor.StatusNoData:
		fmt.Fprintf(w, "✗ Failed to fetch %s data", label)
		if rep.Err != nil {
			fmt.Fprintf(w, ": %v", rep.Err)
		}
		fmt.Fprintf(w, "\n\n")
		return
	}

	fmt.Fprintf(w, "Current %s: %.2f\n", label, rep.Reading.Value)

	if rep.Status == monitor.StatusNoAction {
		fmt.Fprintf(w, "✓ No action needed (%s below threshold)\n\n", label)
		return
	}

	fmt.Fprintf(w, "🎯 TRIGGER: Buy %s month(s) worth!\n", threshold.FormatMonths(rep.Months))
	fmt.Fprintf(w, "   Sending notifications...\n\n")
	for _, o := range rep.Outcomes {
		switch o.Status {
		case alerts.OutcomeDelivered:
			fmt.Fprintf(w, "✓ %s notification sent\n", o.Notifier)
		default:
			fmt.Fprintf(w, "✗ %s %s: %s\n", o.Notifier, o.Status, o.Reason())
		}
	}

	if rep.Status == monitor.StatusAlerted {
		fmt.Fprintf(w, "\n✓ Notifications sent. Cooldown active for %d days.\n", rep.CooldownDays)
		if rep.Err != nil {
			fmt.Fprintf(w, "✗ Could not save purchase date: %v\n", rep.Err)
		}
	} else {
		fmt.Fprintf(w, "\n✗ No notifications were sent (check configuration)\n")
	}
	fmt.Fprintln(w)
}
