package cli

import (
	"fmt"
	"time"

	"github.com/ogulcanaydogan/vix-monitor/pkg/cooldown"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the cooldown state without fetching or alerting",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	store, err := initStorage(cfg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer store.Close()

	gate := initGate(cfg, store, logger)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "State:         %s (%s)\n", cfg.Storage.Path, cfg.Storage.Driver)
	fmt.Fprintf(out, "Cooldown:      %d days\n", gate.WindowDays())

	st := gate.Check(cmd.Context())
	switch st.Lookup.State {
	case cooldown.Absent:
		fmt.Fprintf(out, "Last purchase: never\n")
	case cooldown.Corrupt:
		fmt.Fprintf(out, "Last purchase: unreadable, treated as never (%v)\n", st.Lookup.Err)
	case cooldown.Found:
		fmt.Fprintf(out, "Last purchase: %s\n", st.Lookup.Date.Format(time.DateTime))
	}

	if st.Active {
		fmt.Fprintf(out, "Alerts:        suppressed, %d days remaining\n", st.RemainingDays)
	} else {
		fmt.Fprintf(out, "Alerts:        enabled\n")
	}
	return nil
}
