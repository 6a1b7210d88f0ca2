package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/ogulcanaydogan/vix-monitor/pkg/threshold"
	"github.com/spf13/cobra"
)

var thresholdsCmd = &cobra.Command{
	Use:   "thresholds",
	Short: "List the buying thresholds in effect",
	Args:  cobra.NoArgs,
	RunE:  runThresholds,
}

func init() {
	rootCmd.AddCommand(thresholdsCmd)
}

func runThresholds(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	table, err := initTable(cfg)
	if err != nil {
		return fmt.Errorf("load thresholds: %w", err)
	}

	label := labelFor(cfg.Market.Symbol)
	bands := table.Describe(label)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "MIN %s\tMONTHS\tRANGE\n", label)
	for i, s := range table.Steps() {
		fmt.Fprintf(w, "%g\t%s\t%s\n", s.Min, threshold.FormatMonths(s.Months), bands[i])
	}
	w.Flush()

	return nil
}
