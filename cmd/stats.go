package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-futsal-metrics/internal/aggregator"
	"github.com/pable/go-futsal-metrics/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats <match-id>",
	Short: "Show event totals and the per-category breakdown",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	a, r, err := loadReport(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer a.Close()

	report.PrintMatchHeader(os.Stdout, r.Match, r.Score)
	report.PrintStats(os.Stdout, r.Totals, r.Distribution, aggregator.StatCategories)
	return nil
}
