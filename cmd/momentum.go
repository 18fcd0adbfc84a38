package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-futsal-metrics/internal/report"
)

var momentumCmd = &cobra.Command{
	Use:   "momentum <match-id>",
	Short: "Show per-minute attacking momentum and its EWMA trend",
	Long: `Print the weighted attack totals of each minute for both teams, the EWMA of the
home series, of the negated away series and of the net difference.`,
	Args: cobra.ExactArgs(1),
	RunE: runMomentum,
}

func runMomentum(cmd *cobra.Command, args []string) error {
	a, r, err := loadReport(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer a.Close()

	report.PrintMatchHeader(os.Stdout, r.Match, r.Score)
	report.PrintMomentum(os.Stdout, r.Minutes, a.svc.Smoothed(r), cfg.HalftimeMinute)
	return nil
}
