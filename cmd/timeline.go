package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-futsal-metrics/internal/aggregator"
	"github.com/pable/go-futsal-metrics/internal/report"
)

var timelineGoalsOnly bool

var timelineCmd = &cobra.Command{
	Use:   "timeline <match-id>",
	Short: "Show the weighted attack events of a match",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimeline,
}

func init() {
	timelineCmd.Flags().BoolVar(&timelineGoalsOnly, "goals", false, "only show goals")
}

func runTimeline(cmd *cobra.Command, args []string) error {
	a, r, err := loadReport(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer a.Close()

	rows := aggregator.Timeline(r.Attacks)
	if timelineGoalsOnly {
		rows = aggregator.GoalsOnly(rows)
	}
	report.PrintMatchHeader(os.Stdout, r.Match, r.Score)
	if len(rows) == 0 {
		fmt.Println("No attack events.")
		return nil
	}
	report.PrintTimeline(os.Stdout, rows)
	return nil
}
