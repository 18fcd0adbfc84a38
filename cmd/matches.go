package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-futsal-metrics/internal/report"
)

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List the season's matches",
	Long:  "List every match of the configured season, group stage first, in the order the match selector uses.",
	Args:  cobra.NoArgs,
	RunE:  runMatches,
}

func runMatches(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	matches, err := a.svc.Matches(cmd.Context())
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println("No matches found.")
		return nil
	}
	report.PrintMatches(os.Stdout, matches)
	return nil
}
