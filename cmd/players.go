package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-futsal-metrics/internal/report"
)

var playersTop int

var playersCmd = &cobra.Command{
	Use:   "players <match-id>",
	Short: "Rank players by weighted attack score",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayers,
}

func init() {
	playersCmd.Flags().IntVar(&playersTop, "top", 0, "number of players (default from config)")
}

func runPlayers(cmd *cobra.Command, args []string) error {
	if playersTop < 0 {
		return fmt.Errorf("--top must not be negative")
	}
	a, r, err := loadReport(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer a.Close()

	top := a.svc.TopPlayers(r, playersTop)
	report.PrintMatchHeader(os.Stdout, r.Match, r.Score)
	if len(top) == 0 {
		fmt.Println("No player attacks recorded.")
		return nil
	}
	report.PrintTopPlayers(os.Stdout, top)
	return nil
}
