package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-futsal-metrics/internal/model"
	"github.com/pable/go-futsal-metrics/internal/report"
)

var (
	paletteHome string
	paletteAway string
)

var paletteCmd = &cobra.Command{
	Use:   "palette [match-id]",
	Short: "Pick contrasting home/away colors",
	Long: `Pick the two colors a match is drawn with. Give a match id, or two team names:

  futsalmetrics palette 400235487
  futsalmetrics palette --home Brazil --away Argentina

Stored team colors (see 'colors import') win over generated ones; a clash
below the configured ΔE76 threshold is resolved by swapping to the away
color, darkening, and finally a forced separation.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPalette,
}

func init() {
	paletteCmd.Flags().StringVar(&paletteHome, "home", "", "home team name")
	paletteCmd.Flags().StringVar(&paletteAway, "away", "", "away team name")
}

func runPalette(cmd *cobra.Command, args []string) error {
	byName := paletteHome != "" || paletteAway != ""
	switch {
	case len(args) == 1 && byName:
		return fmt.Errorf("give a match id or --home/--away, not both")
	case len(args) == 0 && (paletteHome == "" || paletteAway == ""):
		return fmt.Errorf("need a match id, or both --home and --away")
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	m := model.Match{HomeName: paletteHome, AwayName: paletteAway}
	if len(args) == 1 {
		if m, err = a.lookupMatch(ctx, args[0]); err != nil {
			return err
		}
	}
	p := a.resolver.Pick(ctx, m.HomeName, m.AwayName, m.HomeID, m.AwayID)
	report.PrintPalette(os.Stdout, m, p)
	return nil
}
