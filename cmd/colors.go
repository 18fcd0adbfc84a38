package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-futsal-metrics/internal/report"
)

var colorsCmd = &cobra.Command{
	Use:   "colors",
	Short: "Manage stored team colors",
}

var colorsImportCmd = &cobra.Command{
	Use:   "import <csv-file>",
	Short: "Import team colors from CSV",
	Long: `Import authoritative team colors. One row per team:

  name,abbr,home_color,away_color
  Brazil,BRA,#FEDF00,#002776

An optional header row is skipped, lines starting with '#' are comments and
existing teams are replaced. The import is all-or-nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: runColorsImport,
}

var colorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored team colors",
	Args:  cobra.NoArgs,
	RunE:  runColorsList,
}

func init() {
	colorsCmd.AddCommand(colorsImportCmd)
	colorsCmd.AddCommand(colorsListCmd)
}

func runColorsImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.ImportTeamColorsCSV(cmd.Context(), f)
	if err != nil {
		return fmt.Errorf("import %s: %w", args[0], err)
	}
	fmt.Printf("Imported %d team(s).\n", n)
	return nil
}

func runColorsList(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.ListTeamColors(cmd.Context())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No team colors stored yet.")
		return nil
	}
	report.PrintTeamColors(os.Stdout, rows)
	return nil
}
