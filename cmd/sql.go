package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-futsal-metrics/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the local database",
	Long: `Run an arbitrary SQL query against the local database and print results as a table.

Schema overview:
  team_colors(name TEXT PRIMARY KEY COLLATE NOCASE, abbr, home_color, away_color)
  api_cache(key TEXT PRIMARY KEY, payload BLOB, fetched_at INTEGER)

fetched_at is Unix milliseconds. Example:
  futsalmetrics sql "SELECT key, datetime(fetched_at/1000, 'unixepoch') FROM api_cache"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	report.PrintRows(os.Stdout, cols, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
