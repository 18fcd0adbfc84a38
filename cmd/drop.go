package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dropForce     bool
	dropCacheOnly bool
)

// dropCmd deletes the local database, or only its API cache.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the local database or its API cache",
	Long: `Permanently delete the SQLite database with stored team colors and cached API
responses. With --cache only the cached responses are removed and team colors
are kept.`,
	Args: cobra.NoArgs,
	RunE: runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
	dropCmd.Flags().BoolVar(&dropCacheOnly, "cache", false, "only clear cached API responses")
}

func runDrop(cmd *cobra.Command, _ []string) error {
	if !dropForce {
		what := dbPath
		if dropCacheOnly {
			what = "cached API responses in " + dbPath
		}
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", what)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}

	if dropCacheOnly {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to clear.")
			return nil
		}
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		n, err := db.ClearCache(cmd.Context())
		if err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Removed %d cached response(s).\n", n)
		return nil
	}

	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	// WAL side files.
	for _, suffix := range []string{"-wal", "-shm"} {
		_ = os.Remove(dbPath + suffix)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}
