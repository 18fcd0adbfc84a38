package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-futsal-metrics/internal/config"
	"github.com/pable/go-futsal-metrics/internal/logging"
)

var (
	dbPath     string
	configPath string
	logLevel   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "futsalmetrics",
	Short: "FIFA Futsal World Cup match momentum tool",
	Long: `Fetch FIFA Futsal World Cup timelines and compute per-minute attacking momentum,
smoothed trends, player rankings, event statistics and a contrasting team palette.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default ~/.futsalmetrics/futsal.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $FUTSAL_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(momentumCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(paletteCmd)
	rootCmd.AddCommand(colorsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
}

// loadConfig resolves the configuration once per invocation. Flags win over
// the file and the environment.
func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cmd.Context(), configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.DBPath = dbPath
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	dbPath = c.DBPath
	if err := logging.Setup(c.LogLevel); err != nil {
		return err
	}
	cfg = c
	return nil
}
