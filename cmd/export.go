package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-futsal-metrics/internal/infographic"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <match-id>",
	Short: "Export the match infographic as JSON",
	Long: `Build the one-page infographic of a match (header, momentum bars with goal
labels, smoothed trend, top players and cumulative curves) and write it as JSON.

Without --out the file is named infographic_<home>_vs_<away>.json in the
current directory. Use --out - for stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file, or - for stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, r, err := loadReport(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer a.Close()

	doc := infographic.Build(infographic.Input{
		Match:          r.Match,
		Minutes:        r.Minutes,
		Attacks:        r.Attacks,
		Goals:          r.Goals,
		Palette:        r.Palette,
		Score:          r.Score,
		Flags:          r.Flags,
		HalftimeMinute: cfg.HalftimeMinute,
		SmoothDtMin:    cfg.SmoothDtMin,
		SmoothTauMin:   cfg.SmoothTauMin,
		TopN:           cfg.TopNPlayers,
		Now:            time.Now(),
	})

	path := exportOut
	if path == "" {
		path = infographic.FileName(r.Match)
	}
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}
	if err := infographic.Write(w, doc); err != nil {
		return fmt.Errorf("write infographic: %w", err)
	}
	if path != "-" {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	}
	return nil
}
