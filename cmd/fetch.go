package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pable/go-futsal-metrics/internal/matchlist"
)

var fetchCount int

// fetchCmd warms the SQLite API cache for the whole season.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Warm the API cache for every match of the season",
	Long: `Download the calendar, the team directory, and the timeline and squads of every
match, storing the responses in the SQLite cache. Later commands and 'serve'
then work from the cache until entries expire, and fall back to stale
copies when the API is unavailable.

Examples:
  futsalmetrics fetch
  futsalmetrics fetch --count 5`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVar(&fetchCount, "count", 0, "only fetch the first N matches in selector order (0 = all)")
}

func runFetch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	matches, err := a.svc.Matches(ctx)
	if err != nil {
		return err
	}
	if fetchCount > 0 && fetchCount < len(matches) {
		matches = matches[:fetchCount]
	}
	if _, err := a.client.Directory(cfg.SeasonID).Teams(ctx); err != nil {
		log.Warn().Err(err).Msg("team directory fetch failed")
	}

	labels := matchlist.Labels(matches)
	var failed int
	for i, m := range matches {
		fmt.Printf("[%d/%d] %s ... ", i+1, len(matches), labels[i])
		r, err := a.svc.Load(ctx, m.MatchID)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Println("cancelled")
				return ctx.Err()
			}
			failed++
			fmt.Printf("error: %v\n", err)
			continue
		}
		fmt.Printf("%d events, %d-%d\n", len(r.Events), r.Score.Home, r.Score.Away)
	}

	fmt.Printf("\nFetched %d match(es), %d failed.\n", len(matches)-failed, failed)
	if failed > 0 && failed == len(matches) {
		return fmt.Errorf("every match failed to load")
	}
	return nil
}
