package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-futsal-metrics/internal/aggregator"
	"github.com/pable/go-futsal-metrics/internal/analysis"
	"github.com/pable/go-futsal-metrics/internal/model"
	"github.com/pable/go-futsal-metrics/internal/report"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the API cache. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

// shellSession keeps the last listing so matches can be picked by number.
type shellSession struct {
	app    *app
	ctx    context.Context
	listed []model.Match
}

func runShell(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	s := &shellSession{app: a, ctx: cmd.Context()}

	cGreeting.Println("futsalmetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("futsal")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			s.list()
		case "show", "timeline", "momentum", "palette":
			if len(args) == 0 {
				cError.Fprintf(os.Stderr, "usage: %s <match-id | #n>\n", name)
				continue
			}
			s.run(name, args[0])
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list the season's matches"},
		{"show <id | #n>", "score, event statistics and top players"},
		{"timeline <id | #n>", "weighted attack events"},
		{"momentum <id | #n>", "per-minute momentum and EWMA trend"},
		{"palette <id | #n>", "picked team colors"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-24s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func (s *shellSession) list() {
	matches, err := s.app.svc.Matches(s.ctx)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	s.listed = matches
	if len(matches) == 0 {
		cMuted.Println("No matches found.")
		return
	}
	report.PrintMatches(os.Stdout, matches)
	cMuted.Println("pick a match with its id or #n")
}

// resolve turns "#n" into the id of the n-th listed match.
func (s *shellSession) resolve(ref string) (string, error) {
	if !strings.HasPrefix(ref, "#") {
		return ref, nil
	}
	n, err := strconv.Atoi(ref[1:])
	if err != nil || n < 1 || n > len(s.listed) {
		return "", fmt.Errorf("no listed match %s, run 'list' first", ref)
	}
	return s.listed[n-1].MatchID, nil
}

func (s *shellSession) run(name, ref string) {
	id, err := s.resolve(ref)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if name == "palette" {
		m, err := s.app.lookupMatch(s.ctx, id)
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		report.PrintPalette(os.Stdout, m, s.app.resolver.Pick(s.ctx, m.HomeName, m.AwayName, m.HomeID, m.AwayID))
		return
	}

	r, err := s.app.svc.Load(s.ctx, id)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintMatchHeader(os.Stdout, r.Match, r.Score)
	switch name {
	case "show":
		s.show(r)
	case "timeline":
		report.PrintTimeline(os.Stdout, aggregator.Timeline(r.Attacks))
	case "momentum":
		report.PrintMomentum(os.Stdout, r.Minutes, s.app.svc.Smoothed(r), cfg.HalftimeMinute)
	}
}

func (s *shellSession) show(r *analysis.Report) {
	report.PrintStats(os.Stdout, r.Totals, r.Distribution, aggregator.StatCategories)
	fmt.Println()
	cHeader.Println("--- top players ---")
	report.PrintTopPlayers(os.Stdout, s.app.svc.TopPlayers(r, 0))
	fmt.Println()
	report.PrintPalette(os.Stdout, r.Match, r.Palette)
}
