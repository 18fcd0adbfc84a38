// Package matchlist orders and labels the season calendar for the match selector.
package matchlist

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pable/go-futsal-metrics/internal/model"
)

const (
	noGroupRank = 99
	otherStage  = 700
)

var groupLetter = regexp.MustCompile(`(?i)group\s+([a-z])`)

// stageRanks is checked in order; the first matching pattern wins.
var stageRanks = []struct {
	re   *regexp.Regexp
	rank int
}{
	{regexp.MustCompile(`round\s*of\s*16|sixteen`), 200},
	{regexp.MustCompile(`quarter-?final`), 300},
	{regexp.MustCompile(`semi-?final`), 400},
	{regexp.MustCompile(`third|3rd`), 500},
	{regexp.MustCompile(`final`), 600},
}

// GroupRank maps "Group A".."Group Z" to 1..26; anything else ranks 99.
func GroupRank(name string) int {
	m := groupLetter.FindStringSubmatch(name)
	if m == nil {
		return noGroupRank
	}
	return int(strings.ToUpper(m[1])[0]-'A') + 1
}

// StageOrder ranks knockout stages chronologically. Group stages and unknown
// names share the last slot.
func StageOrder(stage string) int {
	s := strings.ToLower(stage)
	for _, sr := range stageRanks {
		if sr.re.MatchString(s) {
			return sr.rank
		}
	}
	return otherStage
}

// Sort orders matches in place: group matches first by group letter, then
// knockout stages in order, dated before undated, by kickoff, then by name.
// Equal keys keep their input order.
func Sort(matches []model.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		ga, gb := GroupRank(a.GroupName), GroupRank(b.GroupName)
		if inA, inB := ga != noGroupRank, gb != noGroupRank; inA != inB {
			return inA
		}
		if ga != gb {
			return ga < gb
		}
		if sa, sb := StageOrder(a.StageName), StageOrder(b.StageName); sa != sb {
			return sa < sb
		}
		if da, db := !a.Kickoff.IsZero(), !b.Kickoff.IsZero(); da != db {
			return da
		}
		if !a.Kickoff.Equal(b.Kickoff) {
			return a.Kickoff.Before(b.Kickoff)
		}
		return a.Name() < b.Name()
	})
}

// Label is the selector text of one match.
func Label(m model.Match) string {
	return strings.Join([]string{m.StageName, m.GroupName, m.Name(), m.KickoffDate()}, " | ")
}

// Labels returns one unique label per match in the given order. A repeated
// label takes the first free " (2)", " (3)" ... suffix.
func Labels(matches []model.Match) []string {
	taken := make(map[string]bool, len(matches))
	out := make([]string, len(matches))
	for i, m := range matches {
		l := Label(m)
		if taken[l] {
			for n := 2; ; n++ {
				cand := fmt.Sprintf("%s (%d)", l, n)
				if !taken[cand] {
					l = cand
					break
				}
			}
		}
		taken[l] = true
		out[i] = l
	}
	return out
}
