// Package colors picks a pair of distinguishable display colors for the two
// teams of a match.
//
// Authoritative pairs come from a reference table keyed by FIFA abbreviation
// or team name. Teams missing from it get a palette synthesized from a stable
// hash of their name. The final pair is always at least Threshold apart in
// CIE76 ΔE.
package colors

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pable/go-futsal-metrics/internal/model"
)

// Defaults for the tunable resolver parameters.
const (
	DefaultThreshold = 20.0
	DefaultDarken    = 0.25

	// maxThreshold is the largest separation the black/white fallback can
	// always deliver: one of them is at least 50 L* units from any color.
	maxThreshold = 50.0

	extraSteps = 3
)

// Pair is a team's home and away shade.
type Pair struct {
	Home string
	Away string
}

// Source is the reference table of authoritative team colors.
type Source interface {
	// LookupPalette tries abbr first, then name. ok is false on a miss.
	LookupPalette(ctx context.Context, abbr, name string) (model.TeamColors, bool, error)
}

// AbbreviationSource resolves a team id to its FIFA abbreviation ("ARG").
type AbbreviationSource interface {
	Abbreviation(ctx context.Context, teamID string) (string, bool, error)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithThreshold sets the ΔE76 distance under which two colors clash.
// Values outside (0, 50] are ignored.
func WithThreshold(deltaE float64) Option {
	return func(r *Resolver) {
		if deltaE > 0 && deltaE <= maxThreshold {
			r.threshold = deltaE
		}
	}
}

// WithDarken sets the darkening fraction used for away shades, in (0, 1).
func WithDarken(by float64) Option {
	return func(r *Resolver) {
		if by > 0 && by < 1 {
			r.darken = by
		}
	}
}

// WithAbbreviations enables abbreviation lookups by team id.
func WithAbbreviations(src AbbreviationSource) Option {
	return func(r *Resolver) {
		r.abbrs = src
	}
}

// Resolver chooses match palettes. It is safe for concurrent use if its
// sources are.
type Resolver struct {
	source    Source
	abbrs     AbbreviationSource
	threshold float64
	darken    float64
}

// NewResolver returns a Resolver backed by src. src may be nil, in which case
// every team gets a synthesized palette.
func NewResolver(src Source, opts ...Option) *Resolver {
	r := &Resolver{
		source:    src,
		threshold: DefaultThreshold,
		darken:    DefaultDarken,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Threshold reports the configured clash distance.
func (r *Resolver) Threshold() float64 { return r.threshold }

// Pick returns the palette for a match. homeID and awayID may be empty.
//
// Rule: home team's home shade against away team's away shade; on a clash
// use the away team's home shade; if that still clashes darken it; if it
// clashes even then, search further until the pair is separated.
func (r *Resolver) Pick(ctx context.Context, homeName, awayName, homeID, awayID string) model.Palette {
	ph := r.teamPair(ctx, homeName, homeID)
	pa := r.teamPair(ctx, awayName, awayID)

	cHome, cAway := ph.Home, pa.Away
	if r.Similar(cHome, cAway) {
		cAway = pa.Home
	}
	if r.Similar(cHome, cAway) {
		cAway = Darken(cAway, r.darken)
	}
	if r.Similar(cHome, cAway) {
		cAway = r.separate(cHome, cAway)
	}
	return model.Palette{HomeColor: cHome, AwayColor: cAway}
}

// Similar reports whether two colors clash. Unparseable colors clash only
// when they are the same string, ignoring case.
func (r *Resolver) Similar(a, b string) bool {
	d, err := DeltaE76(a, b)
	if err != nil {
		return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
	}
	return d < r.threshold
}

// teamPair resolves the authoritative pair of a team or synthesizes one.
func (r *Resolver) teamPair(ctx context.Context, name, teamID string) Pair {
	if r.source != nil {
		abbr := r.abbreviation(ctx, teamID)
		tc, ok, err := r.source.LookupPalette(ctx, abbr, name)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("team", name).Msg("team color lookup failed, using fallback")
		case ok:
			return Pair{Home: tc.HomeColor, Away: tc.AwayColor}
		}
	}
	return FallbackPair(name, r.darken)
}

func (r *Resolver) abbreviation(ctx context.Context, teamID string) string {
	if r.abbrs == nil || teamID == "" {
		return ""
	}
	abbr, ok, err := r.abbrs.Abbreviation(ctx, teamID)
	if err != nil {
		log.Warn().Err(err).Str("team_id", teamID).Msg("abbreviation lookup failed")
		return ""
	}
	if !ok {
		return ""
	}
	return abbr
}

// separate walks a fixed candidate list and returns the first color that does
// not clash with home. The list ends with black or white, whichever is
// farther from home, which is always at least maxThreshold away.
func (r *Resolver) separate(home, away string) string {
	candidates := make([]string, 0, 2*extraSteps+2)
	c := away
	for i := 0; i < extraSteps; i++ {
		c = Darken(c, r.darken)
		candidates = append(candidates, c)
	}
	c = away
	for i := 0; i < extraSteps; i++ {
		c = Shade(c, r.darken)
		candidates = append(candidates, c)
	}
	if hc, err := ParseHex(home); err == nil {
		h, s, v := hc.Hsv()
		candidates = append(candidates, FormatHex(colorfulHsv(h+180, s, v)))
	}
	for _, cand := range candidates {
		if !r.Similar(home, cand) {
			return cand
		}
	}
	return farthestExtreme(home)
}

func farthestExtreme(home string) string {
	const black, white = "#000000", "#FFFFFF"
	dBlack, errB := DeltaE76(home, black)
	dWhite, errW := DeltaE76(home, white)
	if errB != nil || errW != nil {
		if strings.EqualFold(strings.TrimSpace(home), black) {
			return white
		}
		return black
	}
	if dBlack >= dWhite {
		return black
	}
	return white
}
