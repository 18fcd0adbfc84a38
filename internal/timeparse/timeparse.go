// Package timeparse converts the match-clock encodings found in the FIFA
// timeline feed into seconds.
package timeparse

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MaxSeconds bounds every parsed clock value. Feeds never carry a match
// longer than a day, so anything larger is noise.
const MaxSeconds = 24 * 60 * 60

var (
	isoMinutes     = regexp.MustCompile(`PT(\d+)M`)
	isoSeconds     = regexp.MustCompile(`M(\d+)S`)
	isoSecondsOnly = regexp.MustCompile(`PT(\d+)S`)
	clockSep       = regexp.MustCompile(`[:']`)
	nonDigit       = regexp.MustCompile(`\D`)
	allDigits      = regexp.MustCompile(`^\d+$`)
	digitRun       = regexp.MustCompile(`\d+`)
)

// quoteFolder folds typographic quotes to their ASCII forms.
var quoteFolder = strings.NewReplacer(
	"’", "'", // right single quotation mark
	"′", "'", // prime
	"“", `"`,
	"”", `"`,
)

// Seconds parses raw into seconds. It never fails: nil, NaN and anything it
// cannot recognize yield 0. Results are capped at MaxSeconds.
//
// Accepted forms, in order: "PT12M34S" / "PT34S", "12:34" / "12'34",
// `29"` / "29sec", "12" (minutes), then any text with one or two digit runs.
func Seconds(raw any) float64 {
	return bound(parse(raw))
}

func bound(sec float64) float64 {
	switch {
	case math.IsNaN(sec), sec < 0:
		return 0
	case sec > MaxSeconds:
		return MaxSeconds
	}
	return sec
}

func parse(raw any) float64 {
	s, ok := stringify(raw)
	if !ok {
		return 0
	}
	s = quoteFolder.Replace(strings.TrimSpace(s))

	if strings.HasPrefix(s, "PT") && strings.HasSuffix(s, "S") {
		m := isoMinutes.FindStringSubmatch(s)
		if m == nil {
			if only := isoSecondsOnly.FindStringSubmatch(s); only != nil {
				return number(only[1])
			}
			return 0
		}
		sec := 0.0
		if sm := isoSeconds.FindStringSubmatch(s); sm != nil {
			sec = number(sm[1])
		}
		return number(m[1])*60 + sec
	}

	if strings.ContainsAny(s, ":'") {
		parts := clockSep.Split(s, 2)
		minutes := number(nonDigit.ReplaceAllString(parts[0], ""))
		sec := 0.0
		if len(parts) > 1 {
			sec = number(nonDigit.ReplaceAllString(parts[1], ""))
		}
		return minutes*60 + sec
	}

	if strings.Contains(s, `"`) || strings.Contains(strings.ToLower(s), "sec") {
		return number(nonDigit.ReplaceAllString(s, ""))
	}

	if allDigits.MatchString(s) {
		return number(s) * 60
	}

	runs := digitRun.FindAllString(s, 2)
	switch len(runs) {
	case 2:
		return number(runs[0])*60 + number(runs[1])
	case 1:
		return number(runs[0]) * 60
	}
	return 0
}

// stringify renders the JSON-ish value the way the feed would have printed it.
// The second result is false for missing values.
func stringify(raw any) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	case json.Number:
		return v.String(), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", false
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return stringify(float64(v))
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return fmt.Sprint(v), true
	}
}

// number converts a digit string, "" meaning 0. Runs too long for a float64
// saturate at MaxSeconds.
func number(digits string) float64 {
	if digits == "" {
		return 0
	}
	f, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return MaxSeconds
		}
		return 0
	}
	return f
}
