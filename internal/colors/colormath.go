package colors

import (
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Fallback palette generation constants.
const (
	fallbackSaturation = 0.65
	fallbackValue      = 0.95
)

// ParseHex parses "#RRGGBB" or "RRGGBB" (surrounding spaces allowed).
func ParseHex(s string) (colorful.Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return colorful.Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return colorful.Color{
		R: float64(v>>16&0xFF) / 255.0,
		G: float64(v>>8&0xFF) / 255.0,
		B: float64(v&0xFF) / 255.0,
	}, nil
}

// FormatHex renders c as "#RRGGBB", truncating each channel.
func FormatHex(c colorful.Color) string {
	return fmt.Sprintf("#%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int {
	n := int(v * 255)
	switch {
	case n < 0:
		return 0
	case n > 255:
		return 255
	}
	return n
}

// DeltaE76 is the Euclidean distance of two hex colors in CIE L*a*b* (D65),
// with L* on the usual 0..100 scale: black to white is 100.
func DeltaE76(a, b string) (float64, error) {
	ca, err := ParseHex(a)
	if err != nil {
		return 0, err
	}
	cb, err := ParseHex(b)
	if err != nil {
		return 0, err
	}
	// go-colorful keeps L* in 0..1.
	return ca.DistanceCIE76(cb) * 100, nil
}

// Shade scales a hex color: a positive factor moves each channel toward white
// by that fraction, a negative one scales toward black. Unparseable input is
// returned untouched.
func Shade(hex string, factor float64) string {
	c, err := ParseHex(hex)
	if err != nil {
		return hex
	}
	if factor >= 0 {
		c.R += (1 - c.R) * factor
		c.G += (1 - c.G) * factor
		c.B += (1 - c.B) * factor
	} else {
		c.R *= 1 + factor
		c.G *= 1 + factor
		c.B *= 1 + factor
	}
	return FormatHex(c)
}

// Darken is Shade with a negative factor: Darken(c, 0.25) keeps 75% of each channel.
func Darken(hex string, by float64) string {
	return Shade(hex, -by)
}

// NameHue maps a team name to a hue in [0, 360) with 32-bit FNV-1a over the
// trimmed, uppercased name, the same key the reference table is searched by.
func NameHue(name string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToUpper(strings.TrimSpace(name))))
	return float64(h.Sum32() % 360)
}

// FallbackPair synthesizes a home/away pair for a team missing from the
// reference table: the base color carries the name's hue, the away shade is
// the base darkened by darken.
func FallbackPair(name string, darken float64) Pair {
	base := FormatHex(colorful.Hsv(NameHue(name), fallbackSaturation, fallbackValue))
	return Pair{Home: base, Away: Darken(base, darken)}
}

// colorfulHsv wraps colorful.Hsv with hue wrap-around.
func colorfulHsv(h, s, v float64) colorful.Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return colorful.Hsv(h, s, v)
}
