// Package palette generates item colors from a perceptually spread hue
// space and converts them for rendering.
package palette

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Fixed saturation and lightness for every generated color; only the hue
// varies.
const (
	Saturation = 0.70
	Lightness  = 0.80
)

// Random returns an "hsl(H, 70%, 80%)" color with H drawn uniformly from
// [0, 360). A nil r uses the global source.
func Random(r *rand.Rand) string {
	var h int
	if r == nil {
		h = rand.IntN(360)
	} else {
		h = r.IntN(360)
	}
	return HSL(float64(h))
}

// HSL formats a hue at the palette's saturation and lightness.
func HSL(hue float64) string {
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", int(hue), int(Saturation*100), int(Lightness*100))
}

var hslPattern = regexp.MustCompile(`^\s*hsl\(\s*(-?[\d.]+)\s*,\s*([\d.]+)%\s*,\s*([\d.]+)%\s*\)\s*$`)

// Parse converts a CSS color ("hsl(...)" or "#rrggbb") to a colorful.Color.
func Parse(css string) (colorful.Color, error) {
	if m := hslPattern.FindStringSubmatch(css); m != nil {
		h, _ := strconv.ParseFloat(m[1], 64)
		s, _ := strconv.ParseFloat(m[2], 64)
		l, _ := strconv.ParseFloat(m[3], 64)
		return colorful.Hsl(h, s/100, l/100), nil
	}
	c, err := colorful.Hex(css)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("parsing color %q: %w", css, err)
	}
	return c, nil
}

// Hex converts a CSS color to "#rrggbb". Unparseable input yields fallback.
func Hex(css, fallback string) string {
	c, err := Parse(css)
	if err != nil {
		return fallback
	}
	return c.Clamped().Hex()
}

// Hue returns the hue in degrees of a CSS color.
func Hue(css string) (float64, error) {
	c, err := Parse(css)
	if err != nil {
		return 0, err
	}
	h, _, _ := c.Hsl()
	return h, nil
}
