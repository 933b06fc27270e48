package barrage

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColor parses a CSS-like color string.
//
// Supported forms:
//   - names from the SVG 1.1 set ("white", "orangered") and "transparent"
//   - "#rgb", "#rgba", "#rrggbb", "#rrggbbaa"
//   - "rgb(r, g, b)", "rgba(r, g, b, a)" with 0-255 channels and alpha in [0, 1]
//   - "hsl(h, s%, l%)", "hsla(h, s%, l%, a)"
//
// The result is a non-premultiplied color.NRGBA.
func ParseColor(s string) (color.NRGBA, error) {
	str := strings.ToLower(strings.TrimSpace(s))
	switch {
	case str == "":
		return color.NRGBA{}, fmt.Errorf("%w: empty", ErrInvalidColor)
	case str == "transparent":
		return color.NRGBA{}, nil
	case strings.HasPrefix(str, "#"):
		return parseHexColor(str, s)
	case strings.HasPrefix(str, "rgb"):
		return parseFuncColor(str, s, "rgb")
	case strings.HasPrefix(str, "hsl"):
		return parseFuncColor(str, s, "hsl")
	}

	if c, ok := colornames.Map[str]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

func parseHexColor(str, orig string) (color.NRGBA, error) {
	alpha := uint8(255)
	hex := str
	switch len(str) {
	case 5: // #rgba
		a, err := strconv.ParseUint(str[4:5], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, orig)
		}
		alpha = uint8(a * 17)
		hex = str[:4]
	case 9: // #rrggbbaa
		a, err := strconv.ParseUint(str[7:9], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, orig)
		}
		alpha = uint8(a)
		hex = str[:7]
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, orig)
	}
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// parseFuncColor handles rgb(), rgba(), hsl() and hsla().
func parseFuncColor(str, orig, fn string) (color.NRGBA, error) {
	open := strings.IndexByte(str, '(')
	if open < 0 || !strings.HasSuffix(str, ")") {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, orig)
	}
	name := str[:open]
	if name != fn && name != fn+"a" {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, orig)
	}

	parts := strings.Split(str[open+1:len(str)-1], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, orig)
	}
	vals := make([]float64, len(parts))
	for i, p := range parts {
		p = strings.TrimSuffix(strings.TrimSpace(p), "%")
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || math.IsNaN(v) {
			return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, orig)
		}
		vals[i] = v
	}

	alpha := 1.0
	if len(vals) == 4 {
		alpha = clampUnit(vals[3])
	}

	var c colorful.Color
	if fn == "rgb" {
		c = colorful.Color{R: vals[0] / 255, G: vals[1] / 255, B: vals[2] / 255}
	} else {
		c = colorful.Hsl(vals[0], clampUnit(vals[1]/100), clampUnit(vals[2]/100))
	}
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha*255 + 0.5)}, nil
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
