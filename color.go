package present

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/colornames"
)

// Clear colours of the two variants.
var (
	ClearColorBasic    = gputypes.Color{R: 0.1, G: 0.2, B: 0.6, A: 1.0}
	ClearColorTriangle = gputypes.Color{R: 0.1, G: 0.2, B: 0.4, A: 1.0}
)

// FromColor converts a standard color.Color to a GPU clear colour.
func FromColor(c color.Color) gputypes.Color {
	r, g, b, a := c.RGBA()
	return gputypes.Color{
		R: float64(r) / 65535,
		G: float64(g) / 65535,
		B: float64(b) / 65535,
		A: float64(a) / 65535,
	}
}

// ParseColor parses an SVG 1.1 colour keyword ("cornflowerblue") or a hex
// colour in one of the forms "#rgb", "#rgba", "#rrggbb" or "#rrggbbaa".
// The leading '#' is optional for hex colours.
func ParseColor(s string) (gputypes.Color, error) {
	s = strings.TrimSpace(s)
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return FromColor(c), nil
	}

	hex := strings.TrimPrefix(s, "#")
	var r, g, b uint32
	a := uint32(255)
	var err error

	switch len(hex) {
	case 3, 4: // RGB, RGBA
		vals := make([]uint32, len(hex))
		for i := range vals {
			if vals[i], err = parseHex(hex[i : i+1]); err != nil {
				return gputypes.Color{}, fmt.Errorf("present: invalid colour %q: %w", s, err)
			}
			vals[i] *= 17
		}
		r, g, b = vals[0], vals[1], vals[2]
		if len(vals) == 4 {
			a = vals[3]
		}
	case 6, 8: // RRGGBB, RRGGBBAA
		vals := make([]uint32, len(hex)/2)
		for i := range vals {
			if vals[i], err = parseHex(hex[i*2 : i*2+2]); err != nil {
				return gputypes.Color{}, fmt.Errorf("present: invalid colour %q: %w", s, err)
			}
		}
		r, g, b = vals[0], vals[1], vals[2]
		if len(vals) == 4 {
			a = vals[3]
		}
	default:
		return gputypes.Color{}, fmt.Errorf("present: unknown colour %q", s)
	}

	return gputypes.Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}, nil
}

func parseHex(s string) (uint32, error) {
	var val uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		val *= 16
		switch {
		case '0' <= c && c <= '9':
			val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			val += uint32(c - 'A' + 10)
		default:
			return 0, fmt.Errorf("bad hex digit %q", c)
		}
	}
	return val, nil
}
