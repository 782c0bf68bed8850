package palette

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RGBA is a color with each component normalized to [0,1].
type RGBA struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Gray is the fallback color substituted for malformed hex values.
var Gray = RGBA{R: 128.0 / 255.0, G: 128.0 / 255.0, B: 128.0 / 255.0, A: 1}

// Distance returns the Euclidean distance between c and o over the red,
// green and blue components. Alpha is ignored.
func (c RGBA) Distance(o RGBA) float64 {
	dr := c.R - o.R
	dg := c.G - o.G
	db := c.B - o.B
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// Bytes returns the color as 8-bit channels, rounded and clamped.
func (c RGBA) Bytes() (r, g, b, a uint8) {
	return toByte(c.R), toByte(c.G), toByte(c.B), toByte(c.A)
}

// Hex returns the color as a lowercase #rrggbb string.
func (c RGBA) Hex() string {
	r, g, b, _ := c.Bytes()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func (c RGBA) String() string {
	return fmt.Sprintf("rgba(%.3f, %.3f, %.3f, %.3f)", c.R, c.G, c.B, c.A)
}

func toByte(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}

// ParseHex parses a 6-digit hex color with an optional leading '#'.
// Surrounding whitespace is ignored and digits are case-insensitive.
func ParseHex(hex string) (RGBA, error) {
	s := strings.ToUpper(strings.TrimSpace(hex))
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGBA{}, fmt.Errorf("%w: %q", ErrInvalidHex, hex)
	}
	return RGBA{
		R: float64((v&0xFF0000)>>16) / 255.0,
		G: float64((v&0x00FF00)>>8) / 255.0,
		B: float64(v&0x0000FF) / 255.0,
		A: 1,
	}, nil
}

// HexToRGBA is like ParseHex but returns Gray for malformed input.
func HexToRGBA(hex string) RGBA {
	c, err := ParseHex(hex)
	if err != nil {
		return Gray
	}
	return c
}

// ParseColor accepts either a hex color or comma-separated "r,g,b[,a]"
// components in [0,1]. Alpha defaults to 1.
func ParseColor(s string) (RGBA, error) {
	if !strings.Contains(s, ",") {
		return ParseHex(s)
	}
	parts := strings.Split(s, ",")
	if len(parts) < 3 || len(parts) > 4 {
		return RGBA{}, fmt.Errorf("%w: want r,g,b[,a], got %q", ErrInvalidColor, s)
	}
	v := [4]float64{3: 1}
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || f < 0 || f > 1 || math.IsNaN(f) {
			return RGBA{}, fmt.Errorf("%w: component %q not in [0,1]", ErrInvalidColor, part)
		}
		v[i] = f
	}
	return RGBA{R: v[0], G: v[1], B: v[2], A: v[3]}, nil
}
