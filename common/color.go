package common

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a linear RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Hex builds an opaque Color from a 0xRRGGBB value.
//
// Parameters:
//   - hex: the packed 24-bit color
//
// Returns:
//   - Color: the opaque color
func Hex(hex uint32) Color {
	return Color{
		R: float32((hex>>16)&0xff) / 255,
		G: float32((hex>>8)&0xff) / 255,
		B: float32(hex&0xff) / 255,
		A: 1,
	}
}

// ParseColor parses "#rrggbb", "0xrrggbb", "rrggbb" or the 8 digit variants carrying alpha.
//
// Parameters:
//   - s: the color string
//
// Returns:
//   - Color: the parsed color
//   - error: error if the string is not a hex color
func ParseColor(s string) (Color, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, "#")
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "0X")
	if len(raw) != 6 && len(raw) != 8 {
		return Color{}, fmt.Errorf("invalid color %q: expected 6 or 8 hex digits", s)
	}
	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(raw) == 6 {
		return Hex(uint32(v)), nil
	}
	c := Hex(uint32(v >> 8))
	c.A = float32(v&0xff) / 255
	return c, nil
}

// RGB returns the color without alpha.
func (c Color) RGB() [3]float32 {
	return [3]float32{c.R, c.G, c.B}
}

// Scale multiplies the RGB components by k, leaving alpha untouched.
func (c Color) Scale(k float32) Color {
	return Color{R: c.R * k, G: c.G * k, B: c.B * k, A: c.A}
}

// Hex returns the color packed as 0xRRGGBB.
func (c Color) Hex() uint32 {
	to8 := func(f float32) uint32 {
		if f <= 0 {
			return 0
		}
		if f >= 1 {
			return 255
		}
		return uint32(f*255 + 0.5)
	}
	return to8(c.R)<<16 | to8(c.G)<<8 | to8(c.B)
}

func (c Color) String() string {
	return fmt.Sprintf("#%06x", c.Hex())
}

// UnmarshalText lets colors be written as hex strings in YAML and TOML stage files.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText writes the color back as "#rrggbb".
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
