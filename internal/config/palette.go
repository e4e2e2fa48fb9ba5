package config

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

var errInvalidColor = errors.New("invalid color")

// Palette defines the two display colors.
type Palette struct {
	Foreground color.RGBA // lit pixels
	Background color.RGBA // unlit pixels
}

// DefaultPalette draws white pixels on a dark gray background.
var DefaultPalette = Palette{
	Foreground: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	Background: color.RGBA{R: 0x23, G: 0x23, B: 0x23, A: 0xff},
}

// NewPalette parses the foreground and background colors.
func NewPalette(foreground, background string) (Palette, error) {
	fg, err := ParseColor(foreground)
	if err != nil {
		return Palette{}, fmt.Errorf("parsing foreground color: %w", err)
	}
	bg, err := ParseColor(background)
	if err != nil {
		return Palette{}, fmt.Errorf("parsing background color: %w", err)
	}
	return Palette{Foreground: fg, Background: bg}, nil
}

// ParseColor parses an opaque color in #rrggbb notation, the leading #
// is optional.
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("%w '%s': expected #rrggbb", errInvalidColor, s)
	}

	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w '%s': %w", errInvalidColor, s, err)
	}

	return color.RGBA{
		R: uint8(value >> 16),
		G: uint8(value >> 8),
		B: uint8(value),
		A: 0xff,
	}, nil
}
