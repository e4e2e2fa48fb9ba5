// Package frontend implements the windowed host of the emulator. It maps the
// host keyboard to the CHIP-8 keypad, paces the machine with the elapsed
// wall-clock time and scales the display into a window.
package frontend

import (
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/display"
)

// FrameSize is the size in bytes of an RGBA frame of the display.
const FrameSize = display.Width * display.Height * 4

// RenderFrame converts the display surface to RGBA pixels using the
// palette. dst has to be FrameSize bytes long.
func RenderFrame(dst []byte, surface *display.Surface, palette config.Palette) {
	fg := palette.Foreground
	bg := palette.Background

	i := 0
	for y := range display.Height {
		for x := range display.Width {
			c := bg
			if surface.Pixel(x, y) {
				c = fg
			}
			dst[i] = c.R
			dst[i+1] = c.G
			dst[i+2] = c.B
			dst[i+3] = c.A
			i += 4
		}
	}
}
