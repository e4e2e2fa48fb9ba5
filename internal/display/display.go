// Package display provides the packed 1-bit-per-pixel CHIP-8 display surface.
package display

// Display dimensions in pixels.
const (
	Width  = 64
	Height = 32

	// RowSize is the number of bytes that store one row of pixels.
	RowSize = Width / 8
)

// Surface is a monochrome 64x32 pixel grid packed 8 pixels per byte.
// Pixel x of row y is stored in byte x/8 at bit x%8.
// Coordinates are not wrapped, callers must pass values inside the grid.
type Surface [Height][RowSize]byte

// Pixel returns whether the pixel at the given coordinates is lit.
func (s *Surface) Pixel(x, y int) bool {
	return (s[y][x/8]>>(x%8))&1 != 0
}

// SetPixel sets or clears the pixel at the given coordinates.
func (s *Surface) SetPixel(x, y int, on bool) {
	mask := byte(1) << (x % 8)
	if on {
		s[y][x/8] |= mask
	} else {
		s[y][x/8] &^= mask
	}
}

// Clear turns all pixels off.
func (s *Surface) Clear() {
	*s = Surface{}
}

// LitPixels returns the number of lit pixels.
func (s *Surface) LitPixels() int {
	count := 0
	for y := range Height {
		for x := range Width {
			if s.Pixel(x, y) {
				count++
			}
		}
	}
	return count
}
