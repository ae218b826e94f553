// Package render implements the byuview software rendering pipeline:
// camera projection, line and scanline rasterization, Z-buffered depth
// resolution and Phong shading.
package render

import (
	"image"
	"image/color"
	"math"
)

// Cell is the per-pixel state of a ZBuffer.
type Cell struct {
	Color color.RGBA
	Depth float64 // distance from the camera focus; math.MaxFloat64 when empty
}

// ZBuffer is a width×height grid of depth and color cells, stored row-major.
// Its color plane is the rendered image.
//
// ZBuffer implements draw.Image (color plane only), so it can be drawn
// onto directly.
type ZBuffer struct {
	Width  int
	Height int
	Cells  []Cell
}

// NewZBuffer creates a Z-buffer cleared to black.
func NewZBuffer(width, height int) *ZBuffer {
	z := &ZBuffer{}
	z.Resize(width, height)
	z.Clear(ColorBlack)
	return z
}

// Resize reallocates the buffer when the dimensions change. The contents
// are undefined until the next Clear.
func (z *ZBuffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width == z.Width && height == z.Height && z.Cells != nil {
		return
	}
	z.Width = width
	z.Height = height
	z.Cells = make([]Cell, width*height)
}

// Clear resets every cell to the background color and maximal depth.
func (z *ZBuffer) Clear(bg color.RGBA) {
	// Use copy-doubling for faster clearing
	n := len(z.Cells)
	if n == 0 {
		return
	}
	z.Cells[0] = Cell{Color: bg, Depth: math.MaxFloat64}
	for i := 1; i < n; i *= 2 {
		copy(z.Cells[i:], z.Cells[:i])
	}
}

func (z *ZBuffer) inBounds(x, y int) bool {
	return x >= 0 && x < z.Width && y >= 0 && y < z.Height
}

// Depth returns the stored depth at (x, y). Out-of-bounds reads return
// -math.MaxFloat64, which no candidate depth can beat.
func (z *ZBuffer) Depth(x, y int) float64 {
	if !z.inBounds(x, y) {
		return -math.MaxFloat64
	}
	return z.Cells[y*z.Width+x].Depth
}

// Covered reports whether any surface has been written at (x, y).
func (z *ZBuffer) Covered(x, y int) bool {
	return z.inBounds(x, y) && z.Cells[y*z.Width+x].Depth != math.MaxFloat64
}

// Update stores depth at (x, y) if it is strictly closer than the current
// value, coloring the cell with shade(). shade is only called when the
// candidate wins. Ties keep the first writer. Returns whether the cell changed.
func (z *ZBuffer) Update(x, y int, depth float64, shade func() color.RGBA) bool {
	if !(depth < z.Depth(x, y)) {
		return false
	}
	c := &z.Cells[y*z.Width+x]
	c.Depth = depth
	c.Color = shade()
	return true
}

// SetPixel sets the color at (x, y) without touching depth.
// Bounds checking is performed.
func (z *ZBuffer) SetPixel(x, y int, c color.RGBA) {
	if !z.inBounds(x, y) {
		return
	}
	z.Cells[y*z.Width+x].Color = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (z *ZBuffer) GetPixel(x, y int) color.RGBA {
	if !z.inBounds(x, y) {
		return color.RGBA{}
	}
	return z.Cells[y*z.Width+x].Color
}

// ColorModel implements image.Image.
func (z *ZBuffer) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (z *ZBuffer) Bounds() image.Rectangle { return image.Rect(0, 0, z.Width, z.Height) }

// At implements image.Image.
func (z *ZBuffer) At(x, y int) color.Color { return z.GetPixel(x, y) }

// Set implements draw.Image.
func (z *ZBuffer) Set(x, y int, c color.Color) {
	z.SetPixel(x, y, color.RGBAModel.Convert(c).(color.RGBA))
}

// ToImage converts the color plane to a standard Go image.RGBA.
func (z *ZBuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(z.Bounds())
	for y := 0; y < z.Height; y++ {
		for x := 0; x < z.Width; x++ {
			img.SetRGBA(x, y, z.Cells[y*z.Width+x].Color)
		}
	}
	return img
}
