package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"
)

var (
	red  = RGB(255, 0, 0)
	blue = RGB(0, 0, 255)
)

func solid(c color.RGBA) func() color.RGBA {
	return func() color.RGBA { return c }
}

func TestZBufferClear(t *testing.T) {
	zb := NewZBuffer(7, 5)
	zb.Clear(ColorGray)

	for y := range 5 {
		for x := range 7 {
			if got := zb.GetPixel(x, y); got != ColorGray {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, got, ColorGray)
			}
			if d := zb.Depth(x, y); d != math.MaxFloat64 {
				t.Fatalf("depth (%d, %d) = %v, want MaxFloat64", x, y, d)
			}
			if zb.Covered(x, y) {
				t.Fatalf("pixel (%d, %d) covered after clear", x, y)
			}
		}
	}
}

func TestZBufferClosestWins(t *testing.T) {
	tests := []struct {
		name  string
		order []float64
	}{
		{"near first", []float64{2, 5}},
		{"far first", []float64{5, 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			zb := NewZBuffer(4, 4)
			for _, d := range tc.order {
				c := blue
				if d == 2 {
					c = red
				}
				zb.Update(1, 1, d, solid(c))
			}
			if got := zb.GetPixel(1, 1); got != red {
				t.Errorf("pixel = %v, want the nearer red", got)
			}
			if got := zb.Depth(1, 1); got != 2 {
				t.Errorf("depth = %v, want 2", got)
			}
		})
	}
}

func TestZBufferTieKeepsFirst(t *testing.T) {
	zb := NewZBuffer(2, 2)
	if !zb.Update(0, 0, 3, solid(red)) {
		t.Fatal("first write rejected")
	}

	called := false
	wrote := zb.Update(0, 0, 3, func() color.RGBA {
		called = true
		return blue
	})
	if wrote || called {
		t.Errorf("tie: wrote=%v shaded=%v, want neither", wrote, called)
	}
	if got := zb.GetPixel(0, 0); got != red {
		t.Errorf("pixel = %v, want first writer red", got)
	}
}

func TestZBufferOutOfBounds(t *testing.T) {
	zb := NewZBuffer(3, 3)

	for _, p := range []image.Point{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		if d := zb.Depth(p.X, p.Y); d != -math.MaxFloat64 {
			t.Errorf("Depth(%v) = %v, want -MaxFloat64", p, d)
		}
		if zb.Update(p.X, p.Y, 0, solid(red)) {
			t.Errorf("Update(%v) wrote out of bounds", p)
		}
		zb.SetPixel(p.X, p.Y, red)
		if got := zb.GetPixel(p.X, p.Y); got != (color.RGBA{}) {
			t.Errorf("GetPixel(%v) = %v, want transparent", p, got)
		}
		if zb.Covered(p.X, p.Y) {
			t.Errorf("Covered(%v) = true", p)
		}
	}
}

func TestZBufferResize(t *testing.T) {
	zb := NewZBuffer(4, 4)
	zb.Resize(8, 2)
	zb.Clear(ColorWhite)

	if zb.Width != 8 || zb.Height != 2 || len(zb.Cells) != 16 {
		t.Fatalf("Resize: %dx%d with %d cells", zb.Width, zb.Height, len(zb.Cells))
	}
	if got := zb.GetPixel(7, 1); got != ColorWhite {
		t.Errorf("corner pixel = %v, want white", got)
	}

	zb.Resize(-3, 5)
	if zb.Width != 0 || len(zb.Cells) != 0 {
		t.Errorf("negative width: %dx%d with %d cells", zb.Width, zb.Height, len(zb.Cells))
	}
	zb.Clear(ColorWhite)
}

func TestZBufferImage(t *testing.T) {
	zb := NewZBuffer(3, 2)
	zb.SetPixel(2, 1, red)

	var _ draw.Image = zb
	if b := zb.Bounds(); b != image.Rect(0, 0, 3, 2) {
		t.Errorf("Bounds() = %v", b)
	}

	zb.Set(0, 0, color.NRGBA{0, 0, 255, 255})
	if got := zb.GetPixel(0, 0); got != blue {
		t.Errorf("Set via color.Color = %v, want %v", got, blue)
	}

	img := zb.ToImage()
	if got := img.RGBAAt(2, 1); got != red {
		t.Errorf("ToImage pixel = %v, want %v", got, red)
	}
	if got := img.RGBAAt(1, 1); got != ColorBlack {
		t.Errorf("ToImage background = %v, want black", got)
	}
}

func BenchmarkZBufferClear(b *testing.B) {
	zb := NewZBuffer(640, 480)
	for b.Loop() {
		zb.Clear(ColorBlack)
	}
}
