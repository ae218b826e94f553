package render

import (
	"image/color"
	"math"
	"testing"

	"github.com/taigrr/byuview/pkg/math3d"
)

// testLight has distinct ambient, diffuse and specular contributions of
// 10, 20 and 20 per channel at full strength.
func testLight(pos math3d.Vec3) *Light {
	return &Light{
		Position:  pos,
		KA:        0.1,
		Ambient:   math3d.V3(100, 100, 100),
		KD:        math3d.V3(0.5, 0.5, 0.5),
		OD:        math3d.V3(0.4, 0.4, 0.4),
		KS:        0.2,
		Intensity: math3d.V3(100, 100, 100),
		Shininess: 4,
	}
}

func gray(v uint8) color.RGBA { return RGB(v, v, v) }

func TestShadeNoLight(t *testing.T) {
	got := Shade(math3d.Zero3(), math3d.V3(0, 0, -1), math3d.V3(0, 0, -10), nil)
	if got != ColorBlack {
		t.Errorf("Shade without light = %v, want black", got)
	}
}

func TestShadeCases(t *testing.T) {
	p := math3d.Zero3()
	n := math3d.V3(0, 0, -1)

	tests := []struct {
		name  string
		focus math3d.Vec3
		light math3d.Vec3
		want  color.RGBA
	}{
		{
			// N·L = 1, R·V = 1: ambient + specular + diffuse.
			name:  "head on",
			focus: math3d.V3(0, 0, -10),
			light: math3d.V3(0, 0, -10),
			want:  gray(50),
		},
		{
			name:  "light behind, viewer in front",
			focus: math3d.V3(0, 0, -10),
			light: math3d.V3(0, 0, 10),
			want:  gray(10),
		},
		{
			// Both behind: the normal is flipped and the surface lit.
			name:  "light and viewer behind",
			focus: math3d.V3(0, 0, 10),
			light: math3d.V3(0, 0, 10),
			want:  gray(50),
		},
		{
			// Reflection points away from the viewer, so no specular:
			// 10 + 20·cos45°.
			name:  "specular suppressed",
			focus: math3d.V3(10, 0, -0.1),
			light: math3d.V3(10, 0, -10),
			want:  gray(24),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Shade(p, n, tc.focus, testLight(tc.light))
			if got != tc.want {
				t.Errorf("Shade() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestShadeSpecularFalloff(t *testing.T) {
	// Light and viewer mirrored about the normal: R == V.
	l := testLight(math3d.V3(-3, 0, -4))
	got := Shade(math3d.Zero3(), math3d.V3(0, 0, -1), math3d.V3(3, 0, -4), l)

	// 10 + 20·1 + 20·0.8
	if got != gray(46) {
		t.Errorf("mirrored Shade() = %v, want %v", got, gray(46))
	}

	// Moving the viewer off the mirror direction only loses specular.
	off := Shade(math3d.Zero3(), math3d.V3(0, 0, -1), math3d.V3(0, 0, -4), l)
	if off.R >= got.R || off.R < 26 {
		t.Errorf("off-mirror Shade() = %v, want between diffuse-only and mirrored", off)
	}
}

func TestShadeUnnormalizedNormal(t *testing.T) {
	l := testLight(math3d.V3(0, 0, -10))
	a := Shade(math3d.Zero3(), math3d.V3(0, 0, -1), math3d.V3(0, 0, -10), l)
	b := Shade(math3d.Zero3(), math3d.V3(0, 0, -7), math3d.V3(0, 0, -10), l)
	if a != b {
		t.Errorf("normal length changed shading: %v vs %v", a, b)
	}
}

func TestShadeClamps(t *testing.T) {
	l := testLight(math3d.V3(0, 0, -10))
	l.Ambient = math3d.V3(5000, 0, -5000)
	got := Shade(math3d.Zero3(), math3d.V3(0, 0, -1), math3d.V3(0, 0, -10), l)

	// 500+40, 0+40, -500+40
	if got != RGB(255, 40, 0) {
		t.Errorf("Shade() = %v, want (255, 40, 0)", got)
	}
}

func TestChannel(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{0, 0},
		{0.49, 0},
		{0.5, 1},
		{127.5, 128},
		{254.6, 255},
		{300, 255},
		{-4, 0},
		{math.NaN(), 0},
		{math.Inf(1), 255},
	}
	for _, tc := range tests {
		if got := channel(tc.in); got != tc.want {
			t.Errorf("channel(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func BenchmarkShade(b *testing.B) {
	l := DefaultLight(math3d.V3(5, 5, -5))
	p := math3d.V3(0.1, 0.2, 0.3)
	n := math3d.V3(0.2, 0.1, -1).Normalize()
	focus := math3d.V3(0, 0, -10)
	for b.Loop() {
		Shade(p, n, focus, l)
	}
}
