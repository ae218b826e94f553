package render

import (
	"image/color"
	"math"

	"github.com/taigrr/byuview/pkg/math3d"
)

// Shade evaluates the Phong model at surface point p with normal n seen
// from focus. A nil light shades everything black.
//
// When the light is behind the surface the normal is flipped if the viewer
// is behind it too; otherwise only ambient light applies. Specular light is
// dropped when the reflection points away from the viewer.
func Shade(p, n, focus math3d.Vec3, light *Light) color.RGBA {
	if light == nil {
		return ColorBlack
	}

	n = n.Normalize()
	v := focus.Sub(p).Normalize()
	l := light.Position.Sub(p).Normalize()

	diffuse, specular := true, true
	nl := n.Dot(l)
	if nl < 0 {
		if v.Dot(n) < 0 {
			n = n.Negate()
			nl = -nl
		} else {
			diffuse, specular = false, false
		}
	}

	// R = 2(N·L)N - L
	r := l.Reflect(n).Negate().Normalize()
	rv := r.Dot(v)
	if rv < 0 {
		specular = false
	}

	total := light.Ambient.Scale(light.KA)
	if specular {
		total = total.Add(light.Intensity.Scale(light.KS * math.Pow(rv, light.Shininess)))
	}
	if diffuse {
		total = total.Add(light.KD.Mul(light.OD).Mul(light.Intensity).Scale(nl))
	}

	return color.RGBA{
		R: channel(total.X),
		G: channel(total.Y),
		B: channel(total.Z),
		A: 255,
	}
}

// channel rounds half up and clamps to 0..255.
func channel(v float64) uint8 {
	v = math.Floor(v + 0.5)
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
