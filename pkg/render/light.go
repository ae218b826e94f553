package render

import "github.com/taigrr/byuview/pkg/math3d"

// Light is a single point light together with the Phong material
// coefficients it is evaluated with. Color triples are in 0..255 units.
type Light struct {
	Position  math3d.Vec3 // Pl
	KA        float64     // ambient reflection coefficient
	Ambient   math3d.Vec3 // Ia, ambient intensity per channel
	KD        math3d.Vec3 // diffuse coefficient per channel
	OD        math3d.Vec3 // diffuse reflectance per channel
	KS        float64     // specular coefficient
	Intensity math3d.Vec3 // Il, light source intensity per channel
	Shininess float64     // n, specular exponent
}

// DefaultLight returns a white light at pos with moderate coefficients.
func DefaultLight(pos math3d.Vec3) *Light {
	return &Light{
		Position:  pos,
		KA:        0.2,
		Ambient:   math3d.V3(255, 255, 255),
		KD:        math3d.V3(0.7, 0.7, 0.7),
		OD:        math3d.V3(0.8, 0.8, 0.8),
		KS:        0.5,
		Intensity: math3d.V3(255, 255, 255),
		Shininess: 8,
	}
}
