// Package scene ties a mesh to the camera and light it is rendered with,
// and loads all three from disk.
package scene

import (
	"github.com/taigrr/byuview/pkg/math3d"
	"github.com/taigrr/byuview/pkg/models"
	"github.com/taigrr/byuview/pkg/render"
)

// Scene holds one mesh, at most one camera and at most one light.
// It implements render.Scene.
type Scene struct {
	Mesh *models.Mesh

	camera *render.Camera
	light  *render.Light
}

var _ render.Scene = (*Scene)(nil)

// New creates a scene around mesh with no camera or light.
func New(mesh *models.Mesh) *Scene {
	return &Scene{Mesh: mesh}
}

// Geometry returns the mesh, or nil when the scene has none.
func (s *Scene) Geometry() render.MeshRenderer {
	if s.Mesh == nil {
		return nil
	}
	return s.Mesh
}

// Camera returns the scene camera, or nil.
func (s *Scene) Camera() *render.Camera { return s.camera }

// Light returns the scene light, or nil.
func (s *Scene) Light() *render.Light { return s.light }

// SetCamera replaces the camera. Pass nil to remove it.
func (s *Scene) SetCamera(c *render.Camera) { s.camera = c }

// SetLight replaces the light. Pass nil to remove it.
func (s *Scene) SetLight(l *render.Light) { s.light = l }

// framing is how far from the mesh center DefaultCamera stands, in units of
// the mesh's bounding radius.
const framing = 2.5

// bounds returns the center and bounding radius of mesh, or the unit
// sphere at the origin for an empty mesh.
func bounds(mesh *models.Mesh) (center math3d.Vec3, radius float64) {
	if mesh == nil || mesh.VertexCount() == 0 {
		return math3d.Zero3(), 1
	}
	return mesh.Center(), max(mesh.Size().Len()/2, 1e-6)
}

// DefaultCamera returns a camera looking down +Z at the center of mesh,
// far enough back that the whole bounding sphere fits in view. aspect is
// the output width over height; the window is widened or heightened to
// match so pixels stay square.
func DefaultCamera(mesh *models.Mesh, aspect float64) (*render.Camera, error) {
	center, radius := bounds(mesh)

	hx, hy := 0.5, 0.5
	switch {
	case aspect > 1:
		hx *= aspect
	case aspect > 0 && aspect < 1:
		hy /= aspect
	}

	eye := center.Sub(math3d.V3(0, 0, framing*radius))
	return render.LookAt(eye, center, math3d.Up(), 1, hx, hy)
}

// DefaultLight returns a white light above and to the right of the
// default camera.
func DefaultLight(mesh *models.Mesh) *render.Light {
	center, radius := bounds(mesh)
	return render.DefaultLight(center.Add(math3d.V3(radius, 2*radius, -3*radius)))
}
