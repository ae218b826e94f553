package main

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/byuview/pkg/math3d"
	"github.com/taigrr/byuview/pkg/render"
)

// RotationAxis tracks an angle and its angular velocity. A critically
// damped spring pulls the velocity back to zero, so a push coasts to a stop.
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

// NewRotationAxis creates an axis stepped fps times per second.
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update advances one frame.
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// Moving reports whether the axis will still change on the next Update.
func (a *RotationAxis) Moving() bool {
	return math.Abs(a.Velocity) > 1e-4 || math.Abs(a.velAccel) > 1e-4
}

// maxPitch keeps the eye off the poles, where the up hint would be
// parallel to the view direction.
const maxPitch = 1.45

// Orbit is a camera circling a fixed target point.
type Orbit struct {
	Yaw, Pitch RotationAxis

	target   math3d.Vec3
	distance float64
	fps      int

	homeYaw, homePitch, homeDistance float64
}

// NewOrbit creates an orbit around target starting at distance, looking
// down +Z.
func NewOrbit(target math3d.Vec3, distance float64, fps int) *Orbit {
	return &Orbit{
		Yaw:          NewRotationAxis(fps),
		Pitch:        NewRotationAxis(fps),
		target:       target,
		distance:     distance,
		fps:          fps,
		homeDistance: distance,
	}
}

// OrbitFromCamera creates an orbit around target whose home position is
// the focus of cam.
func OrbitFromCamera(cam *render.Camera, target math3d.Vec3, fps int) *Orbit {
	dist := cam.Focus().Distance(target)
	if dist == 0 {
		return NewOrbit(target, 1, fps)
	}
	o := NewOrbit(target, dist, fps)

	// Recover yaw and pitch from the direction target -> focus.
	off := cam.Focus().Sub(target).Scale(1 / o.distance)
	o.homePitch = clampPitch(math.Asin(max(-1, min(1, off.Y))))
	o.homeYaw = math.Atan2(-off.X, -off.Z)
	o.Reset()
	return o
}

// Push adds angular velocity in radians per frame.
func (o *Orbit) Push(yaw, pitch float64) {
	o.Yaw.Velocity += yaw
	o.Pitch.Velocity += pitch
}

// Zoom scales the orbit distance by factor, keeping it positive.
func (o *Orbit) Zoom(factor float64) {
	o.distance = max(o.distance*factor, 1e-3)
}

// Distance returns the current distance from the target.
func (o *Orbit) Distance() float64 {
	return o.distance
}

// Reset returns to the starting position and stops all motion.
func (o *Orbit) Reset() {
	o.Yaw = NewRotationAxis(o.fps)
	o.Pitch = NewRotationAxis(o.fps)
	o.Yaw.Position = o.homeYaw
	o.Pitch.Position = o.homePitch
	o.distance = o.homeDistance
}

// Update advances the springs one frame. It reports whether the view
// changed.
func (o *Orbit) Update() bool {
	moving := o.Yaw.Moving() || o.Pitch.Moving()
	o.Yaw.Update()
	o.Pitch.Update()
	if p := clampPitch(o.Pitch.Position); p != o.Pitch.Position {
		o.Pitch.Position = p
		o.Pitch.Velocity = 0
	}
	return moving
}

// Eye returns the camera focus for the current yaw, pitch and distance.
// Positive pitch raises the eye above the target.
func (o *Orbit) Eye() math3d.Vec3 {
	rot := math3d.RotateY(o.Yaw.Position).Mul(math3d.RotateX(o.Pitch.Position))
	return o.target.Add(rot.MulVec3Dir(math3d.V3(0, 0, -o.distance)))
}

// Camera builds a camera at Eye looking at the target, with image plane
// distance d and window half-extents hx, hy.
func (o *Orbit) Camera(d, hx, hy float64) (*render.Camera, error) {
	return render.LookAt(o.Eye(), o.target, math3d.Up(), d, hx, hy)
}

func clampPitch(p float64) float64 {
	return max(-maxPitch, min(maxPitch, p))
}
