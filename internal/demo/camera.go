package demo

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera orbits a target point at a fixed distance and height
type Camera struct {
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32

	Target   mgl32.Vec3
	Distance float32
	Height   float32
	Yaw      float32 // radians around +Y
}

func NewCamera(width, height int) *Camera {
	c := &Camera{
		FOV:       60.0,
		NearPlane: 0.1,
		FarPlane:  100.0,
		Distance:  8,
		Height:    3,
	}
	c.SetAspect(width, height)
	return c
}

// SetAspect updates the aspect ratio, ignoring empty sizes
func (c *Camera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

// Eye returns the camera position
func (c *Camera) Eye() mgl32.Vec3 {
	s, co := math.Sincos(float64(c.Yaw))
	return c.Target.Add(mgl32.Vec3{float32(s) * c.Distance, c.Height, float32(co) * c.Distance})
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(), c.Target, mgl32.Vec3{0, 1, 0})
}
