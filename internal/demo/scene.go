package demo

import (
	"math"

	"deferred-gl/internal/config"
	"deferred-gl/internal/graphics/framebuffer"
	"deferred-gl/internal/graphics/renderdata"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxPlayers is the number of cameras the scene keeps
const MaxPlayers = 4

const (
	cubeCount   = 8
	cubeRing    = 4.0
	columnCount = 3
	floorSize   = 20.0
)

// Scene is a floor with a ring of spinning cubes, swaying skinned columns
// and orbiting lights
type Scene struct {
	lights  []*renderdata.Light
	orbits  []orbit
	cameras []*Camera
	floor   int32
	time    float64
}

// orbit moves a light around the Y axis; zero speed keeps it still
type orbit struct {
	radius, height, speed, phase float64
}

func (o orbit) at(t float64) mgl32.Vec3 {
	s, c := math.Sincos(o.phase + o.speed*t)
	return mgl32.Vec3{float32(c * o.radius), float32(o.height), float32(s * o.radius)}
}

func NewScene(width, height int) *Scene {
	s := &Scene{
		floor: TextureChecker,
		orbits: []orbit{
			{radius: 3, height: 2.5, speed: 0.6},
			{radius: 5, height: 1.5, speed: -0.4, phase: math.Pi},
			{radius: 0, height: 5, speed: 0},
		},
	}
	colors := []mgl32.Vec3{{1, 0.7, 0.4}, {0.4, 0.6, 1}, {1, 1, 1}}
	for i, o := range s.orbits {
		s.lights = append(s.lights, renderdata.NewLight(o.at(0), colors[i], 1, 10))
	}
	for i := 0; i < MaxPlayers; i++ {
		c := NewCamera(width, height)
		c.Yaw = float32(i) * math.Pi / 2
		s.cameras = append(s.cameras, c)
	}
	return s
}

func (s *Scene) Lights() []*renderdata.Light { return s.lights }

func (s *Scene) Cameras() []renderdata.Camera {
	out := make([]renderdata.Camera, len(s.cameras))
	for i, c := range s.cameras {
		out[i] = c
	}
	return out
}

// Resize fits every camera's aspect ratio to its split-screen region
func (s *Scene) Resize(mode config.SplitscreenMode, width, height int) {
	regions := framebuffer.Regions(mode, width, height)
	for i, c := range s.cameras {
		if i < len(regions) {
			c.SetAspect(int(regions[i].W), int(regions[i].H))
		}
	}
}

// Update advances the animation clock by dt seconds, moving the lights and
// turning the cameras
func (s *Scene) Update(dt float64) {
	s.time += dt
	for i, o := range s.orbits {
		if o.speed != 0 {
			s.lights[i].MoveTo(o.at(s.time))
		}
	}
	for _, c := range s.cameras {
		c.Yaw += float32(dt * 0.1)
	}
}

// SetFloorTexture replaces the floor's base colour texture
func (s *Scene) SetFloorTexture(idx int32) {
	s.floor = idx
}

// Orbit turns player i's camera by radians around its target
func (s *Scene) Orbit(i int, radians float32) {
	if i >= 0 && i < len(s.cameras) {
		s.cameras[i].Yaw += radians
	}
}

func material(base int32) (int32, int32, int32) {
	return base, TextureFlatNormal, TextureRMA
}

func item(mesh, base int32, model mgl32.Mat4) renderdata.RenderItem3D {
	it := renderdata.NewRenderItem3D(mesh, model)
	it.BaseColorTextureIndex, it.NormalTextureIndex, it.RMATextureIndex = material(base)
	return it
}

// RenderData builds this frame's items. hud is passed through as the 2D items.
func (s *Scene) RenderData(hud []renderdata.RenderItem2D) renderdata.RenderData {
	data := renderdata.RenderData{RenderItems2D: hud}

	data.RenderItems3D = append(data.RenderItems3D,
		item(MeshPlane, s.floor, mgl32.Scale3D(floorSize, 1, floorSize)))
	spin := float32(s.time)
	for i := 0; i < cubeCount; i++ {
		a := float64(i) * 2 * math.Pi / cubeCount
		pos := mgl32.Vec3{float32(math.Cos(a) * cubeRing), 0.5, float32(math.Sin(a) * cubeRing)}
		model := mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).Mul4(mgl32.HomogRotate3DY(spin + float32(a)))
		data.RenderItems3D = append(data.RenderItems3D, item(MeshCube, TextureGradient, model))
	}

	group := renderdata.AnimatedRenderItem3D{AnimatedTransforms: s.columnPose()}
	for i := 0; i < columnCount; i++ {
		x := float32(i-columnCount/2) * 1.5
		model := mgl32.Translate3D(x, 0, 0).Mul4(mgl32.Scale3D(1, 2, 1))
		group.RenderItems = append(group.RenderItems, item(MeshColumn, TextureWhite, model))
	}
	data.AnimatedRenderItems3D = append(data.AnimatedRenderItems3D, group)
	return data
}

// columnPose leaves the base bone at rest and tilts the top bone
func (s *Scene) columnPose() []mgl32.Mat4 {
	sway := float32(math.Sin(s.time*1.5) * 0.4)
	return []mgl32.Mat4{
		mgl32.Ident4(),
		mgl32.HomogRotate3DZ(sway),
	}
}

// Crosshair is a small tinted quad in the centre of each viewport
func Crosshair(tint mgl32.Vec3) renderdata.RenderItem2D {
	return renderdata.RenderItem2D{
		ModelMatrix:  mgl32.Scale3D(0.004, 0.007, 1),
		ColorTint:    tint,
		TextureIndex: TextureWhite,
	}
}
