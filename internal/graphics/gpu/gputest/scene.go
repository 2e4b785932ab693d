package gputest

import (
	"deferred-gl/internal/graphics/gpu"
	"deferred-gl/internal/graphics/renderdata"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex arrays handed out by Assets. They are not allocated on any Recorder.
const (
	StaticVAO  gpu.Handle = 9001
	SkinnedVAO gpu.Handle = 9002
)

// Assets is a fixed in-memory asset provider
type Assets struct {
	Meshes   map[int32]renderdata.Mesh
	Skinned  map[int32]renderdata.Mesh
	Quad     renderdata.Mesh
	Textures []uint64
}

var _ renderdata.AssetProvider = (*Assets)(nil)

// NewAssets returns a cube (0), a plane (1), a skinned mesh (0) and a quad
func NewAssets() *Assets {
	return &Assets{
		Meshes: map[int32]renderdata.Mesh{
			0: {IndexCount: 36, BaseIndex: 0, BaseVertex: 0},
			1: {IndexCount: 6, BaseIndex: 36, BaseVertex: 24},
		},
		Skinned: map[int32]renderdata.Mesh{
			0: {IndexCount: 300, BaseIndex: 0, BaseVertex: 0},
		},
		Quad:     renderdata.Mesh{IndexCount: 6, BaseIndex: 42, BaseVertex: 28},
		Textures: []uint64{0x10, 0x11, 0x12},
	}
}

func (a *Assets) MeshByIndex(i int32) (renderdata.Mesh, bool) {
	m, ok := a.Meshes[i]
	return m, ok
}

func (a *Assets) SkinnedMeshByIndex(i int32) (renderdata.Mesh, bool) {
	m, ok := a.Skinned[i]
	return m, ok
}

func (a *Assets) QuadMesh() renderdata.Mesh { return a.Quad }
func (a *Assets) TextureCount() int { return len(a.Textures) }
func (a *Assets) TextureByIndex(i int) uint64 { return a.Textures[i] }
func (a *Assets) VertexArray() gpu.Handle { return StaticVAO }
func (a *Assets) SkinnedVertexArray() gpu.Handle { return SkinnedVAO }

// Camera is a fixed view and projection
type Camera struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
}

func (c Camera) ViewMatrix() mgl32.Mat4 { return c.View }
func (c Camera) ProjectionMatrix() mgl32.Mat4 { return c.Projection }

// NewCamera looks from eye at the origin
func NewCamera(eye mgl32.Vec3) Camera {
	return Camera{
		View:       mgl32.LookAtV(eye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}),
		Projection: mgl32.Perspective(mgl32.DegToRad(60), 16.0/9.0, 0.1, 100),
	}
}

// Scene is a fixed scene provider
type Scene struct {
	LightList  []*renderdata.Light
	CameraList []renderdata.Camera
}

func (s *Scene) Lights() []*renderdata.Light { return s.LightList }
func (s *Scene) Cameras() []renderdata.Camera { return s.CameraList }
