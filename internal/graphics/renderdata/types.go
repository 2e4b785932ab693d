// Package renderdata holds the per-frame data the render core consumes and
// the interfaces of the collaborators that produce it.
package renderdata

import (
	"deferred-gl/internal/graphics/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh locates a mesh inside the shared vertex and index buffers
type Mesh struct {
	IndexCount uint32
	BaseIndex  uint32
	BaseVertex uint32
}

// RenderItem3D is one static or skinned mesh instance for this frame
type RenderItem3D struct {
	ModelMatrix           mgl32.Mat4
	InverseModelMatrix    mgl32.Mat4
	MeshIndex             int32
	BaseColorTextureIndex int32
	NormalTextureIndex    int32
	RMATextureIndex       int32
}

// NewRenderItem3D fills in the inverse model matrix
func NewRenderItem3D(mesh int32, model mgl32.Mat4) RenderItem3D {
	return RenderItem3D{
		ModelMatrix:        model,
		InverseModelMatrix: model.Inv(),
		MeshIndex:          mesh,
	}
}

// AnimatedRenderItem3D groups the instances that share one skeleton.
// AnimatedTransforms belongs to the animation system and is only read here.
type AnimatedRenderItem3D struct {
	RenderItems        []RenderItem3D
	AnimatedTransforms []mgl32.Mat4
}

// RenderItem2D is one UI quad. Its instance index is its position in the uploaded array.
type RenderItem2D struct {
	ModelMatrix  mgl32.Mat4
	ColorTint    mgl32.Vec3
	TextureIndex int32
}

// Light is a scene light. Dirty marks that its cube shadow map no longer
// matches its position; the shadow pass clears it after re-rendering.
type Light struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
	Strength float32
	Radius   float32
	Dirty    bool
}

// NewLight returns a light that will get its shadow map rendered next frame
func NewLight(position, color mgl32.Vec3, strength, radius float32) *Light {
	return &Light{Position: position, Color: color, Strength: strength, Radius: radius, Dirty: true}
}

// MoveTo repositions the light and marks its shadow map stale
func (l *Light) MoveTo(p mgl32.Vec3) {
	if l.Position == p {
		return
	}
	l.Position = p
	l.Dirty = true
}

// GPULight is the shader-side view of a Light
type GPULight struct {
	Position mgl32.Vec3
	Radius   float32
	Color    mgl32.Vec3
	Strength float32
}

// ToGPU converts a scene light
func (l *Light) ToGPU() GPULight {
	return GPULight{Position: l.Position, Radius: l.Radius, Color: l.Color, Strength: l.Strength}
}

// CameraData is uploaded once per viewport
type CameraData struct {
	Projection        mgl32.Mat4
	ProjectionInverse mgl32.Mat4
	View              mgl32.Mat4
	ViewInverse       mgl32.Mat4
	ViewportWidth     float32
	ViewportHeight    float32
	ViewportOffsetX   float32
	ViewportOffsetY   float32
}

// NewCameraData derives the inverse matrices and records the viewport region
func NewCameraData(view, projection mgl32.Mat4, viewport gpu.Rect) CameraData {
	return CameraData{
		Projection:        projection,
		ProjectionInverse: projection.Inv(),
		View:              view,
		ViewInverse:       view.Inv(),
		ViewportWidth:     float32(viewport.W),
		ViewportHeight:    float32(viewport.H),
		ViewportOffsetX:   float32(viewport.X),
		ViewportOffsetY:   float32(viewport.Y),
	}
}

// RenderData is everything the scene hands over for one frame. Lights and
// cameras come from the SceneProvider.
type RenderData struct {
	RenderItems3D         []RenderItem3D
	AnimatedRenderItems3D []AnimatedRenderItem3D
	RenderItems2D         []RenderItem2D
}

// AssetProvider exposes meshes already resident in GPU memory and bindless textures
type AssetProvider interface {
	MeshByIndex(i int32) (Mesh, bool)
	SkinnedMeshByIndex(i int32) (Mesh, bool)
	QuadMesh() Mesh
	TextureCount() int
	TextureByIndex(i int) uint64
	VertexArray() gpu.Handle
	SkinnedVertexArray() gpu.Handle
}

// Camera is one player's point of view
type Camera interface {
	ViewMatrix() mgl32.Mat4
	ProjectionMatrix() mgl32.Mat4
}

// SceneProvider supplies the ordered light list and the player cameras
type SceneProvider interface {
	Lights() []*Light
	Cameras() []Camera
}
