// Package demo provides the assets and scene the deferred-gl binary renders:
// procedural meshes and materials uploaded through a gpu.Device, and a small
// animated scene for up to four players.
package demo

import (
	"image"

	"deferred-gl/internal/graphics/gpu"
	"deferred-gl/internal/graphics/renderdata"
	"deferred-gl/internal/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Static mesh indices
const (
	MeshCube int32 = iota
	MeshPlane
)

// Skinned mesh indices
const (
	MeshColumn int32 = iota
)

// ColumnBones is the skeleton size of MeshColumn
const ColumnBones = 2

const columnSegments = 8

// Assets owns the demo meshes and textures on the device
type Assets struct {
	dev        gpu.Device
	meshes     []renderdata.Mesh
	skinned    []renderdata.Mesh
	quad       renderdata.Mesh
	vao        gpu.Handle
	skinnedVAO gpu.Handle
	textures   []gpu.Handle
	handles    []uint64
	byName     map[string]int32
}

var _ renderdata.AssetProvider = (*Assets)(nil)

// NewAssets uploads the built-in meshes and materials. Everything created
// so far is released if any upload fails.
func NewAssets(dev gpu.Device) (*Assets, error) {
	a := &Assets{dev: dev, byName: make(map[string]int32)}
	if err := a.load(); err != nil {
		a.Release()
		return nil, err
	}
	logger.Log.Info("demo assets loaded",
		zap.Int("meshes", len(a.meshes)),
		zap.Int("skinned", len(a.skinned)),
		zap.Int("textures", len(a.textures)))
	return a, nil
}

func (a *Assets) load() error {
	static := &meshBuilder{}
	a.quad = static.add(quad())
	a.meshes = append(a.meshes, static.add(cube()), static.add(plane()))
	vao, err := a.dev.CreateVertexArray(static.layout(), static.vertices, static.indices)
	if err != nil {
		return gpu.CreationFailed(err, "static vertex array")
	}
	a.vao = vao

	skinned := &meshBuilder{skinned: true}
	a.skinned = append(a.skinned, skinned.add(column(columnSegments)))
	vao, err = a.dev.CreateVertexArray(skinned.layout(), skinned.vertices, skinned.indices)
	if err != nil {
		return gpu.CreationFailed(err, "skinned vertex array")
	}
	a.skinnedVAO = vao

	for i, img := range materials() {
		if _, err := a.AddTexture(img); err != nil {
			return errors.Wrapf(err, "material %d", i)
		}
	}
	return nil
}

// AddTexture uploads img as an RGBA8 texture and makes it resident
func (a *Assets) AddTexture(img *image.RGBA) (int32, error) {
	b := img.Bounds()
	w, h := int32(b.Dx()), int32(b.Dy())
	tex, err := a.dev.CreateTexture2D(gpu.FormatRGBA8, w, h)
	if err != nil {
		return 0, gpu.CreationFailed(err, "texture")
	}
	a.dev.UploadTexture2D(tex, w, h, flipRows(img))
	a.textures = append(a.textures, tex)
	a.handles = append(a.handles, a.dev.TextureHandle(tex))
	return int32(len(a.textures) - 1), nil
}

func (a *Assets) MeshByIndex(i int32) (renderdata.Mesh, bool) {
	if i < 0 || int(i) >= len(a.meshes) {
		return renderdata.Mesh{}, false
	}
	return a.meshes[i], true
}

func (a *Assets) SkinnedMeshByIndex(i int32) (renderdata.Mesh, bool) {
	if i < 0 || int(i) >= len(a.skinned) {
		return renderdata.Mesh{}, false
	}
	return a.skinned[i], true
}

func (a *Assets) QuadMesh() renderdata.Mesh { return a.quad }
func (a *Assets) TextureCount() int { return len(a.handles) }
func (a *Assets) TextureByIndex(i int) uint64 { return a.handles[i] }
func (a *Assets) VertexArray() gpu.Handle { return a.vao }
func (a *Assets) SkinnedVertexArray() gpu.Handle { return a.skinnedVAO }

// Release deletes every device object. It is safe to call more than once.
func (a *Assets) Release() {
	if a == nil {
		return
	}
	for _, tex := range a.textures {
		a.dev.DeleteTexture(tex)
	}
	a.textures, a.handles = nil, nil
	clear(a.byName)
	if a.vao != 0 {
		a.dev.DeleteVertexArray(a.vao)
		a.vao = 0
	}
	if a.skinnedVAO != 0 {
		a.dev.DeleteVertexArray(a.skinnedVAO)
		a.skinnedVAO = 0
	}
}
