package batch

import (
	"deferred-gl/internal/graphics/gpu"
	"deferred-gl/internal/graphics/renderdata"
	"deferred-gl/internal/graphics/resource"
	"deferred-gl/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// SkinningUniform is the bone matrix array the skinned geometry shader reads
const SkinningUniform = "skinningMats"

// Batcher issues multi-draw-indirect batches against the shared vertex data
type Batcher struct {
	dev      gpu.Device
	assets   renderdata.AssetProvider
	items3D  *resource.Table[renderdata.RenderItem3D]
	indirect gpu.Handle
	maxBones int
	restPose []mgl32.Mat4

	commands []DrawCommand
	scratch  []byte
	missing  map[int32]bool
}

// New creates the indirect command buffer
func New(dev gpu.Device, assets renderdata.AssetProvider, items3D *resource.Table[renderdata.RenderItem3D], maxBones int) (*Batcher, error) {
	buf, err := dev.CreateBuffer()
	if err != nil {
		return nil, gpu.CreationFailed(err, "indirect draw buffer")
	}
	return &Batcher{
		dev:      dev,
		assets:   assets,
		items3D:  items3D,
		indirect: buf,
		maxBones: maxBones,
		restPose: identities(maxBones),
		missing:  make(map[int32]bool),
	}, nil
}

// DrawStatic draws items from the static vertex array. The 3D item table
// must already hold items in the same order.
func (b *Batcher) DrawStatic(items []renderdata.RenderItem3D) {
	if len(items) == 0 {
		return
	}
	if len(items) > b.items3D.Capacity() {
		items = items[:b.items3D.Capacity()]
	}
	b.submit(items, b.assets.MeshByIndex, b.assets.VertexArray())
}

// DrawSkinned draws one skeleton group: bone matrices, its instance table,
// then a single multi-draw from the skinned vertex array. A group without
// transforms is drawn in its rest pose.
func (b *Batcher) DrawSkinned(group renderdata.AnimatedRenderItem3D, program gpu.Program) {
	if len(group.RenderItems) == 0 {
		return
	}
	bones := group.AnimatedTransforms
	if len(bones) == 0 {
		bones = b.restPose
	}
	if len(bones) > b.maxBones {
		logger.Log.Warn("skeleton has more bones than the shader holds",
			zap.Int("bones", len(bones)), zap.Int("max", b.maxBones))
		bones = bones[:b.maxBones]
	}
	program.SetMat4Array(SkinningUniform, bones)

	n, _ := b.items3D.Upload(group.RenderItems)
	b.submit(group.RenderItems[:n], b.assets.SkinnedMeshByIndex, b.assets.SkinnedVertexArray())
}

// DrawQuadInstanced draws count instances of the quad mesh
func (b *Batcher) DrawQuadInstanced(count int) {
	if count <= 0 {
		return
	}
	quad := b.assets.QuadMesh()
	b.dev.BindVertexArray(b.assets.VertexArray())
	b.dev.DrawElementsInstancedBaseVertex(quad.IndexCount, quad.BaseIndex, int32(count), quad.BaseVertex)
}

// DrawQuad draws the quad mesh once
func (b *Batcher) DrawQuad() {
	b.DrawQuadInstanced(1)
}

// Release deletes the indirect buffer
func (b *Batcher) Release() {
	if b.indirect != 0 {
		b.dev.DeleteBuffer(b.indirect)
		b.indirect = 0
	}
}

func (b *Batcher) submit(items []renderdata.RenderItem3D, lookup MeshLookup, vao gpu.Handle) {
	b.commands = appendCommands(b.commands[:0], items, lookup, b.warnMissing)
	b.scratch = b.scratch[:0]
	for _, c := range b.commands {
		b.scratch = c.AppendTo(b.scratch)
	}
	b.dev.UploadIndirect(b.indirect, b.scratch)
	b.dev.BindVertexArray(vao)
	b.dev.MultiDrawElementsIndirect(b.indirect, int32(len(b.commands)))
}

func identities(n int) []mgl32.Mat4 {
	out := make([]mgl32.Mat4, n)
	for i := range out {
		out[i] = mgl32.Ident4()
	}
	return out
}

func (b *Batcher) warnMissing(mesh int32) {
	if b.missing[mesh] {
		return
	}
	b.missing[mesh] = true
	logger.Log.Warn("render item references unknown mesh", zap.Int32("mesh", mesh))
}
