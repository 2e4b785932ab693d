// Package geometry fills the G-buffer.
package geometry

import (
	"deferred-gl/internal/graphics/framebuffer"
	"deferred-gl/internal/graphics/gpu"
	"deferred-gl/internal/graphics/renderer"
	"deferred-gl/internal/graphics/shaders"
)

// Geometry draws static items in one batch, then each skinned group in its own batch
type Geometry struct{}

// New creates the geometry pass
func New() *Geometry {
	return &Geometry{}
}

func (g *Geometry) Name() string { return "GeometryPass" }
func (g *Geometry) Stage() renderer.Stage { return renderer.PerViewport }
func (g *Geometry) Init(*renderer.State) error { return nil }
func (g *Geometry) Dispose() {}

func (g *Geometry) Render(ctx *renderer.FrameContext) error {
	st := ctx.State
	dev := st.Device
	gbuffer := st.Targets.GBuffer

	gbuffer.Bind()
	gbuffer.SetViewport()
	if err := gbuffer.DrawBuffers(framebuffer.GBufferAttachments...); err != nil {
		return err
	}
	dev.ClearColorValue(0, 0, 0, 1)
	dev.DepthMask(true)
	dev.Clear(gpu.ClearColor | gpu.ClearDepth)

	dev.Disable(gpu.CapBlend)
	dev.Enable(gpu.CapDepthTest)
	dev.Enable(gpu.CapCullFace)
	dev.CullBackFaces()

	static := ctx.Data.RenderItems3D
	animated := ctx.Data.AnimatedRenderItems3D

	if len(static) > 0 {
		// the previous player's skinned groups overwrote the instance table
		if ctx.Player > 0 && len(animated) > 0 {
			st.Tables.Items3D.Upload(static)
		}
		prog := st.Program(shaders.GBuffer)
		prog.Use()
		prog.SetMat4("projection", ctx.Proj)
		prog.SetMat4("view", ctx.View)
		st.Batcher.DrawStatic(static)
	}

	if len(animated) > 0 {
		prog := st.Program(shaders.GBufferSkinned)
		prog.Use()
		prog.SetMat4("projection", ctx.Proj)
		prog.SetMat4("view", ctx.View)
		for _, group := range animated {
			st.Batcher.DrawSkinned(group, prog)
		}
	}
	return nil
}
