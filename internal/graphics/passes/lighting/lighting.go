// Package lighting resolves the G-buffer into a lit image.
package lighting

import (
	"deferred-gl/internal/graphics/framebuffer"
	"deferred-gl/internal/graphics/gpu"
	"deferred-gl/internal/graphics/renderer"
	"deferred-gl/internal/graphics/shaders"
)

// Texture units the lighting shader samples from
const (
	UnitBaseColor  = 0
	UnitNormal     = 1
	UnitRMA        = 2
	UnitDepth      = 3
	UnitShadowMaps = 5
)

var gbufferUnits = []struct {
	unit uint32
	name string
}{
	{UnitBaseColor, framebuffer.BaseColor},
	{UnitNormal, framebuffer.Normal},
	{UnitRMA, framebuffer.RMA},
}

// Lighting shades a full-screen quad from the G-buffer and the shadow maps,
// then scales the result into the present target
type Lighting struct{}

// New creates the lighting pass
func New() *Lighting {
	return &Lighting{}
}

func (l *Lighting) Name() string { return "LightingPass" }
func (l *Lighting) Stage() renderer.Stage { return renderer.PerViewport }
func (l *Lighting) Init(*renderer.State) error { return nil }
func (l *Lighting) Dispose() {}

func (l *Lighting) Render(ctx *renderer.FrameContext) error {
	st := ctx.State
	dev := st.Device
	target := st.Targets.Lighting
	gbuffer := st.Targets.GBuffer

	target.Bind()
	target.SetViewport()

	prog := st.Program(shaders.Lighting)
	prog.Use()
	prog.SetMat4("inverseProjection", ctx.Proj.Inv())
	prog.SetMat4("inverseView", ctx.View.Inv())

	lightCount := min(len(ctx.Lights), st.Tables.Lights.Capacity())
	shadowCount := min(len(ctx.Lights), st.ShadowMaps.Len())
	prog.SetInt("lightCount", int32(lightCount))
	prog.SetInt("shadowMapCount", int32(shadowCount))
	prog.SetFloat("farPlane", st.Config.ShadowFarPlane)

	dev.ClearColorValue(0, 0, 0, 0)
	dev.Clear(gpu.ClearColor)

	for _, b := range gbufferUnits {
		tex, err := gbuffer.ColorAttachmentHandle(b.name)
		if err != nil {
			return err
		}
		dev.BindTextureUnit(b.unit, gpu.Texture2D, tex)
	}
	depth, err := gbuffer.DepthAttachmentHandle()
	if err != nil {
		return err
	}
	dev.BindTextureUnit(UnitDepth, gpu.Texture2D, depth)
	for i := 0; i < shadowCount; i++ {
		dev.BindTextureUnit(UnitShadowMaps+uint32(i), gpu.TextureCube, st.ShadowMaps.Slot(i).DepthCube)
	}

	dev.Disable(gpu.CapDepthTest)
	dev.Disable(gpu.CapCullFace)
	st.Batcher.DrawQuad()

	return target.BlitTo(st.Targets.Present, framebuffer.Color, framebuffer.Color, gpu.FilterLinear)
}
