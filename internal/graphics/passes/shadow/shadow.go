// Package shadow renders point light depth cube maps.
package shadow

import (
	"deferred-gl/internal/graphics/gpu"
	"deferred-gl/internal/graphics/renderdata"
	"deferred-gl/internal/graphics/renderer"
	"deferred-gl/internal/graphics/shaders"
	"deferred-gl/internal/graphics/shadowmap"
	"deferred-gl/internal/logger"

	"go.uber.org/zap"
)

// Shadow re-renders the cube maps of dirty lights once per frame. owners[i]
// is the light whose depth is currently in slot i.
type Shadow struct {
	overflow int
	owners   [shadowmap.PoolSize]*renderdata.Light
}

// New creates the shadow pass
func New() *Shadow {
	return &Shadow{}
}

func (s *Shadow) Name() string { return "ShadowPass" }
func (s *Shadow) Stage() renderer.Stage { return renderer.PerFrame }

func (s *Shadow) Init(*renderer.State) error {
	s.owners = [shadowmap.PoolSize]*renderdata.Light{}
	return nil
}

func (s *Shadow) Dispose() {
	s.owners = [shadowmap.PoolSize]*renderdata.Light{}
}

// Render draws the static batch into the cube map of every light that has a
// slot and is dirty or new to that slot, then clears its dirty flag
func (s *Shadow) Render(ctx *renderer.FrameContext) error {
	st := ctx.State
	pool := st.ShadowMaps
	lights := ctx.Lights

	count := len(lights)
	if count > pool.Len() {
		s.warnOverflow(count - pool.Len())
		count = pool.Len()
	} else {
		s.overflow = 0
	}

	prog := st.Program(shaders.ShadowMap)
	dev := st.Device
	near, far := st.Config.ShadowNearPlane, st.Config.ShadowFarPlane

	prepared := false
	for i := 0; i < count; i++ {
		light := lights[i]
		if !light.Dirty && s.owners[i] == light {
			continue
		}
		if !prepared {
			prog.Use()
			prog.SetFloat("farPlane", far)
			dev.DepthMask(true)
			dev.Disable(gpu.CapBlend)
			dev.Disable(gpu.CapCullFace)
			dev.Enable(gpu.CapDepthTest)
			dev.Viewport(gpu.Rect{W: pool.Size(), H: pool.Size()})
			prepared = true
		}

		slot := pool.Slot(i)
		dev.BindFramebuffer(slot.Framebuffer)
		dev.Clear(gpu.ClearDepth)

		faces := shadowmap.FaceMatrices(light.Position, near, far)
		prog.SetMat4Array("shadowMatrices", faces[:])
		prog.SetVec3("lightPosition", light.Position)
		st.Batcher.DrawStatic(ctx.Data.RenderItems3D)
		light.Dirty = false
		s.owners[i] = light
	}
	for i := count; i < len(s.owners); i++ {
		s.owners[i] = nil
	}
	return nil
}

func (s *Shadow) warnOverflow(n int) {
	if n == s.overflow {
		return
	}
	s.overflow = n
	logger.Log.Warn("more lights than shadow maps, extra lights cast no shadows",
		zap.Int("shadow_maps", shadowmap.PoolSize), zap.Int("unshadowed", n))
}
