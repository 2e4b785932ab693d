// Package ui composites 2D quads over a render target.
package ui

import (
	"deferred-gl/internal/graphics/framebuffer"
	"deferred-gl/internal/graphics/gpu"
	"deferred-gl/internal/graphics/renderdata"
	"deferred-gl/internal/graphics/renderer"
	"deferred-gl/internal/graphics/shaders"
)

// UI draws the frame's 2D items over the present target and owns the loading screen
type UI struct {
	state *renderer.State
}

// New creates the UI pass
func New() *UI {
	return &UI{}
}

func (u *UI) Name() string { return "UIPass" }
func (u *UI) Stage() renderer.Stage { return renderer.PerViewport }
func (u *UI) Dispose() {}

func (u *UI) Init(s *renderer.State) error {
	u.state = s
	return nil
}

func (u *UI) Render(ctx *renderer.FrameContext) error {
	return u.Composite(ctx.Data.RenderItems2D, ctx.State.Targets.Present, false)
}

// Composite alpha-blends items over target, clearing it first if clearScreen is set
func (u *UI) Composite(items []renderdata.RenderItem2D, target *framebuffer.FrameBuffer, clearScreen bool) error {
	st := u.state
	dev := st.Device

	target.Bind()
	target.SetViewport()

	dev.Enable(gpu.CapBlend)
	dev.BlendAlpha()
	dev.Disable(gpu.CapDepthTest)
	dev.Disable(gpu.CapCullFace)
	if clearScreen {
		dev.ClearColorValue(0, 0, 0, 0)
		dev.Clear(gpu.ClearColor)
	}
	if len(items) == 0 {
		return nil
	}

	st.Program(shaders.UI).Use()
	n, _ := st.Tables.Items2D.Upload(items)
	st.Batcher.DrawQuadInstanced(n)
	return nil
}

// RenderLoadingScreen draws items into the loading screen target and scales
// it onto the whole output surface
func (u *UI) RenderLoadingScreen(items []renderdata.RenderItem2D) error {
	st := u.state
	target := st.Targets.LoadingScreen
	if err := u.Composite(items, target, true); err != nil {
		return err
	}
	surface := gpu.Rect{W: int32(st.OutputWidth), H: int32(st.OutputHeight)}
	return target.BlitToSurface(framebuffer.Color, surface, gpu.FilterNearest)
}
