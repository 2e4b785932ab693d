// Package present copies each player's image into its region of the output surface.
package present

import (
	"deferred-gl/internal/graphics/framebuffer"
	"deferred-gl/internal/graphics/gpu"
	"deferred-gl/internal/graphics/renderer"
)

// Present blits the present target into the player's split-screen region. It uses no shader.
type Present struct{}

// New creates the present pass
func New() *Present {
	return &Present{}
}

func (p *Present) Name() string { return "PresentPass" }
func (p *Present) Stage() renderer.Stage { return renderer.PerViewport }
func (p *Present) Init(*renderer.State) error { return nil }
func (p *Present) Dispose() {}

func (p *Present) Render(ctx *renderer.FrameContext) error {
	return ctx.State.Targets.Present.BlitToSurface(framebuffer.Color, ctx.Region, gpu.FilterNearest)
}
