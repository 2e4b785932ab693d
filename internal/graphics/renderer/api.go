package renderer

import (
	"deferred-gl/internal/config"
	"deferred-gl/internal/graphics/gpu"
	"deferred-gl/internal/graphics/renderdata"

	"github.com/go-gl/mathgl/mgl32"
)

// Stage says how often a pass runs within a frame
type Stage int

const (
	// PerFrame passes run once before any viewport is drawn
	PerFrame Stage = iota
	// PerViewport passes run once for every split-screen player
	PerViewport
)

// FrameContext provides shared context for all passes. The viewport fields
// are only meaningful for PerViewport passes.
type FrameContext struct {
	State  *State
	Data   *renderdata.RenderData
	Lights []*renderdata.Light
	Mode   config.SplitscreenMode

	Player int
	Region gpu.Rect // player's area of the output surface
	Camera renderdata.Camera
	View   mgl32.Mat4
	Proj   mgl32.Mat4
}

// Pass defines the lifecycle of a render pass
type Pass interface {
	Name() string
	Stage() Stage
	Init(s *State) error
	Render(ctx *FrameContext) error
	Dispose()
}

// LoadingScreenPass is implemented by the pass that can draw the loading screen
type LoadingScreenPass interface {
	RenderLoadingScreen(items []renderdata.RenderItem2D) error
}
