package renderer

import (
	"deferred-gl/internal/config"
	"deferred-gl/internal/graphics/framebuffer"
	"deferred-gl/internal/graphics/gpu"
	"deferred-gl/internal/graphics/renderdata"
	"deferred-gl/internal/logger"
	"deferred-gl/internal/profiling"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	// ErrResizeInFrame is returned when render targets are recreated while a frame is being recorded
	ErrResizeInFrame = errors.New("render targets cannot be resized during a frame")

	// ErrNoLoadingScreen means no registered pass can draw the loading screen
	ErrNoLoadingScreen = errors.New("no pass renders the loading screen")
)

// Renderer orchestrates a frame through its passes
type Renderer struct {
	state   *State
	scene   renderdata.SceneProvider
	passes  []Pass
	loading LoadingScreenPass

	mode          config.SplitscreenMode
	inFrame       bool
	resizePending bool
}

// New initializes every pass in order. Passes run in the order given within their stage.
func New(state *State, scene renderdata.SceneProvider, passes ...Pass) (*Renderer, error) {
	r := &Renderer{
		state:  state,
		scene:  scene,
		passes: passes,
		mode:   config.GetSplitscreenMode(),
	}
	for i, p := range passes {
		if err := p.Init(state); err != nil {
			for j := i - 1; j >= 0; j-- {
				passes[j].Dispose()
			}
			return nil, errors.Wrapf(err, "init %s", p.Name())
		}
		if lp, ok := p.(LoadingScreenPass); ok && r.loading == nil {
			r.loading = lp
		}
	}
	return r, nil
}

// State returns the shared GPU state
func (r *Renderer) State() *State {
	return r.state
}

// Mode returns the split-screen layout the current targets were built for
func (r *Renderer) Mode() config.SplitscreenMode {
	return r.mode
}

// RenderGame draws one frame: shadow maps once, then geometry, lighting, UI
// and presentation for every split-screen player that has a camera
func (r *Renderer) RenderGame(data *renderdata.RenderData) error {
	if r.resizePending {
		if err := r.ResizeRenderTargets(); err != nil {
			return err
		}
	}
	r.inFrame = true
	defer func() { r.inFrame = false }()

	st := r.state
	st.Tables.Advance()

	dev := st.Device
	dev.BindFramebuffer(0)
	dev.ClearColorValue(0, 0, 0, 0)
	dev.Clear(gpu.ClearColor)

	lights := r.scene.Lights()
	st.Tables.UploadFrame(data, lights)

	ctx := &FrameContext{State: st, Data: data, Lights: lights, Mode: r.mode}
	if err := r.run(PerFrame, ctx); err != nil {
		return err
	}

	cameras := r.scene.Cameras()
	viewports := r.mode.Viewports()
	if len(cameras) < viewports {
		viewports = len(cameras)
	}
	regions := framebuffer.Regions(r.mode, st.OutputWidth, st.OutputHeight)
	for i := 0; i < viewports; i++ {
		cam := cameras[i]
		ctx.Player = i
		ctx.Region = regions[i]
		ctx.Camera = cam
		ctx.View = cam.ViewMatrix()
		ctx.Proj = cam.ProjectionMatrix()
		st.Tables.UploadCamera(renderdata.NewCameraData(ctx.View, ctx.Proj, ctx.Region))
		if err := r.run(PerViewport, ctx); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) run(stage Stage, ctx *FrameContext) error {
	for _, p := range r.passes {
		if p.Stage() != stage {
			continue
		}
		stop := profiling.Track("renderer." + p.Name())
		err := p.Render(ctx)
		stop()
		if err != nil {
			return errors.Wrapf(err, "%s (player %d)", p.Name(), ctx.Player)
		}
	}
	return nil
}

// RenderLoadingScreen draws the loading screen items straight to the output surface
func (r *Renderer) RenderLoadingScreen(items []renderdata.RenderItem2D) error {
	if r.loading == nil {
		return ErrNoLoadingScreen
	}
	defer profiling.Track("renderer.LoadingScreen")()
	return r.loading.RenderLoadingScreen(items)
}

// SetOutputSize records a new surface size and schedules a resize
func (r *Renderer) SetOutputSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.state.OutputWidth, r.state.OutputHeight = width, height
	r.RequestResize()
}

// RequestResize recreates the render targets at the start of the next frame
func (r *Renderer) RequestResize() {
	r.resizePending = true
}

// ResizeRenderTargets recreates the player targets for the current
// split-screen mode and output size
func (r *Renderer) ResizeRenderTargets() error {
	if r.inFrame {
		return ErrResizeInFrame
	}
	mode := config.GetSplitscreenMode()
	if err := r.state.Targets.Resize(mode, r.state.OutputWidth, r.state.OutputHeight); err != nil {
		return err
	}
	r.mode = mode
	r.resizePending = false
	return nil
}

// HotloadShaders recompiles every program and marks all shadow maps stale
func (r *Renderer) HotloadShaders() error {
	if err := r.state.Shaders.Load(); err != nil {
		logger.Log.Error("shader reload failed, keeping previous programs", zap.Error(err))
		return err
	}
	for _, l := range r.scene.Lights() {
		l.Dirty = true
	}
	return nil
}

// Dispose cleans up all passes in reverse order, then the shared state
func (r *Renderer) Dispose() {
	for i := len(r.passes) - 1; i >= 0; i-- {
		r.passes[i].Dispose()
	}
	r.state.Release()
}
