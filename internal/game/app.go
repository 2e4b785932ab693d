package game

import (
	"time"

	"deferred-gl/internal/config"
	"deferred-gl/internal/demo"
	"deferred-gl/internal/graphics/gpu"
	"deferred-gl/internal/graphics/gpu/gl46"
	"deferred-gl/internal/graphics/passes"
	"deferred-gl/internal/graphics/renderdata"
	"deferred-gl/internal/graphics/renderer"
	"deferred-gl/internal/graphics/text"
	"deferred-gl/internal/input"
	"deferred-gl/internal/logger"
	"deferred-gl/internal/profiling"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	fontSize      = 12
	orbitSpeed    = 1.5 // radians per second
	slowFrame     = 50 * time.Millisecond
	profilePeriod = time.Second
)

var (
	white     = mgl32.Vec3{1, 1, 1}
	crosshair = []renderdata.RenderItem2D{demo.Crosshair(white)}
)

// App owns the window loop, the demo scene and the renderer
type App struct {
	window *glfw.Window
	input  *input.Manager

	assets   *demo.Assets
	font     *text.Font
	console  *text.Console
	scene    *demo.Scene
	renderer *renderer.Renderer

	paused        bool
	showProfiling bool
	fpsLimiter    *FPSLimiter
	lastTime      time.Time
	lastReport    time.Time
	frames        int
}

// NewApp creates the device, assets and renderer on the window's current
// context and shows the loading screen while the scene is prepared
func NewApp(window *glfw.Window, cfg config.Config) (*App, error) {
	dev, err := gl46.New()
	if err != nil {
		return nil, err
	}
	logger.Log.Info("OpenGL context ready", zap.String("version", dev.Version()))

	mode, err := config.ParseSplitscreenMode(cfg.Window.Splitscreen)
	if err != nil {
		return nil, err
	}
	config.SetSplitscreenMode(mode)

	a := &App{
		window:     window,
		input:      input.NewManager(),
		console:    text.NewConsole(cfg.Renderer.LoadingScreenRows),
		fpsLimiter: NewFPSLimiter(cfg.Window.FPSLimit),
	}
	if err := a.load(dev, cfg); err != nil {
		a.Close()
		return nil, err
	}

	a.input.Attach(window)
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		a.resize(w, h)
	})

	a.lastTime = time.Now()
	a.lastReport = a.lastTime
	return a, nil
}

func (a *App) load(dev *gl46.Device, cfg config.Config) error {
	var err error
	a.assets, err = demo.NewAssets(dev)
	if err != nil {
		return err
	}
	n, err := a.assets.LoadTextureDir(cfg.Assets.TexturesDir)
	if err != nil {
		return err
	}
	// glyphs must be resident before the renderer binds the texture table
	a.font, err = text.Bake(a.assets, nil, fontSize)
	if err != nil {
		return errors.Wrap(err, "could not bake font")
	}

	w, h := a.window.GetFramebufferSize()
	cfg.Window.Width, cfg.Window.Height = w, h
	st, err := renderer.NewState(dev, cfg, a.assets)
	if err != nil {
		return err
	}
	a.scene = demo.NewScene(w, h)
	if idx, ok := a.assets.TextureIndex("floor"); ok {
		a.scene.SetFloorTexture(idx)
	}
	a.renderer, err = renderer.New(st, a.scene, passes.Deferred()...)
	if err != nil {
		st.Release()
		return err
	}
	a.scene.Resize(config.GetSplitscreenMode(), w, h)

	a.showLoading("%s", dev.Version())
	a.showLoading("assets: %d textures, %d from %q", a.assets.TextureCount(), n, cfg.Assets.TexturesDir)
	a.showLoading("render targets: %dx%d, scale %d", w, h, cfg.Renderer.RenderScale)
	a.showLoading("shadow maps: %d", st.ShadowMaps.Len())
	a.showLoading("split screen: %s", config.GetSplitscreenMode())
	return nil
}

// showLoading appends a console line and presents the loading screen
func (a *App) showLoading(format string, args ...any) {
	a.console.Printf(format, args...)
	target := a.renderer.State().Targets.LoadingScreen
	items := a.font.Layout(a.console.Lines(), int(target.Width()), int(target.Height()),
		renderer.LoadingScreenLineHeight, white)
	if err := a.renderer.RenderLoadingScreen(items); err != nil {
		logger.Log.Warn("loading screen failed", zap.Error(err))
		return
	}
	a.window.SwapBuffers()
}

// Run loops until the window is asked to close
func (a *App) Run() {
	for !a.window.ShouldClose() {
		a.tick()
	}
}

func (a *App) tick() {
	profiling.ResetFrame()
	start := time.Now()
	dt := start.Sub(a.lastTime).Seconds()
	a.lastTime = start

	func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()
	a.handleInput(dt)

	if !a.paused {
		func() { defer profiling.Track("scene.Update")(); a.scene.Update(dt) }()
	}
	data := a.scene.RenderData(crosshair)
	if err := a.renderer.RenderGame(&data); err != nil {
		logger.Log.Error("frame failed", zap.Error(err))
		if errors.Is(err, gpu.ErrResourceCreation) {
			a.window.SetShouldClose(true)
		}
	}
	func() { defer profiling.Track("glfw.SwapBuffers")(); a.window.SwapBuffers() }()

	a.input.PostUpdate()
	if d := time.Since(start); d > slowFrame {
		logger.Log.Debug("slow frame", zap.Duration("took", d), zap.String("top", profiling.TopN(5)))
	}
	a.report(start)
	a.fpsLimiter.Wait(a.paused)
}

func (a *App) handleInput(dt float64) {
	im := a.input
	if im.JustPressed(input.ActionQuit) {
		a.window.SetShouldClose(true)
	}
	if im.JustPressed(input.ActionPause) {
		a.paused = !a.paused
	}
	if im.JustPressed(input.ActionToggleProfiling) {
		a.showProfiling = !a.showProfiling
	}
	if im.JustPressed(input.ActionCycleSplitscreen) {
		mode := config.NextSplitscreenMode()
		w, h := a.window.GetFramebufferSize()
		a.scene.Resize(mode, w, h)
		a.renderer.RequestResize()
		logger.Log.Info("split screen changed", zap.Stringer("mode", mode))
	}
	if im.JustPressed(input.ActionHotloadShaders) {
		if err := a.renderer.HotloadShaders(); err == nil {
			logger.Log.Info("shaders reloaded")
		}
	}

	turn := float32(dt * orbitSpeed)
	if im.IsActive(input.ActionOrbitLeft) {
		a.scene.Orbit(0, -turn)
	}
	if im.IsActive(input.ActionOrbitRight) {
		a.scene.Orbit(0, turn)
	}
}

func (a *App) resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	a.renderer.SetOutputSize(w, h)
	a.scene.Resize(config.GetSplitscreenMode(), w, h)
}

// report logs the frame rate, and the slowest sections when profiling is on
func (a *App) report(now time.Time) {
	a.frames++
	if now.Sub(a.lastReport) < profilePeriod {
		return
	}
	fields := []zap.Field{zap.Int("fps", a.frames)}
	if a.showProfiling {
		fields = append(fields,
			zap.Duration("render", profiling.SumWithPrefix("renderer.")),
			zap.String("top", profiling.TopN(5)))
	}
	logger.Log.Log(statsLevel(a.showProfiling), "frame stats", fields...)
	a.frames = 0
	a.lastReport = now
}

// statsLevel keeps the periodic frame stats out of the default info log
// unless profiling was switched on
func statsLevel(on bool) zapcore.Level {
	if on {
		return zapcore.InfoLevel
	}
	return zapcore.DebugLevel
}

// Close releases the renderer and assets. Safe on a partially built App.
func (a *App) Close() {
	if a.renderer != nil {
		a.renderer.Dispose()
		a.renderer = nil
	}
	a.assets.Release()
	a.assets = nil
}
