package renderer

import (
	"deferred-gl/internal/config"
	"deferred-gl/internal/graphics/batch"
	"deferred-gl/internal/graphics/framebuffer"
	"deferred-gl/internal/graphics/gpu"
	"deferred-gl/internal/graphics/renderdata"
	"deferred-gl/internal/graphics/resource"
	"deferred-gl/internal/graphics/shaders"
	"deferred-gl/internal/graphics/shadowmap"
	"deferred-gl/internal/logger"

	"go.uber.org/zap"
)

// LoadingScreenLineHeight is the text cell height the loading screen is laid out in
const LoadingScreenLineHeight = 16

// State owns every GPU resource the passes share
type State struct {
	Device     gpu.Device
	Config     config.RendererConfig
	Assets     renderdata.AssetProvider
	Targets    *framebuffer.Set
	Tables     *resource.Tables
	Batcher    *batch.Batcher
	Shaders    *shaders.Library
	ShadowMaps *shadowmap.Pool

	OutputWidth  int
	OutputHeight int
}

// NewState builds the targets, tables, programs and shadow maps for an
// output surface of cfg.Window size. Any failure releases what was built
// and returns an error matching gpu.ErrResourceCreation.
func NewState(dev gpu.Device, cfg config.Config, assets renderdata.AssetProvider) (*State, error) {
	rc := cfg.Renderer
	s := &State{
		Device:       dev,
		Config:       rc,
		Assets:       assets,
		OutputWidth:  cfg.Window.Width,
		OutputHeight: cfg.Window.Height,
	}
	if err := s.build(cfg.Shaders.Dir); err != nil {
		s.Release()
		return nil, err
	}
	logger.Log.Info("renderer state ready",
		zap.Int("output_width", s.OutputWidth), zap.Int("output_height", s.OutputHeight),
		zap.Int("render_scale", rc.RenderScale), zap.Int("frames_in_flight", rc.FramesInFlight))
	return s, nil
}

func (s *State) build(shaderDir string) error {
	rc := s.Config
	var err error

	s.Tables, err = resource.NewTables(s.Device, resource.Capacities{
		RenderItems3D: rc.MaxRenderItems3D,
		RenderItems2D: rc.MaxRenderItems2D,
		Lights:        rc.MaxLights,
		Textures:      rc.TextureArraySize,
	}, rc.FramesInFlight)
	if err != nil {
		return err
	}
	if err := s.Tables.BindBindlessTextures(s.Assets); err != nil {
		return err
	}

	if s.Batcher, err = batch.New(s.Device, s.Assets, s.Tables.Items3D, rc.MaxBones); err != nil {
		return err
	}

	s.Shaders = shaders.NewLibrary(s.Device, shaderDir)
	if err := s.Shaders.Load(); err != nil {
		return gpu.CreationFailed(err, "shader programs")
	}

	if s.ShadowMaps, err = shadowmap.NewPool(s.Device, rc.ShadowMapSize); err != nil {
		return err
	}

	lw, lh := s.loadingScreenSize()
	s.Targets, err = framebuffer.NewSet(s.Device, framebuffer.Options{
		RenderScale:         rc.RenderScale,
		LoadingScreenWidth:  lw,
		LoadingScreenHeight: lh,
		DebugMenuWidth:      lw,
		DebugMenuHeight:     lh,
	})
	if err != nil {
		return err
	}
	return s.Targets.Resize(config.GetSplitscreenMode(), s.OutputWidth, s.OutputHeight)
}

// loadingScreenSize fits LoadingScreenRows text lines into a target with the
// output's aspect ratio
func (s *State) loadingScreenSize() (int, int) {
	h := s.Config.LoadingScreenRows * LoadingScreenLineHeight
	if h <= 0 || s.OutputHeight <= 0 {
		return s.OutputWidth, s.OutputHeight
	}
	w := s.OutputWidth * h / s.OutputHeight
	if w < 1 {
		w = 1
	}
	return w, h
}

// Program returns a loaded shader program
func (s *State) Program(name shaders.Name) gpu.Program {
	return s.Shaders.Get(name)
}

// Release frees everything the state owns. Safe on a partially built state.
func (s *State) Release() {
	if s.Targets != nil {
		s.Targets.Destroy()
	}
	s.ShadowMaps.Release()
	if s.Shaders != nil {
		s.Shaders.Release()
	}
	if s.Batcher != nil {
		s.Batcher.Release()
	}
	if s.Tables != nil {
		s.Tables.Release()
	}
}
