package framebuffer

import (
	"deferred-gl/internal/config"
	"deferred-gl/internal/graphics/gpu"
	"deferred-gl/internal/logger"

	"go.uber.org/zap"
)

// G-buffer attachment names, in draw buffer order
const (
	BaseColor     = "BaseColor"
	Normal        = "Normal"
	RMA           = "RMA"
	WorldPosition = "WorldPosition"
	Emissive      = "Emissive"

	// Color is the single attachment of the present, lighting and fixed targets
	Color = "Color"
)

// GBufferAttachments lists the geometry pass outputs in slot order
var GBufferAttachments = []string{BaseColor, Normal, RMA, WorldPosition, Emissive}

var gbufferFormats = map[string]gpu.Format{
	BaseColor:     gpu.FormatRGBA8,
	Normal:        gpu.FormatRGBA16F,
	RMA:           gpu.FormatRGBA8,
	WorldPosition: gpu.FormatRGBA16F,
	Emissive:      gpu.FormatRGBA8,
}

// Options sizes the fixed targets and the internal resolution factor
type Options struct {
	RenderScale         int
	LoadingScreenWidth  int
	LoadingScreenHeight int
	DebugMenuWidth      int
	DebugMenuHeight     int
}

// Set owns every render target: per-player Present, GBuffer and Lighting,
// plus the fixed-size LoadingScreen and DebugMenu targets
type Set struct {
	dev  gpu.Device
	opts Options

	Present       *FrameBuffer
	GBuffer       *FrameBuffer
	Lighting      *FrameBuffer
	LoadingScreen *FrameBuffer
	DebugMenu     *FrameBuffer
}

// NewSet creates the fixed targets. Player targets are created by Resize or CreatePlayerTargets.
func NewSet(dev gpu.Device, opts Options) (*Set, error) {
	if opts.RenderScale < 1 {
		opts.RenderScale = 1
	}
	s := &Set{dev: dev, opts: opts}
	var err error
	if s.LoadingScreen, err = createColorTarget(dev, "LoadingScreen", opts.LoadingScreenWidth, opts.LoadingScreenHeight); err != nil {
		return nil, err
	}
	if s.DebugMenu, err = createColorTarget(dev, "DebugMenu", opts.DebugMenuWidth, opts.DebugMenuHeight); err != nil {
		s.LoadingScreen.Destroy()
		return nil, err
	}
	return s, nil
}

// Resize recreates the player targets for mode at the given output size
func (s *Set) Resize(mode config.SplitscreenMode, outW, outH int) error {
	w, h := TargetSize(mode, outW, outH)
	logger.Log.Info("recreating player render targets",
		zap.Stringer("mode", mode), zap.Int("width", w), zap.Int("height", h))
	return s.CreatePlayerTargets(w, h)
}

// CreatePlayerTargets destroys the player targets and creates them again at
// present size w x h; the G-buffer and lighting targets use the render scale.
// On failure every player target is left destroyed.
func (s *Set) CreatePlayerTargets(w, h int) error {
	s.destroyPlayerTargets()

	var err error
	if s.Present, err = createColorTarget(s.dev, "Present", w, h); err != nil {
		return err
	}
	sw, sh := w*s.opts.RenderScale, h*s.opts.RenderScale
	if s.GBuffer, err = createGBuffer(s.dev, sw, sh); err != nil {
		s.destroyPlayerTargets()
		return err
	}
	if s.Lighting, err = createColorTarget(s.dev, "Lighting", sw, sh); err != nil {
		s.destroyPlayerTargets()
		return err
	}
	return nil
}

// PlayerTargets returns the targets recreated on resize
func (s *Set) PlayerTargets() []*FrameBuffer {
	return []*FrameBuffer{s.Present, s.GBuffer, s.Lighting}
}

// Destroy releases every target
func (s *Set) Destroy() {
	s.destroyPlayerTargets()
	s.LoadingScreen.Destroy()
	s.DebugMenu.Destroy()
}

func (s *Set) destroyPlayerTargets() {
	for _, fb := range s.PlayerTargets() {
		fb.Destroy()
	}
	s.Present, s.GBuffer, s.Lighting = nil, nil, nil
}

func createColorTarget(dev gpu.Device, name string, w, h int) (*FrameBuffer, error) {
	fb, err := Create(dev, name, w, h)
	if err != nil {
		return nil, err
	}
	if err := fb.CreateAttachment(Color, gpu.FormatRGBA8); err != nil {
		fb.Destroy()
		return nil, err
	}
	return fb, nil
}

func createGBuffer(dev gpu.Device, w, h int) (*FrameBuffer, error) {
	fb, err := Create(dev, "GBuffer", w, h)
	if err != nil {
		return nil, err
	}
	for _, name := range GBufferAttachments {
		if err := fb.CreateAttachment(name, gbufferFormats[name]); err != nil {
			fb.Destroy()
			return nil, err
		}
	}
	if err := fb.CreateDepthAttachment(gpu.FormatDepth32FStencil8); err != nil {
		fb.Destroy()
		return nil, err
	}
	return fb, nil
}
