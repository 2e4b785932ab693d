// Package renderertest builds renderer state on a recording device.
package renderertest

import (
	"testing"

	"deferred-gl/internal/config"
	"deferred-gl/internal/graphics/gpu/gputest"
	"deferred-gl/internal/graphics/renderer"
)

// Config is a small configuration that keeps recorded allocations cheap
func Config() config.Config {
	cfg := config.Default()
	cfg.Window.Width = 320
	cfg.Window.Height = 180
	cfg.Renderer.ShadowMapSize = 16
	cfg.Renderer.MaxRenderItems3D = 64
	cfg.Renderer.MaxRenderItems2D = 64
	cfg.Renderer.TextureArraySize = 8
	cfg.Renderer.LoadingScreenRows = 4
	return cfg
}

// NewState builds a State on a fresh Recorder and clears the setup calls from its log
func NewState(t testing.TB) (*renderer.State, *gputest.Recorder) {
	t.Helper()
	rec := gputest.NewRecorder()
	st, err := renderer.NewState(rec, Config(), gputest.NewAssets())
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	t.Cleanup(st.Release)
	rec.Reset()
	return st, rec
}
