package renderer_test

import (
	"testing"

	"deferred-gl/internal/config"
	"deferred-gl/internal/graphics/gpu"
	"deferred-gl/internal/graphics/gpu/gputest"
	"deferred-gl/internal/graphics/passes"
	"deferred-gl/internal/graphics/passes/present"
	"deferred-gl/internal/graphics/renderdata"
	"deferred-gl/internal/graphics/renderer"
	"deferred-gl/internal/graphics/renderer/renderertest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

func newScene(cameras int) *gputest.Scene {
	s := &gputest.Scene{
		LightList: []*renderdata.Light{
			renderdata.NewLight(mgl32.Vec3{0, 3, 0}, mgl32.Vec3{1, 1, 1}, 1, 10),
		},
	}
	for i := 0; i < cameras; i++ {
		s.CameraList = append(s.CameraList, gputest.NewCamera(mgl32.Vec3{float32(i), 2, 5}))
	}
	return s
}

func newRenderer(t *testing.T, scene renderdata.SceneProvider, ps ...renderer.Pass) (*renderer.Renderer, *gputest.Recorder) {
	t.Helper()
	rec := gputest.NewRecorder()
	st, err := renderer.NewState(rec, renderertest.Config(), gputest.NewAssets())
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	if len(ps) == 0 {
		ps = passes.Deferred()
	}
	r, err := renderer.New(st, scene, ps...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rec.Reset()
	return r, rec
}

func withMode(t *testing.T, mode config.SplitscreenMode) {
	prev := config.GetSplitscreenMode()
	config.SetSplitscreenMode(mode)
	t.Cleanup(func() { config.SetSplitscreenMode(prev) })
}

func TestEmptyFrameOnlyDrawsLightingQuad(t *testing.T) {
	withMode(t, config.SplitscreenNone)
	r, rec := newRenderer(t, newScene(1))
	if err := r.RenderGame(&renderdata.RenderData{}); err != nil {
		t.Fatalf("RenderGame: %v", err)
	}
	if n := rec.Count(gputest.OpMultiDraw); n != 0 {
		t.Errorf("%d batch draws with no items", n)
	}
	draws := rec.Filter(gputest.OpDrawInstanced)
	if len(draws) != 1 || draws[0].Program != "lighting" {
		t.Errorf("draws = %+v, want only the lighting quad", draws)
	}
	if n := rec.Count(gputest.OpBlit); n != 2 {
		t.Errorf("blits = %d, want lighting->present and present->surface", n)
	}
}

func TestFrameOrder(t *testing.T) {
	withMode(t, config.SplitscreenNone)
	r, rec := newRenderer(t, newScene(1))
	data := &renderdata.RenderData{
		RenderItems3D: []renderdata.RenderItem3D{renderdata.NewRenderItem3D(0, mgl32.Ident4())},
		RenderItems2D: []renderdata.RenderItem2D{{ModelMatrix: mgl32.Ident4(), ColorTint: mgl32.Vec3{1, 1, 1}}},
	}
	if err := r.RenderGame(data); err != nil {
		t.Fatalf("RenderGame: %v", err)
	}

	// default surface cleared first
	if rec.Calls[0].Op != gputest.OpBindFramebuffer || rec.Calls[0].Handle != 0 {
		t.Errorf("frame does not start on the default surface: %+v", rec.Calls[0])
	}
	st := r.State()
	shadow := st.ShadowMaps.Slot(0).Framebuffer
	var order []gpu.Handle
	for _, c := range rec.Calls {
		if c.Op == gputest.OpMultiDraw || c.Op == gputest.OpDrawInstanced {
			order = append(order, c.Framebuffer)
		}
	}
	want := []gpu.Handle{shadow, st.Targets.GBuffer.Handle(), st.Targets.Lighting.Handle(), st.Targets.Present.Handle()}
	if len(order) != len(want) {
		t.Fatalf("draw targets = %v, want %v\n%s", order, want, rec.Dump())
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("draw %d on %d, want %d", i, order[i], want[i])
		}
	}
}

func TestFourPlayerRendersEveryViewport(t *testing.T) {
	withMode(t, config.SplitscreenFourPlayer)
	r, rec := newRenderer(t, newScene(4))
	if err := r.RenderGame(&renderdata.RenderData{}); err != nil {
		t.Fatalf("RenderGame: %v", err)
	}
	st := r.State()
	var surface []gputest.Call
	for _, b := range rec.Filter(gputest.OpBlit) {
		if b.Dst == 0 {
			surface = append(surface, b)
		}
	}
	if len(surface) != 4 {
		t.Fatalf("surface blits = %d, want 4", len(surface))
	}
	if surface[1].DstRect.X != int32(st.OutputWidth/2) || surface[2].DstRect.Y != 0 {
		t.Errorf("regions = %+v", surface)
	}
	if w := st.Targets.Present.Width(); int(w) != st.OutputWidth/2 {
		t.Errorf("present width = %d, want half the output", w)
	}
}

func TestViewportsLimitedByCameras(t *testing.T) {
	withMode(t, config.SplitscreenFourPlayer)
	r, rec := newRenderer(t, newScene(2))
	if err := r.RenderGame(&renderdata.RenderData{}); err != nil {
		t.Fatalf("RenderGame: %v", err)
	}
	if n := rec.Count(gputest.OpDrawInstanced); n != 2 {
		t.Errorf("lighting quads = %d, want one per camera", n)
	}
}

func TestRequestResizeAppliesAtFrameStart(t *testing.T) {
	withMode(t, config.SplitscreenNone)
	r, _ := newRenderer(t, newScene(2))
	st := r.State()
	fullH := st.Targets.Present.Height()

	config.SetSplitscreenMode(config.SplitscreenTwoPlayer)
	r.RequestResize()
	if st.Targets.Present.Height() != fullH {
		t.Fatalf("resize applied before the next frame")
	}
	if err := r.RenderGame(&renderdata.RenderData{}); err != nil {
		t.Fatalf("RenderGame: %v", err)
	}
	if r.Mode() != config.SplitscreenTwoPlayer {
		t.Errorf("mode = %v", r.Mode())
	}
	if got := st.Targets.Present.Height(); got*2 != fullH {
		t.Errorf("present height = %d, want %d", got, fullH/2)
	}
}

// resizer tries to recreate the targets mid-frame
type resizer struct {
	r   *renderer.Renderer
	err error
}

func (p *resizer) Name() string { return "Resizer" }
func (p *resizer) Stage() renderer.Stage { return renderer.PerFrame }
func (p *resizer) Init(*renderer.State) error { return nil }
func (p *resizer) Dispose() {}
func (p *resizer) Render(*renderer.FrameContext) error {
	p.err = p.r.ResizeRenderTargets()
	return nil
}

func TestResizeDuringFrameIsRejected(t *testing.T) {
	withMode(t, config.SplitscreenNone)
	rz := &resizer{}
	r, _ := newRenderer(t, newScene(1), rz, present.New())
	rz.r = r
	if err := r.RenderGame(&renderdata.RenderData{}); err != nil {
		t.Fatalf("RenderGame: %v", err)
	}
	if !errors.Is(rz.err, renderer.ErrResizeInFrame) {
		t.Errorf("mid-frame resize err = %v", rz.err)
	}
	if err := r.ResizeRenderTargets(); err != nil {
		t.Errorf("resize between frames: %v", err)
	}
}

func TestHotloadMarksLightsDirty(t *testing.T) {
	withMode(t, config.SplitscreenNone)
	scene := newScene(1)
	r, _ := newRenderer(t, scene)
	if err := r.RenderGame(&renderdata.RenderData{}); err != nil {
		t.Fatalf("RenderGame: %v", err)
	}
	if scene.LightList[0].Dirty {
		t.Fatalf("light still dirty after its shadow pass")
	}
	if err := r.HotloadShaders(); err != nil {
		t.Fatalf("HotloadShaders: %v", err)
	}
	if !scene.LightList[0].Dirty {
		t.Errorf("hotload did not mark lights dirty")
	}
}

func TestLoadingScreenNeedsUIPass(t *testing.T) {
	withMode(t, config.SplitscreenNone)
	r, _ := newRenderer(t, newScene(1), present.New())
	if err := r.RenderLoadingScreen(nil); !errors.Is(err, renderer.ErrNoLoadingScreen) {
		t.Errorf("err = %v", err)
	}

	r2, rec := newRenderer(t, newScene(1))
	if err := r2.RenderLoadingScreen(nil); err != nil {
		t.Fatalf("RenderLoadingScreen: %v", err)
	}
	if n := rec.Count(gputest.OpBlit); n != 1 {
		t.Errorf("blits = %d", n)
	}
}

func TestNewStateReleasesOnFailure(t *testing.T) {
	withMode(t, config.SplitscreenNone)
	// count allocations of a successful build
	rec := gputest.NewRecorder()
	st, err := renderer.NewState(rec, renderertest.Config(), gputest.NewAssets())
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	total := rec.Live()
	st.Release()
	if rec.Live() != 0 {
		t.Fatalf("%d objects leaked by Release", rec.Live())
	}

	for fail := 1; fail <= total; fail++ {
		rec := gputest.NewRecorder()
		rec.FailAfter = fail
		_, err := renderer.NewState(rec, renderertest.Config(), gputest.NewAssets())
		if !errors.Is(err, gpu.ErrResourceCreation) {
			t.Fatalf("fail at %d: err = %v", fail, err)
		}
		if rec.Live() != 0 {
			t.Errorf("fail at %d: %d objects leaked", fail, rec.Live())
		}
	}
}

func TestDisposeReleasesEverything(t *testing.T) {
	withMode(t, config.SplitscreenNone)
	rec := gputest.NewRecorder()
	st, err := renderer.NewState(rec, renderertest.Config(), gputest.NewAssets())
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	r, err := renderer.New(st, newScene(1), passes.Deferred()...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.Dispose()
	if rec.Live() != 0 {
		t.Errorf("%d objects leaked", rec.Live())
	}
}
