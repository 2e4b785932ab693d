package shadow

import (
	"testing"

	"deferred-gl/internal/graphics/gpu"
	"deferred-gl/internal/graphics/gpu/gputest"
	"deferred-gl/internal/graphics/renderdata"
	"deferred-gl/internal/graphics/renderer"
	"deferred-gl/internal/graphics/renderer/renderertest"
	"deferred-gl/internal/graphics/shadowmap"

	"github.com/go-gl/mathgl/mgl32"
)

func scene() *renderdata.RenderData {
	return &renderdata.RenderData{
		RenderItems3D: []renderdata.RenderItem3D{
			renderdata.NewRenderItem3D(0, mgl32.Ident4()),
			renderdata.NewRenderItem3D(1, mgl32.Translate3D(0, -1, 0)),
		},
	}
}

func light(x float32) *renderdata.Light {
	return renderdata.NewLight(mgl32.Vec3{x, 2, 0}, mgl32.Vec3{1, 1, 1}, 1, 10)
}

func drawsOn(rec *gputest.Recorder, fb gpu.Handle) (clears, draws int) {
	for _, c := range rec.On(fb) {
		switch c.Op {
		case gputest.OpClear:
			clears++
		case gputest.OpMultiDraw:
			draws++
		}
	}
	return
}

func TestCleanLightIsSkipped(t *testing.T) {
	st, rec := renderertest.NewState(t)
	lights := []*renderdata.Light{light(0), light(5)}
	pass := New()
	ctx := &renderer.FrameContext{State: st, Data: scene(), Lights: lights}
	if err := pass.Render(ctx); err != nil {
		t.Fatalf("Render: %v", err)
	}
	rec.Reset()

	lights[1].Dirty = true
	if err := pass.Render(ctx); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if c, d := drawsOn(rec, st.ShadowMaps.Slot(0).Framebuffer); c != 0 || d != 0 {
		t.Errorf("clean light slot: %d clears, %d draws", c, d)
	}
	if c, d := drawsOn(rec, st.ShadowMaps.Slot(1).Framebuffer); c != 1 || d != 1 {
		t.Errorf("dirty light slot: %d clears, %d draws; want 1 and 1\n%s", c, d, rec.Dump())
	}
	if lights[1].Dirty {
		t.Errorf("dirty flag not cleared after rendering")
	}
}

func TestCleanLightNewToSlotIsDrawn(t *testing.T) {
	st, rec := renderertest.NewState(t)
	l := light(0)
	l.Dirty = false
	ctx := &renderer.FrameContext{State: st, Data: scene(), Lights: []*renderdata.Light{l}}
	if err := New().Render(ctx); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if c, d := drawsOn(rec, st.ShadowMaps.Slot(0).Framebuffer); c != 1 || d != 1 {
		t.Errorf("first frame: %d clears, %d draws; want 1 and 1", c, d)
	}
}

func TestRemovedLightShiftsSlots(t *testing.T) {
	st, rec := renderertest.NewState(t)
	a, b := light(0), light(5)
	pass := New()
	if err := pass.Render(&renderer.FrameContext{State: st, Data: scene(), Lights: []*renderdata.Light{a, b}}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	rec.Reset()

	// b moves from slot 1 to slot 0, which still holds a's depth
	if err := pass.Render(&renderer.FrameContext{State: st, Data: scene(), Lights: []*renderdata.Light{b}}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if c, d := drawsOn(rec, st.ShadowMaps.Slot(0).Framebuffer); c != 1 || d != 1 {
		t.Errorf("slot 0 after shift: %d clears, %d draws; want 1 and 1", c, d)
	}
	if got := rec.Program("shadowMap").Uniforms["lightPosition"]; got != b.Position {
		t.Errorf("lightPosition = %v, want %v", got, b.Position)
	}
	rec.Reset()

	// a returns in slot 1, which was vacated by the shrink
	if err := pass.Render(&renderer.FrameContext{State: st, Data: scene(), Lights: []*renderdata.Light{b, a}}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if c, d := drawsOn(rec, st.ShadowMaps.Slot(0).Framebuffer); c != 0 || d != 0 {
		t.Errorf("slot 0 redrawn: %d clears, %d draws", c, d)
	}
	if c, d := drawsOn(rec, st.ShadowMaps.Slot(1).Framebuffer); c != 1 || d != 1 {
		t.Errorf("slot 1: %d clears, %d draws; want 1 and 1", c, d)
	}
}

func TestSwappedLightsRedrawBothSlots(t *testing.T) {
	st, rec := renderertest.NewState(t)
	a, b := light(0), light(5)
	pass := New()
	_ = pass.Render(&renderer.FrameContext{State: st, Data: scene(), Lights: []*renderdata.Light{a, b}})
	rec.Reset()

	_ = pass.Render(&renderer.FrameContext{State: st, Data: scene(), Lights: []*renderdata.Light{b, a}})
	if n := rec.Count(gputest.OpMultiDraw); n != 2 {
		t.Errorf("swapped lights: %d draws, want 2", n)
	}
}

func TestDirtyLightUploadsCubeFaces(t *testing.T) {
	st, rec := renderertest.NewState(t)
	l := light(3)
	ctx := &renderer.FrameContext{State: st, Data: scene(), Lights: []*renderdata.Light{l}}
	if err := New().Render(ctx); err != nil {
		t.Fatalf("Render: %v", err)
	}

	prog := rec.Program("shadowMap")
	got, ok := prog.Uniforms["shadowMatrices"].([]mgl32.Mat4)
	if !ok || len(got) != 6 {
		t.Fatalf("shadowMatrices = %v", prog.Uniforms["shadowMatrices"])
	}
	want := shadowmap.FaceMatrices(l.Position, st.Config.ShadowNearPlane, st.Config.ShadowFarPlane)
	for i := range want {
		if !got[i].ApproxEqual(want[i]) {
			t.Errorf("face %d matrix differs", i)
		}
	}
	if prog.Uniforms["lightPosition"] != l.Position {
		t.Errorf("lightPosition = %v", prog.Uniforms["lightPosition"])
	}
	if prog.Uniforms["farPlane"] != st.Config.ShadowFarPlane {
		t.Errorf("farPlane = %v", prog.Uniforms["farPlane"])
	}
}

func TestSecondFrameSkipsRenderedLights(t *testing.T) {
	st, rec := renderertest.NewState(t)
	lights := []*renderdata.Light{light(0), light(1)}
	pass := New()
	ctx := &renderer.FrameContext{State: st, Data: scene(), Lights: lights}
	_ = pass.Render(ctx)
	rec.Reset()

	_ = pass.Render(ctx)
	if n := rec.Count(gputest.OpMultiDraw); n != 0 {
		t.Errorf("clean frame issued %d draws", n)
	}

	lights[1].MoveTo(mgl32.Vec3{9, 9, 9})
	_ = pass.Render(ctx)
	if n := rec.Count(gputest.OpMultiDraw); n != 1 {
		t.Errorf("moved light: %d draws, want 1", n)
	}
}

func TestLightsBeyondPoolAreTruncated(t *testing.T) {
	st, rec := renderertest.NewState(t)
	lights := make([]*renderdata.Light, shadowmap.PoolSize+4)
	for i := range lights {
		lights[i] = light(float32(i))
	}
	ctx := &renderer.FrameContext{State: st, Data: scene(), Lights: lights}
	if err := New().Render(ctx); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if n := rec.Count(gputest.OpMultiDraw); n != shadowmap.PoolSize {
		t.Errorf("draws = %d, want %d", n, shadowmap.PoolSize)
	}
	for i := shadowmap.PoolSize; i < len(lights); i++ {
		if !lights[i].Dirty {
			t.Errorf("light %d has no slot but was marked clean", i)
		}
	}
}

func TestNoItemsNoDraws(t *testing.T) {
	st, rec := renderertest.NewState(t)
	ctx := &renderer.FrameContext{State: st, Data: &renderdata.RenderData{}, Lights: []*renderdata.Light{light(0)}}
	if err := New().Render(ctx); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if n := rec.Count(gputest.OpMultiDraw); n != 0 {
		t.Errorf("draws = %d with no items", n)
	}
}
