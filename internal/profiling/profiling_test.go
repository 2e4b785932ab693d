package profiling

import (
	"strings"
	"testing"
	"time"
)

func record(name string, d time.Duration) {
	mu.Lock()
	frameTotals[name] += d
	mu.Unlock()
}

func TestTrackAccumulates(t *testing.T) {
	Reset()
	stop := Track("renderer.ShadowPass")
	stop()
	stop = Track("renderer.ShadowPass")
	stop()
	if _, ok := Snapshot()["renderer.ShadowPass"]; !ok {
		t.Fatalf("tracked name missing from snapshot")
	}
}

func TestSumWithPrefix(t *testing.T) {
	Reset()
	record("renderer.GeometryPass", 2*time.Millisecond)
	record("renderer.LightingPass", 3*time.Millisecond)
	record("glfw.SwapBuffers", 7*time.Millisecond)
	if got := SumWithPrefix("renderer."); got != 5*time.Millisecond {
		t.Errorf("SumWithPrefix = %v, want 5ms", got)
	}
}

func TestResetFrameSmoothsAverages(t *testing.T) {
	Reset()
	record("renderer.UIPass", 10*time.Millisecond)
	ResetFrame()
	if got := Averages()["renderer.UIPass"]; got != 10*time.Millisecond {
		t.Fatalf("first average = %v, want the first sample", got)
	}
	if len(Snapshot()) != 0 {
		t.Errorf("frame totals not cleared")
	}

	// a frame without the stage pulls the average down
	ResetFrame()
	if got := Averages()["renderer.UIPass"]; got != 9*time.Millisecond {
		t.Errorf("average after idle frame = %v, want 9ms", got)
	}
	if Frames() != 2 {
		t.Errorf("frames = %d", Frames())
	}
}

func TestTopNOrdersByAverage(t *testing.T) {
	Reset()
	record("a", 1*time.Millisecond)
	record("b", 4*time.Millisecond)
	record("c", 2500*time.Microsecond)
	ResetFrame()

	got := TopN(2)
	if got != "b:4.0ms, c:2.5ms" {
		t.Errorf("TopN(2) = %q", got)
	}
	if n := strings.Count(TopN(10), ","); n != 2 {
		t.Errorf("TopN(10) should list all three entries")
	}
}
