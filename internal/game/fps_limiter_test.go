package game

import (
	"testing"
	"time"
)

func TestFPSLimiterDisabled(t *testing.T) {
	f := NewFPSLimiter(0)
	start := time.Now()
	for i := 0; i < 100; i++ {
		f.Wait(false)
	}
	if d := time.Since(start); d > 50*time.Millisecond {
		t.Fatalf("disabled limiter blocked for %v", d)
	}
}

func TestFPSLimiterPacesFrames(t *testing.T) {
	f := NewFPSLimiter(100)
	start := time.Now()
	for i := 0; i < 5; i++ {
		f.Wait(false)
	}
	if d := time.Since(start); d < 45*time.Millisecond {
		t.Fatalf("5 frames at 100 fps took %v", d)
	}
}

func TestFPSLimiterCapsWhilePaused(t *testing.T) {
	f := NewFPSLimiter(0)
	start := time.Now()
	f.Wait(true)
	f.Wait(true)
	if d := time.Since(start); d < 60*time.Millisecond {
		t.Fatalf("two paused frames took %v", d)
	}
}
