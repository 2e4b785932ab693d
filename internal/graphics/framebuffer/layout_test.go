package framebuffer

import (
	"testing"

	"deferred-gl/internal/config"
)

func TestRegionsPartitionSurface(t *testing.T) {
	sizes := [][2]int{{1920, 1080}, {1281, 721}, {3, 3}, {1, 2}}
	modes := []config.SplitscreenMode{config.SplitscreenNone, config.SplitscreenTwoPlayer, config.SplitscreenFourPlayer}
	for _, size := range sizes {
		for _, mode := range modes {
			regions := Regions(mode, size[0], size[1])
			if len(regions) != mode.Viewports() {
				t.Errorf("%v %v: %d regions", mode, size, len(regions))
				continue
			}
			var area int64
			for i, r := range regions {
				if r.X < 0 || r.Y < 0 || int(r.X+r.W) > size[0] || int(r.Y+r.H) > size[1] {
					t.Errorf("%v %v: region %d %+v leaves the surface", mode, size, i, r)
				}
				area += r.Area()
				for j := i + 1; j < len(regions); j++ {
					if r.Overlaps(regions[j]) {
						t.Errorf("%v %v: regions %d and %d overlap", mode, size, i, j)
					}
				}
			}
			if area != int64(size[0])*int64(size[1]) {
				t.Errorf("%v %v: regions cover %d of %d pixels", mode, size, area, size[0]*size[1])
			}
		}
	}
}

func TestTwoPlayerPutsFirstPlayerOnTop(t *testing.T) {
	r := Regions(config.SplitscreenTwoPlayer, 1920, 1080)
	if r[0].Y != 540 || r[0].H != 540 || r[1].Y != 0 {
		t.Errorf("regions = %+v", r)
	}
}

func TestFourPlayerQuadrantOrder(t *testing.T) {
	r := Regions(config.SplitscreenFourPlayer, 1920, 1080)
	want := [][2]int32{{0, 540}, {960, 540}, {0, 0}, {960, 0}}
	for i, w := range want {
		if r[i].X != w[0] || r[i].Y != w[1] {
			t.Errorf("player %d at (%d,%d), want (%d,%d)", i, r[i].X, r[i].Y, w[0], w[1])
		}
	}
}

func TestTargetSize(t *testing.T) {
	tests := []struct {
		mode         config.SplitscreenMode
		wantW, wantH int
	}{
		{config.SplitscreenNone, 1920, 1080},
		{config.SplitscreenTwoPlayer, 1920, 540},
		{config.SplitscreenFourPlayer, 960, 540},
	}
	for _, tt := range tests {
		w, h := TargetSize(tt.mode, 1920, 1080)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("%v: %dx%d, want %dx%d", tt.mode, w, h, tt.wantW, tt.wantH)
		}
	}
}
