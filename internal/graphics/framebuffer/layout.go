package framebuffer

import (
	"deferred-gl/internal/config"
	"deferred-gl/internal/graphics/gpu"
)

// TargetSize returns the per-player present size for a split-screen mode
func TargetSize(mode config.SplitscreenMode, outW, outH int) (int, int) {
	switch mode {
	case config.SplitscreenTwoPlayer:
		return outW, outH / 2
	case config.SplitscreenFourPlayer:
		return outW / 2, outH / 2
	default:
		return outW, outH
	}
}

// Regions lays the player viewports out on an outW x outH surface with a
// bottom-left origin. Player 0 is on top; in four player mode the order is
// top-left, top-right, bottom-left, bottom-right. Odd remainders go to the
// lower or right-hand region, so the regions always tile the surface.
func Regions(mode config.SplitscreenMode, outW, outH int) []gpu.Rect {
	w, h := int32(outW), int32(outH)
	switch mode {
	case config.SplitscreenTwoPlayer:
		half := h / 2
		return []gpu.Rect{
			{X: 0, Y: h - half, W: w, H: half},
			{X: 0, Y: 0, W: w, H: h - half},
		}
	case config.SplitscreenFourPlayer:
		halfW, halfH := w/2, h/2
		return []gpu.Rect{
			{X: 0, Y: h - halfH, W: halfW, H: halfH},
			{X: halfW, Y: h - halfH, W: w - halfW, H: halfH},
			{X: 0, Y: 0, W: halfW, H: h - halfH},
			{X: halfW, Y: 0, W: w - halfW, H: h - halfH},
		}
	default:
		return []gpu.Rect{{W: w, H: h}}
	}
}
