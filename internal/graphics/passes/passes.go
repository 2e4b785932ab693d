// Package passes assembles the deferred pipeline.
package passes

import (
	"deferred-gl/internal/graphics/passes/geometry"
	"deferred-gl/internal/graphics/passes/lighting"
	"deferred-gl/internal/graphics/passes/present"
	"deferred-gl/internal/graphics/passes/shadow"
	"deferred-gl/internal/graphics/passes/ui"
	"deferred-gl/internal/graphics/renderer"
)

// Deferred returns the passes in pipeline order: shadow maps, G-buffer,
// lighting, UI, present
func Deferred() []renderer.Pass {
	return []renderer.Pass{
		shadow.New(),
		geometry.New(),
		lighting.New(),
		ui.New(),
		present.New(),
	}
}
