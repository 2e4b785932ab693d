package batch

import (
	"testing"

	"deferred-gl/internal/graphics/gpu/gputest"
	"deferred-gl/internal/graphics/renderdata"
	"deferred-gl/internal/graphics/resource"
)

func BenchmarkBuildCommands(b *testing.B) {
	assets := gputest.NewAssets()
	scene := items(0, 4096)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = BuildCommands(scene, assets.MeshByIndex)
	}
}

func BenchmarkDrawStatic(b *testing.B) {
	rec := gputest.NewRecorder()
	table, err := resource.NewTable[renderdata.RenderItem3D](rec, "RenderItems3D", resource.BindingRenderItems3D, 4096, 2)
	if err != nil {
		b.Fatalf("NewTable: %v", err)
	}
	batcher, err := New(rec, gputest.NewAssets(), table, 4)
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	scene := items(1, 4096)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec.Reset()
		batcher.DrawStatic(scene)
	}
}
