package resource

import (
	"testing"

	"deferred-gl/internal/graphics/gpu/gputest"
	"deferred-gl/internal/graphics/renderdata"

	"github.com/go-gl/mathgl/mgl32"
)

func BenchmarkUploadRenderItems3D(b *testing.B) {
	rec := gputest.NewRecorder()
	table, err := NewTable[renderdata.RenderItem3D](rec, "RenderItems3D", BindingRenderItems3D, 4096, 2)
	if err != nil {
		b.Fatalf("NewTable: %v", err)
	}
	items := make([]renderdata.RenderItem3D, 4096)
	for i := range items {
		items[i] = renderdata.NewRenderItem3D(int32(i%3), mgl32.Translate3D(float32(i), 0, 0))
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec.Reset()
		_, _ = table.Upload(items)
		table.Advance()
	}
}
