package renderdata

import (
	"encoding/binary"
	"math"
	"testing"

	"deferred-gl/internal/graphics/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

func TestRecordSizesMatchLayout(t *testing.T) {
	cases := []struct {
		name string
		size int
		got  int
	}{
		{"RenderItem3D", RenderItem3DSize, len(RenderItem3D{}.AppendTo(nil))},
		{"RenderItem2D", RenderItem2DSize, len(RenderItem2D{}.AppendTo(nil))},
		{"GPULight", GPULightSize, len(GPULight{}.AppendTo(nil))},
		{"CameraData", CameraDataSize, len(CameraData{}.AppendTo(nil))},
	}
	for _, c := range cases {
		if c.got != c.size {
			t.Errorf("%s: wrote %d bytes, want %d", c.name, c.got, c.size)
		}
		if c.size%16 != 0 {
			t.Errorf("%s: size %d is not 16-byte aligned", c.name, c.size)
		}
	}
}

func TestRenderItem3DMeshIndexOffset(t *testing.T) {
	item := NewRenderItem3D(7, mgl32.Translate3D(1, 2, 3))
	buf := item.AppendTo(nil)
	if got := int32(binary.LittleEndian.Uint32(buf[128:])); got != 7 {
		t.Errorf("mesh index at offset 128 = %d, want 7", got)
	}
	// translation lives in column 3 of a column-major matrix
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[12*4:])); got != 1 {
		t.Errorf("model[12] = %v, want 1", got)
	}
	if !item.ModelMatrix.Mul4(item.InverseModelMatrix).ApproxEqual(mgl32.Ident4()) {
		t.Errorf("inverse model matrix is not the inverse")
	}
}

func TestLightMoveMarksDirty(t *testing.T) {
	l := NewLight(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, 1, 5)
	if !l.Dirty {
		t.Fatalf("new light must start dirty")
	}
	l.Dirty = false
	l.MoveTo(mgl32.Vec3{})
	if l.Dirty {
		t.Errorf("moving to the same position must not dirty the light")
	}
	l.MoveTo(mgl32.Vec3{0, 1, 0})
	if !l.Dirty {
		t.Errorf("moving the light must dirty it")
	}
}

func TestCameraDataViewport(t *testing.T) {
	cd := NewCameraData(mgl32.Ident4(), mgl32.Perspective(1, 1, 0.1, 10), gpu.Rect{X: 5, Y: 6, W: 100, H: 50})
	if cd.ViewportWidth != 100 || cd.ViewportHeight != 50 || cd.ViewportOffsetX != 5 || cd.ViewportOffsetY != 6 {
		t.Errorf("viewport = %v %v %v %v", cd.ViewportWidth, cd.ViewportHeight, cd.ViewportOffsetX, cd.ViewportOffsetY)
	}
	if !cd.Projection.Mul4(cd.ProjectionInverse).ApproxEqualThreshold(mgl32.Ident4(), 1e-4) {
		t.Errorf("projection inverse mismatch")
	}
}
