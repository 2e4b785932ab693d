// Package resource holds the fixed-capacity shader storage tables the passes read from.
package resource

import (
	"deferred-gl/internal/graphics/gpu"
	"deferred-gl/internal/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Shader storage binding points shared with the GLSL sources
const (
	BindingSamplers      uint32 = 0
	BindingRenderItems3D uint32 = 1
	BindingLights        uint32 = 2
	BindingCamera        uint32 = 3
	BindingRenderItems2D uint32 = 4
)

// Record is a value with a fixed std430 layout
type Record interface {
	Size() int
	AppendTo(dst []byte) []byte
}

// Table is a ring of equally sized storage buffers, one per frame in flight.
// Uploads go to the current slot; Advance moves to the next one at frame start.
type Table[T Record] struct {
	dev      gpu.Device
	name     string
	binding  uint32
	capacity int
	stride   int
	buffers  []gpu.Handle
	frame    int
	scratch  []byte
	overflow int
}

// NewTable allocates framesInFlight buffers of capacity records each
func NewTable[T Record](dev gpu.Device, name string, binding uint32, capacity, framesInFlight int) (*Table[T], error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(gpu.ErrResourceCreation, "table %s: capacity %d", name, capacity)
	}
	if framesInFlight < 1 {
		framesInFlight = 1
	}
	var zero T
	t := &Table[T]{
		dev:      dev,
		name:     name,
		binding:  binding,
		capacity: capacity,
		stride:   zero.Size(),
	}
	for i := 0; i < framesInFlight; i++ {
		buf, err := dev.CreateStorageBuffer(capacity * t.stride)
		if err != nil {
			t.Release()
			return nil, gpu.CreationFailed(err, "table %s slot %d", name, i)
		}
		t.buffers = append(t.buffers, buf)
	}
	return t, nil
}

// Upload writes items into the current slot in one transfer and binds it.
// Items past capacity are dropped; the returned count is what was written and
// err wraps ErrCapacityExceeded when anything was dropped.
func (t *Table[T]) Upload(items []T) (int, error) {
	n := len(items)
	var err error
	if n > t.capacity {
		dropped := n - t.capacity
		if dropped != t.overflow {
			logger.Log.Warn("storage table full, dropping records",
				zap.String("table", t.name), zap.Int("capacity", t.capacity), zap.Int("dropped", dropped))
		}
		t.overflow = dropped
		n = t.capacity
		err = errors.Wrapf(gpu.ErrCapacityExceeded, "table %s: %d records, capacity %d", t.name, len(items), t.capacity)
	} else {
		t.overflow = 0
	}

	if n > 0 {
		t.scratch = t.scratch[:0]
		for i := 0; i < n; i++ {
			t.scratch = items[i].AppendTo(t.scratch)
		}
		t.dev.BufferSubData(t.Current(), 0, t.scratch)
	}
	t.Bind()
	return n, err
}

// Bind attaches the current slot to the table's storage binding
func (t *Table[T]) Bind() {
	t.dev.BindStorageBuffer(t.binding, t.Current())
}

// Advance rotates to the next frame's buffer
func (t *Table[T]) Advance() {
	t.frame = (t.frame + 1) % len(t.buffers)
}

// Current is the buffer uploads go to this frame
func (t *Table[T]) Current() gpu.Handle {
	return t.buffers[t.frame]
}

func (t *Table[T]) Capacity() int { return t.capacity }
func (t *Table[T]) Binding() uint32 { return t.binding }
func (t *Table[T]) Slots() int { return len(t.buffers) }

// Release deletes every buffer. Safe to call twice.
func (t *Table[T]) Release() {
	if t == nil {
		return
	}
	for _, b := range t.buffers {
		t.dev.DeleteBuffer(b)
	}
	t.buffers = nil
}
