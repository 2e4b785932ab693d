package resource

import (
	"encoding/binary"

	"deferred-gl/internal/graphics/gpu"
	"deferred-gl/internal/graphics/renderdata"
	"deferred-gl/internal/logger"

	"go.uber.org/zap"
)

// TextureHandle is a resident bindless texture handle as stored in the sampler table
type TextureHandle uint64

func (TextureHandle) Size() int { return 8 }

func (h TextureHandle) AppendTo(dst []byte) []byte {
	return binary.LittleEndian.AppendUint64(dst, uint64(h))
}

// Capacities sizes each table
type Capacities struct {
	RenderItems3D int
	RenderItems2D int
	Lights        int
	Textures      int
}

// Tables is the set of storage tables bound for a frame
type Tables struct {
	dev      gpu.Device
	caps     Capacities
	Camera   *Table[renderdata.CameraData]
	Lights   *Table[renderdata.GPULight]
	Items3D  *Table[renderdata.RenderItem3D]
	Items2D  *Table[renderdata.RenderItem2D]
	Samplers *Table[TextureHandle] // created by BindBindlessTextures

	lights []renderdata.GPULight
}

// NewTables allocates every per-frame table. On error nothing stays allocated.
func NewTables(dev gpu.Device, caps Capacities, framesInFlight int) (*Tables, error) {
	t := &Tables{dev: dev, caps: caps}
	var err error
	if t.Camera, err = NewTable[renderdata.CameraData](dev, "CameraData", BindingCamera, 1, framesInFlight); err != nil {
		return nil, err
	}
	if t.Lights, err = NewTable[renderdata.GPULight](dev, "Lights", BindingLights, caps.Lights, framesInFlight); err != nil {
		t.Release()
		return nil, err
	}
	if t.Items3D, err = NewTable[renderdata.RenderItem3D](dev, "RenderItems3D", BindingRenderItems3D, caps.RenderItems3D, framesInFlight); err != nil {
		t.Release()
		return nil, err
	}
	if t.Items2D, err = NewTable[renderdata.RenderItem2D](dev, "RenderItems2D", BindingRenderItems2D, caps.RenderItems2D, framesInFlight); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

// Advance rotates every per-frame ring
func (t *Tables) Advance() {
	t.Camera.Advance()
	t.Lights.Advance()
	t.Items3D.Advance()
	t.Items2D.Advance()
}

// UploadFrame writes the frame's 3D instance table and light list. Overflow
// is clamped and logged by the tables themselves. 2D items are uploaded by
// whoever composites them.
func (t *Tables) UploadFrame(data *renderdata.RenderData, lights []*renderdata.Light) {
	t.Items3D.Upload(data.RenderItems3D)

	t.lights = t.lights[:0]
	for _, l := range lights {
		t.lights = append(t.lights, l.ToGPU())
	}
	t.Lights.Upload(t.lights)
}

// UploadCamera writes one viewport's camera data
func (t *Tables) UploadCamera(cam renderdata.CameraData) {
	t.Camera.Upload([]renderdata.CameraData{cam})
}

// BindBindlessTextures uploads every asset texture handle into the sampler table
func (t *Tables) BindBindlessTextures(assets renderdata.AssetProvider) error {
	if t.Samplers == nil {
		s, err := NewTable[TextureHandle](t.dev, "Samplers", BindingSamplers, t.caps.Textures, 1)
		if err != nil {
			return err
		}
		t.Samplers = s
	}
	handles := make([]TextureHandle, assets.TextureCount())
	for i := range handles {
		handles[i] = TextureHandle(assets.TextureByIndex(i))
	}
	n, _ := t.Samplers.Upload(handles)
	logger.Log.Info("bindless textures bound", zap.Int("count", n))
	return nil
}

// Release deletes every table
func (t *Tables) Release() {
	t.Camera.Release()
	t.Lights.Release()
	t.Items3D.Release()
	t.Items2D.Release()
	t.Samplers.Release()
}
