// Package shadowmap owns the omnidirectional shadow maps of point lights.
package shadowmap

import (
	"deferred-gl/internal/graphics/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// PoolSize is the number of lights that can cast shadows
const PoolSize = 16

// Slot pairs a frame buffer with the depth cube map it renders into. Slot i
// belongs to light i of the scene's light list.
type Slot struct {
	Framebuffer gpu.Handle
	DepthCube   gpu.Handle
}

// Pool is a fixed array of shadow slots, allocated together and released together
type Pool struct {
	dev   gpu.Device
	size  int32
	slots []Slot
}

// NewPool allocates PoolSize slots with cube maps of size x size texels
func NewPool(dev gpu.Device, size int) (*Pool, error) {
	p := &Pool{dev: dev, size: int32(size)}
	for i := 0; i < PoolSize; i++ {
		s, err := p.allocate()
		if err != nil {
			p.Release()
			return nil, gpu.CreationFailed(err, "shadow map %d", i)
		}
		p.slots = append(p.slots, s)
	}
	return p, nil
}

func (p *Pool) allocate() (Slot, error) {
	fb, err := p.dev.CreateFramebuffer()
	if err != nil {
		return Slot{}, err
	}
	cube, err := p.dev.CreateTextureCube(gpu.FormatDepth32F, p.size)
	if err != nil {
		p.dev.DeleteFramebuffer(fb)
		return Slot{}, err
	}
	if err := p.dev.AttachTexture(fb, gpu.AttachmentDepth, cube); err != nil {
		p.dev.DeleteTexture(cube)
		p.dev.DeleteFramebuffer(fb)
		return Slot{}, err
	}
	p.dev.DrawBuffers(fb, []gpu.Attachment{gpu.AttachmentNone})
	return Slot{Framebuffer: fb, DepthCube: cube}, nil
}

// Slot returns the slot for light i
func (p *Pool) Slot(i int) Slot {
	return p.slots[i]
}

// Len is the number of allocated slots
func (p *Pool) Len() int {
	return len(p.slots)
}

// Size is the edge length of each cube face in texels
func (p *Pool) Size() int32 {
	return p.size
}

// Release deletes every slot. Safe to call twice.
func (p *Pool) Release() {
	if p == nil {
		return
	}
	for _, s := range p.slots {
		p.dev.DeleteTexture(s.DepthCube)
		p.dev.DeleteFramebuffer(s.Framebuffer)
	}
	p.slots = nil
}

// cube face directions and up vectors in +X, -X, +Y, -Y, +Z, -Z order
var faces = [6]struct{ dir, up mgl32.Vec3 }{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, -1, 0}},
}

// FaceDirection returns the axis cube face i looks along
func FaceDirection(i int) mgl32.Vec3 {
	return faces[i].dir
}

// FaceMatrices returns the six 90 degree view-projections of a cube map centred on pos
func FaceMatrices(pos mgl32.Vec3, near, far float32) [6]mgl32.Mat4 {
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1, near, far)
	var out [6]mgl32.Mat4
	for i, f := range faces {
		out[i] = proj.Mul4(mgl32.LookAtV(pos, pos.Add(f.dir), f.up))
	}
	return out
}
