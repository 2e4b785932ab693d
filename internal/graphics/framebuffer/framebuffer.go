// Package framebuffer manages render targets and their named attachments.
// Targets are never resized in place; a size change destroys and recreates them.
package framebuffer

import (
	"deferred-gl/internal/graphics/gpu"
	"deferred-gl/internal/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type attachment struct {
	name    string
	slot    gpu.Attachment
	format  gpu.Format
	texture gpu.Handle
}

// FrameBuffer is a render target with ordered named colour attachments and an optional depth attachment
type FrameBuffer struct {
	dev    gpu.Device
	name   string
	handle gpu.Handle
	width  int32
	height int32
	colors []attachment
	depth  *attachment
}

// Create allocates an empty target of fixed size
func Create(dev gpu.Device, name string, width, height int) (*FrameBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(gpu.ErrResourceCreation, "frame buffer %s: invalid size %dx%d", name, width, height)
	}
	h, err := dev.CreateFramebuffer()
	if err != nil {
		return nil, gpu.CreationFailed(err, "frame buffer %s", name)
	}
	logger.Log.Debug("frame buffer created",
		zap.String("target", name), zap.Int("width", width), zap.Int("height", height))
	return &FrameBuffer{
		dev:    dev,
		name:   name,
		handle: h,
		width:  int32(width),
		height: int32(height),
	}, nil
}

// CreateAttachment adds a colour attachment in the next free slot
func (f *FrameBuffer) CreateAttachment(name string, format gpu.Format) error {
	if f.handle == 0 {
		return errors.Wrapf(gpu.ErrResourceCreation, "frame buffer %s is destroyed", f.name)
	}
	if format.IsDepth() {
		return errors.Errorf("frame buffer %s: %q uses a depth format, use CreateDepthAttachment", f.name, name)
	}
	if _, ok := f.find(name); ok {
		return errors.Errorf("frame buffer %s: attachment %q already exists", f.name, name)
	}
	tex, err := f.dev.CreateTexture2D(format, f.width, f.height)
	if err != nil {
		return gpu.CreationFailed(err, "frame buffer %s attachment %s", f.name, name)
	}
	slot := gpu.Attachment(len(f.colors))
	if err := f.dev.AttachTexture(f.handle, slot, tex); err != nil {
		f.dev.DeleteTexture(tex)
		return gpu.CreationFailed(err, "frame buffer %s attachment %s", f.name, name)
	}
	f.colors = append(f.colors, attachment{name: name, slot: slot, format: format, texture: tex})
	return nil
}

// CreateDepthAttachment adds the depth (or depth-stencil) attachment
func (f *FrameBuffer) CreateDepthAttachment(format gpu.Format) error {
	if f.handle == 0 {
		return errors.Wrapf(gpu.ErrResourceCreation, "frame buffer %s is destroyed", f.name)
	}
	if !format.IsDepth() {
		return errors.Errorf("frame buffer %s: depth attachment needs a depth format", f.name)
	}
	if f.depth != nil {
		return errors.Errorf("frame buffer %s already has a depth attachment", f.name)
	}
	tex, err := f.dev.CreateTexture2D(format, f.width, f.height)
	if err != nil {
		return gpu.CreationFailed(err, "frame buffer %s depth attachment", f.name)
	}
	slot := gpu.AttachmentDepth
	if format == gpu.FormatDepth32FStencil8 {
		slot = gpu.AttachmentDepthStencil
	}
	if err := f.dev.AttachTexture(f.handle, slot, tex); err != nil {
		f.dev.DeleteTexture(tex)
		return gpu.CreationFailed(err, "frame buffer %s depth attachment", f.name)
	}
	f.depth = &attachment{name: "Depth", slot: slot, format: format, texture: tex}
	return nil
}

// Destroy releases the target and all attachment textures. Safe to call twice.
func (f *FrameBuffer) Destroy() {
	if f == nil || f.handle == 0 {
		return
	}
	for _, a := range f.colors {
		f.dev.DeleteTexture(a.texture)
	}
	if f.depth != nil {
		f.dev.DeleteTexture(f.depth.texture)
	}
	f.dev.DeleteFramebuffer(f.handle)
	f.colors = nil
	f.depth = nil
	f.handle = 0
}

// Bind makes this target the draw destination
func (f *FrameBuffer) Bind() {
	f.dev.BindFramebuffer(f.handle)
}

// SetViewport covers the whole target
func (f *FrameBuffer) SetViewport() {
	f.dev.Viewport(f.Bounds())
}

func (f *FrameBuffer) Name() string { return f.name }
func (f *FrameBuffer) Handle() gpu.Handle { return f.handle }
func (f *FrameBuffer) Width() int32 { return f.width }
func (f *FrameBuffer) Height() int32 { return f.height }

// Bounds is the full target rectangle
func (f *FrameBuffer) Bounds() gpu.Rect {
	return gpu.Rect{W: f.width, H: f.height}
}

// ColorAttachmentCount returns how many colour attachments are registered
func (f *FrameBuffer) ColorAttachmentCount() int {
	return len(f.colors)
}

// AttachmentNames lists colour attachments in slot order
func (f *FrameBuffer) AttachmentNames() []string {
	names := make([]string, len(f.colors))
	for i, a := range f.colors {
		names[i] = a.name
	}
	return names
}

// ColorAttachmentSlot returns the attachment point registered under name
func (f *FrameBuffer) ColorAttachmentSlot(name string) (gpu.Attachment, error) {
	a, ok := f.find(name)
	if !ok {
		return gpu.AttachmentNone, errors.Wrapf(gpu.ErrAttachmentNotFound, "frame buffer %s has no attachment %q", f.name, name)
	}
	return a.slot, nil
}

// ColorAttachmentHandle returns the texture registered under name
func (f *FrameBuffer) ColorAttachmentHandle(name string) (gpu.Handle, error) {
	a, ok := f.find(name)
	if !ok {
		return 0, errors.Wrapf(gpu.ErrAttachmentNotFound, "frame buffer %s has no attachment %q", f.name, name)
	}
	return a.texture, nil
}

// DepthAttachmentHandle returns the depth texture
func (f *FrameBuffer) DepthAttachmentHandle() (gpu.Handle, error) {
	if f.depth == nil {
		return 0, errors.Wrapf(gpu.ErrAttachmentNotFound, "frame buffer %s has no depth attachment", f.name)
	}
	return f.depth.texture, nil
}

// DrawBuffers routes fragment outputs 0..n-1 to the named attachments
func (f *FrameBuffer) DrawBuffers(names ...string) error {
	slots := make([]gpu.Attachment, len(names))
	for i, n := range names {
		s, err := f.ColorAttachmentSlot(n)
		if err != nil {
			return err
		}
		slots[i] = s
	}
	f.dev.DrawBuffers(f.handle, slots)
	return nil
}

func (f *FrameBuffer) find(name string) (attachment, bool) {
	for _, a := range f.colors {
		if a.name == name {
			return a, true
		}
	}
	return attachment{}, false
}
