package framebuffer

import "deferred-gl/internal/graphics/gpu"

// BlitTo copies a colour attachment into one of dst's, scaling to dst's size
func (f *FrameBuffer) BlitTo(dst *FrameBuffer, srcName, dstName string, filter gpu.Filter) error {
	srcSlot, err := f.ColorAttachmentSlot(srcName)
	if err != nil {
		return err
	}
	dstSlot, err := dst.ColorAttachmentSlot(dstName)
	if err != nil {
		return err
	}
	f.dev.BlitFramebuffer(f.handle, dst.handle, srcSlot, dstSlot, f.Bounds(), dst.Bounds(), gpu.ClearColor, filter)
	return nil
}

// BlitToSurface copies a colour attachment into region of the default surface's back buffer
func (f *FrameBuffer) BlitToSurface(srcName string, region gpu.Rect, filter gpu.Filter) error {
	srcSlot, err := f.ColorAttachmentSlot(srcName)
	if err != nil {
		return err
	}
	f.dev.BlitFramebuffer(f.handle, 0, srcSlot, gpu.AttachmentBack, f.Bounds(), region, gpu.ClearColor, filter)
	return nil
}
