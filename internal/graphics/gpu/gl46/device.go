// Package gl46 implements gpu.Device on an OpenGL 4.6 core context using
// direct state access. Bindless textures need GL_ARB_bindless_texture.
package gl46

import (
	"deferred-gl/internal/graphics/gpu"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/pkg/errors"
)

type meshBuffers struct {
	vbo uint32
	ebo uint32
}

// Device is the OpenGL implementation of gpu.Device
type Device struct {
	meshes map[gpu.Handle]meshBuffers
}

var _ gpu.Device = (*Device)(nil)

// New loads the GL function pointers for the current context
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "could not initialize OpenGL bindings")
	}
	return &Device{meshes: make(map[gpu.Handle]meshBuffers)}, nil
}

// Version returns the GL_VERSION string of the current context
func (d *Device) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (d *Device) CreateFramebuffer() (gpu.Handle, error) {
	var fb uint32
	gl.CreateFramebuffers(1, &fb)
	if fb == 0 {
		return 0, errors.New("glCreateFramebuffers returned 0")
	}
	return gpu.Handle(fb), nil
}

func (d *Device) DeleteFramebuffer(fb gpu.Handle) {
	h := uint32(fb)
	gl.DeleteFramebuffers(1, &h)
}

func (d *Device) AttachTexture(fb gpu.Handle, at gpu.Attachment, tex gpu.Handle) error {
	gl.NamedFramebufferTexture(uint32(fb), attachmentEnum(at), uint32(tex), 0)
	if status := gl.CheckNamedFramebufferStatus(uint32(fb), gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return errors.Errorf("framebuffer %d incomplete: status 0x%x", fb, status)
	}
	return nil
}

func (d *Device) BindFramebuffer(fb gpu.Handle) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
}

func (d *Device) DrawBuffers(fb gpu.Handle, ats []gpu.Attachment) {
	if len(ats) == 1 && ats[0] == gpu.AttachmentNone {
		gl.NamedFramebufferDrawBuffer(uint32(fb), gl.NONE)
		gl.NamedFramebufferReadBuffer(uint32(fb), gl.NONE)
		return
	}
	bufs := make([]uint32, len(ats))
	for i, at := range ats {
		bufs[i] = attachmentEnum(at)
	}
	gl.NamedFramebufferDrawBuffers(uint32(fb), int32(len(bufs)), &bufs[0])
}

func (d *Device) BlitFramebuffer(src, dst gpu.Handle, srcAt, dstAt gpu.Attachment, srcRect, dstRect gpu.Rect, mask gpu.ClearMask, filter gpu.Filter) {
	gl.NamedFramebufferReadBuffer(uint32(src), attachmentEnum(srcAt))
	gl.NamedFramebufferDrawBuffer(uint32(dst), attachmentEnum(dstAt))
	gl.BlitNamedFramebuffer(uint32(src), uint32(dst),
		srcRect.X, srcRect.Y, srcRect.X+srcRect.W, srcRect.Y+srcRect.H,
		dstRect.X, dstRect.Y, dstRect.X+dstRect.W, dstRect.Y+dstRect.H,
		clearBits(mask), filterEnum(filter))
}

func (d *Device) CreateTexture2D(format gpu.Format, width, height int32) (gpu.Handle, error) {
	var tex uint32
	gl.CreateTextures(gl.TEXTURE_2D, 1, &tex)
	if tex == 0 {
		return 0, errors.New("glCreateTextures returned 0")
	}
	gl.TextureStorage2D(tex, 1, formatEnum(format), width, height)
	gl.TextureParameteri(tex, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TextureParameteri(tex, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TextureParameteri(tex, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TextureParameteri(tex, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return gpu.Handle(tex), nil
}

func (d *Device) CreateTextureCube(format gpu.Format, size int32) (gpu.Handle, error) {
	var tex uint32
	gl.CreateTextures(gl.TEXTURE_CUBE_MAP, 1, &tex)
	if tex == 0 {
		return 0, errors.New("glCreateTextures returned 0")
	}
	gl.TextureStorage2D(tex, 1, formatEnum(format), size, size)
	gl.TextureParameteri(tex, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TextureParameteri(tex, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TextureParameteri(tex, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TextureParameteri(tex, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TextureParameteri(tex, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	return gpu.Handle(tex), nil
}

func (d *Device) DeleteTexture(tex gpu.Handle) {
	h := uint32(tex)
	gl.DeleteTextures(1, &h)
}

func (d *Device) BindTextureUnit(unit uint32, _ gpu.TextureTarget, tex gpu.Handle) {
	// DSA binding infers the target from the texture object
	gl.BindTextureUnit(unit, uint32(tex))
}

func (d *Device) UploadTexture2D(tex gpu.Handle, width, height int32, rgba []byte) {
	if len(rgba) == 0 {
		return
	}
	gl.TextureSubImage2D(uint32(tex), 0, 0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))
	gl.GenerateTextureMipmap(uint32(tex))
}

func (d *Device) TextureHandle(tex gpu.Handle) uint64 {
	h := gl.GetTextureHandleARB(uint32(tex))
	gl.MakeTextureHandleResidentARB(h)
	return h
}

func (d *Device) CreateStorageBuffer(size int) (gpu.Handle, error) {
	var buf uint32
	gl.CreateBuffers(1, &buf)
	if buf == 0 {
		return 0, errors.New("glCreateBuffers returned 0")
	}
	gl.NamedBufferStorage(buf, size, nil, gl.DYNAMIC_STORAGE_BIT)
	return gpu.Handle(buf), nil
}

func (d *Device) CreateBuffer() (gpu.Handle, error) {
	var buf uint32
	gl.CreateBuffers(1, &buf)
	if buf == 0 {
		return 0, errors.New("glCreateBuffers returned 0")
	}
	return gpu.Handle(buf), nil
}

func (d *Device) DeleteBuffer(buf gpu.Handle) {
	h := uint32(buf)
	gl.DeleteBuffers(1, &h)
}

func (d *Device) BufferSubData(buf gpu.Handle, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.NamedBufferSubData(uint32(buf), offset, len(data), gl.Ptr(data))
}

func (d *Device) BindStorageBuffer(binding uint32, buf gpu.Handle) {
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, binding, uint32(buf))
}

func (d *Device) UploadIndirect(buf gpu.Handle, data []byte) {
	if len(data) == 0 {
		return
	}
	// Orphan and respecify so the previous batch's commands stay valid for in-flight draws
	gl.NamedBufferData(uint32(buf), len(data), gl.Ptr(data), gl.DYNAMIC_DRAW)
}

func (d *Device) Viewport(r gpu.Rect) {
	gl.Viewport(r.X, r.Y, r.W, r.H)
}

func (d *Device) Enable(c gpu.Cap) {
	gl.Enable(capEnum(c))
}

func (d *Device) Disable(c gpu.Cap) {
	gl.Disable(capEnum(c))
}

func (d *Device) DepthMask(write bool) {
	gl.DepthMask(write)
}

func (d *Device) CullBackFaces() {
	gl.CullFace(gl.BACK)
}

func (d *Device) BlendAlpha() {
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.BlendEquation(gl.FUNC_ADD)
}

func (d *Device) ClearColorValue(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *Device) Clear(mask gpu.ClearMask) {
	gl.Clear(clearBits(mask))
}

func (d *Device) CreateVertexArray(layout gpu.VertexLayout, vertices []byte, indices []uint32) (gpu.Handle, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return 0, errors.New("vertex array needs vertices and indices")
	}
	var vao, vbo, ebo uint32
	gl.CreateVertexArrays(1, &vao)
	gl.CreateBuffers(1, &vbo)
	gl.CreateBuffers(1, &ebo)
	if vao == 0 || vbo == 0 || ebo == 0 {
		return 0, errors.New("could not allocate vertex array objects")
	}
	gl.NamedBufferStorage(vbo, len(vertices), gl.Ptr(vertices), 0)
	gl.NamedBufferStorage(ebo, len(indices)*4, gl.Ptr(indices), 0)

	gl.VertexArrayVertexBuffer(vao, 0, vbo, 0, layout.Stride)
	gl.VertexArrayElementBuffer(vao, ebo)
	for _, a := range layout.Attribs {
		gl.EnableVertexArrayAttrib(vao, a.Location)
		if a.Type == gpu.AttribInt {
			gl.VertexArrayAttribIFormat(vao, a.Location, a.Components, gl.INT, a.Offset)
		} else {
			gl.VertexArrayAttribFormat(vao, a.Location, a.Components, gl.FLOAT, false, a.Offset)
		}
		gl.VertexArrayAttribBinding(vao, a.Location, 0)
	}

	h := gpu.Handle(vao)
	d.meshes[h] = meshBuffers{vbo: vbo, ebo: ebo}
	return h, nil
}

func (d *Device) DeleteVertexArray(vao gpu.Handle) {
	if m, ok := d.meshes[vao]; ok {
		gl.DeleteBuffers(1, &m.vbo)
		gl.DeleteBuffers(1, &m.ebo)
		delete(d.meshes, vao)
	}
	h := uint32(vao)
	gl.DeleteVertexArrays(1, &h)
}

func (d *Device) BindVertexArray(vao gpu.Handle) {
	gl.BindVertexArray(uint32(vao))
}

func (d *Device) MultiDrawElementsIndirect(buf gpu.Handle, drawCount int32) {
	gl.BindBuffer(gl.DRAW_INDIRECT_BUFFER, uint32(buf))
	gl.MultiDrawElementsIndirect(gl.TRIANGLES, gl.UNSIGNED_INT, nil, drawCount, 0)
}

func (d *Device) DrawElementsInstancedBaseVertex(indexCount, baseIndex uint32, instances int32, baseVertex uint32) {
	gl.DrawElementsInstancedBaseVertex(gl.TRIANGLES, int32(indexCount), gl.UNSIGNED_INT,
		gl.PtrOffset(int(baseIndex)*4), instances, int32(baseVertex))
}

func attachmentEnum(at gpu.Attachment) uint32 {
	switch at {
	case gpu.AttachmentNone:
		return gl.NONE
	case gpu.AttachmentBack:
		return gl.BACK
	case gpu.AttachmentDepth:
		return gl.DEPTH_ATTACHMENT
	case gpu.AttachmentDepthStencil:
		return gl.DEPTH_STENCIL_ATTACHMENT
	}
	return gl.COLOR_ATTACHMENT0 + uint32(at)
}

func formatEnum(f gpu.Format) uint32 {
	switch f {
	case gpu.FormatRGBA16F:
		return gl.RGBA16F
	case gpu.FormatDepth32F:
		return gl.DEPTH_COMPONENT32F
	case gpu.FormatDepth32FStencil8:
		return gl.DEPTH32F_STENCIL8
	}
	return gl.RGBA8
}

func capEnum(c gpu.Cap) uint32 {
	switch c {
	case gpu.CapCullFace:
		return gl.CULL_FACE
	case gpu.CapBlend:
		return gl.BLEND
	}
	return gl.DEPTH_TEST
}

func clearBits(mask gpu.ClearMask) uint32 {
	var bits uint32
	if mask&gpu.ClearColor != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&gpu.ClearDepth != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	return bits
}

func filterEnum(f gpu.Filter) uint32 {
	if f == gpu.FilterLinear {
		return gl.LINEAR
	}
	return gl.NEAREST
}
