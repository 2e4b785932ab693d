// Package gpu is the narrow view of the graphics API the render core talks
// through. Handles are opaque; only a Device knows what they refer to.
package gpu

import "github.com/go-gl/mathgl/mgl32"

// Handle names a device object (frame buffer, texture, buffer, vertex array).
// Zero is "none" and, for frame buffers, the default surface.
type Handle uint32

// Format is a texture storage format
type Format int

const (
	FormatRGBA8 Format = iota
	FormatRGBA16F
	FormatDepth32F
	FormatDepth32FStencil8
)

// IsDepth reports whether the format belongs on a depth attachment
func (f Format) IsDepth() bool {
	return f == FormatDepth32F || f == FormatDepth32FStencil8
}

// Attachment is a frame buffer attachment point. Non-negative values are
// colour attachment indices.
type Attachment int

const (
	AttachmentNone  Attachment = -3
	AttachmentDepth Attachment = -2
	AttachmentBack  Attachment = -1 // back buffer of the default surface

	AttachmentDepthStencil Attachment = -4
)

// Cap is a fixed-function pipeline state toggled by Enable/Disable
type Cap int

const (
	CapDepthTest Cap = iota
	CapCullFace
	CapBlend
)

// ClearMask selects which buffers Clear and Blit touch
type ClearMask uint32

const (
	ClearColor ClearMask = 1 << iota
	ClearDepth
)

// Filter is the sampling used when a blit scales
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
)

// TextureTarget distinguishes 2D textures from cube maps when binding units
type TextureTarget int

const (
	Texture2D TextureTarget = iota
	TextureCube
)

// Rect is an integer region with a bottom-left origin
type Rect struct {
	X, Y, W, H int32
}

// Area returns W*H
func (r Rect) Area() int64 {
	return int64(r.W) * int64(r.H)
}

// Overlaps reports whether two rects share any pixel
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// AttribType is the component type of a vertex attribute
type AttribType int

const (
	AttribFloat AttribType = iota
	AttribInt
)

// VertexAttrib describes one interleaved attribute of a vertex layout
type VertexAttrib struct {
	Location   uint32
	Components int32
	Type       AttribType
	Offset     uint32
}

// VertexLayout is an interleaved vertex format
type VertexLayout struct {
	Stride  int32
	Attribs []VertexAttrib
}

// Program is a linked shader program. Uniform setters act on the program
// regardless of which one is currently in use.
type Program interface {
	Use()
	SetInt(name string, v int32)
	SetFloat(name string, v float32)
	SetVec3(name string, v mgl32.Vec3)
	SetMat4(name string, m mgl32.Mat4)
	SetMat4Array(name string, ms []mgl32.Mat4)
	Delete()
}

// ShaderSources holds GLSL stage sources; Geometry may be empty
type ShaderSources struct {
	Name     string
	Vertex   string
	Fragment string
	Geometry string
}

// Device issues commands onto the GPU command stream. All methods must be
// called from the goroutine that owns the context.
type Device interface {
	// Frame buffers
	CreateFramebuffer() (Handle, error)
	DeleteFramebuffer(fb Handle)
	AttachTexture(fb Handle, at Attachment, tex Handle) error
	BindFramebuffer(fb Handle)
	DrawBuffers(fb Handle, ats []Attachment)
	BlitFramebuffer(src, dst Handle, srcAt, dstAt Attachment, srcRect, dstRect Rect, mask ClearMask, filter Filter)

	// Textures
	CreateTexture2D(format Format, width, height int32) (Handle, error)
	CreateTextureCube(format Format, size int32) (Handle, error)
	DeleteTexture(tex Handle)
	BindTextureUnit(unit uint32, target TextureTarget, tex Handle)
	UploadTexture2D(tex Handle, width, height int32, rgba []byte)
	TextureHandle(tex Handle) uint64 // resident bindless handle

	// Buffers
	CreateStorageBuffer(size int) (Handle, error)
	CreateBuffer() (Handle, error)
	DeleteBuffer(buf Handle)
	BufferSubData(buf Handle, offset int, data []byte)
	BindStorageBuffer(binding uint32, buf Handle)
	UploadIndirect(buf Handle, data []byte)

	// State
	Viewport(r Rect)
	Enable(c Cap)
	Disable(c Cap)
	DepthMask(write bool)
	CullBackFaces()
	BlendAlpha()
	ClearColorValue(r, g, b, a float32)
	Clear(mask ClearMask)

	// Draws
	CreateVertexArray(layout VertexLayout, vertices []byte, indices []uint32) (Handle, error)
	DeleteVertexArray(vao Handle)
	BindVertexArray(vao Handle)
	MultiDrawElementsIndirect(buf Handle, drawCount int32)
	DrawElementsInstancedBaseVertex(indexCount, baseIndex uint32, instances int32, baseVertex uint32)

	// Programs
	CreateProgram(src ShaderSources) (Program, error)
}
