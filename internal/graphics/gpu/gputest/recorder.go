// Package gputest provides a gpu.Device that records commands instead of
// executing them, for testing passes without a GL context.
package gputest

import (
	"fmt"

	"deferred-gl/internal/graphics/gpu"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Op names a recorded command
type Op string

const (
	OpCreateFramebuffer Op = "CreateFramebuffer"
	OpDeleteFramebuffer Op = "DeleteFramebuffer"
	OpAttachTexture     Op = "AttachTexture"
	OpBindFramebuffer   Op = "BindFramebuffer"
	OpDrawBuffers       Op = "DrawBuffers"
	OpBlit              Op = "BlitFramebuffer"
	OpCreateTexture     Op = "CreateTexture"
	OpDeleteTexture     Op = "DeleteTexture"
	OpBindTextureUnit   Op = "BindTextureUnit"
	OpUploadTexture     Op = "UploadTexture2D"
	OpCreateBuffer      Op = "CreateBuffer"
	OpDeleteBuffer      Op = "DeleteBuffer"
	OpBufferSubData     Op = "BufferSubData"
	OpBindStorage       Op = "BindStorageBuffer"
	OpUploadIndirect    Op = "UploadIndirect"
	OpViewport          Op = "Viewport"
	OpEnable            Op = "Enable"
	OpDisable           Op = "Disable"
	OpDepthMask         Op = "DepthMask"
	OpCullBack          Op = "CullBackFaces"
	OpBlendAlpha        Op = "BlendAlpha"
	OpClearColorValue   Op = "ClearColorValue"
	OpClear             Op = "Clear"
	OpCreateVertexArray Op = "CreateVertexArray"
	OpDeleteVertexArray Op = "DeleteVertexArray"
	OpBindVertexArray   Op = "BindVertexArray"
	OpMultiDraw         Op = "MultiDrawElementsIndirect"
	OpDrawInstanced     Op = "DrawElementsInstancedBaseVertex"
	OpUseProgram        Op = "UseProgram"
	OpUniform           Op = "Uniform"
)

// Call is one recorded command. Framebuffer is whatever was bound when the
// command was issued.
type Call struct {
	Op          Op
	Framebuffer gpu.Handle
	Handle      gpu.Handle
	Attachment  gpu.Attachment
	Attachments []gpu.Attachment
	Mask        gpu.ClearMask
	Filter      gpu.Filter
	Cap         gpu.Cap
	Rect        gpu.Rect
	DstRect     gpu.Rect
	Src, Dst    gpu.Handle
	Count       int32
	Binding     uint32
	Data        []byte
	Program     string
	Uniform     string
	Value       any
}

// Texture records what a texture handle was created as
type Texture struct {
	Format gpu.Format
	Width  int32
	Height int32
	Cube   bool
}

// Recorder implements gpu.Device in memory
type Recorder struct {
	Calls []Call

	// FailAfter makes the nth allocation (1-based) fail; 0 disables
	FailAfter int

	Textures     map[gpu.Handle]Texture
	Framebuffers map[gpu.Handle]map[gpu.Attachment]gpu.Handle
	Buffers      map[gpu.Handle]int

	next        gpu.Handle
	allocs      int
	bound       gpu.Handle
	programs    map[string]*Program
	curProgram  string
	liveObjects map[gpu.Handle]Op
}

var _ gpu.Device = (*Recorder)(nil)

// NewRecorder returns an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{
		Textures:     make(map[gpu.Handle]Texture),
		Framebuffers: make(map[gpu.Handle]map[gpu.Attachment]gpu.Handle),
		Buffers:      make(map[gpu.Handle]int),
		programs:     make(map[string]*Program),
		liveObjects:  make(map[gpu.Handle]Op),
	}
}

func (r *Recorder) record(c Call) {
	c.Framebuffer = r.bound
	if c.Program == "" {
		c.Program = r.curProgram
	}
	r.Calls = append(r.Calls, c)
}

func (r *Recorder) alloc(kind Op) (gpu.Handle, error) {
	r.allocs++
	if r.FailAfter > 0 && r.allocs >= r.FailAfter {
		return 0, errors.Errorf("injected %s failure", kind)
	}
	r.next++
	r.liveObjects[r.next] = kind
	return r.next, nil
}

func (r *Recorder) release(h gpu.Handle) {
	delete(r.liveObjects, h)
}

// Live returns how many created objects have not been deleted
func (r *Recorder) Live() int {
	return len(r.liveObjects)
}

// Reset forgets recorded calls but keeps object state
func (r *Recorder) Reset() {
	r.Calls = nil
}

// Count returns how many calls of op were recorded
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Filter returns the calls of op, in order
func (r *Recorder) Filter(op Op) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// On returns every call issued while fb was bound
func (r *Recorder) On(fb gpu.Handle) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Framebuffer == fb && c.Op != OpBindFramebuffer {
			out = append(out, c)
		}
	}
	return out
}

// Index returns the position of the first call of op at or after from, or -1
func (r *Recorder) Index(op Op, from int) int {
	for i := from; i < len(r.Calls); i++ {
		if r.Calls[i].Op == op {
			return i
		}
	}
	return -1
}

// Program returns the recorded program by name, or nil
func (r *Recorder) Program(name string) *Program {
	return r.programs[name]
}

// Dump renders the call log for test failure messages
func (r *Recorder) Dump() string {
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, MaxDepth: 3}
	return cfg.Sdump(r.Calls)
}

func (r *Recorder) CreateFramebuffer() (gpu.Handle, error) {
	h, err := r.alloc(OpCreateFramebuffer)
	if err != nil {
		return 0, err
	}
	r.Framebuffers[h] = make(map[gpu.Attachment]gpu.Handle)
	r.record(Call{Op: OpCreateFramebuffer, Handle: h})
	return h, nil
}

func (r *Recorder) DeleteFramebuffer(fb gpu.Handle) {
	delete(r.Framebuffers, fb)
	r.release(fb)
	r.record(Call{Op: OpDeleteFramebuffer, Handle: fb})
}

func (r *Recorder) AttachTexture(fb gpu.Handle, at gpu.Attachment, tex gpu.Handle) error {
	atts, ok := r.Framebuffers[fb]
	if !ok {
		return errors.Errorf("framebuffer %d does not exist", fb)
	}
	if _, ok := r.Textures[tex]; !ok {
		return errors.Errorf("texture %d does not exist", tex)
	}
	atts[at] = tex
	r.record(Call{Op: OpAttachTexture, Handle: fb, Attachment: at, Src: tex})
	return nil
}

func (r *Recorder) BindFramebuffer(fb gpu.Handle) {
	r.bound = fb
	r.record(Call{Op: OpBindFramebuffer, Handle: fb})
}

// Bound returns the currently bound framebuffer
func (r *Recorder) Bound() gpu.Handle {
	return r.bound
}

func (r *Recorder) DrawBuffers(fb gpu.Handle, ats []gpu.Attachment) {
	r.record(Call{Op: OpDrawBuffers, Handle: fb, Attachments: append([]gpu.Attachment(nil), ats...)})
}

func (r *Recorder) BlitFramebuffer(src, dst gpu.Handle, srcAt, dstAt gpu.Attachment, srcRect, dstRect gpu.Rect, mask gpu.ClearMask, filter gpu.Filter) {
	r.record(Call{Op: OpBlit, Src: src, Dst: dst, Attachment: srcAt, Attachments: []gpu.Attachment{dstAt},
		Rect: srcRect, DstRect: dstRect, Mask: mask, Filter: filter})
}

func (r *Recorder) CreateTexture2D(format gpu.Format, width, height int32) (gpu.Handle, error) {
	h, err := r.alloc(OpCreateTexture)
	if err != nil {
		return 0, err
	}
	r.Textures[h] = Texture{Format: format, Width: width, Height: height}
	r.record(Call{Op: OpCreateTexture, Handle: h, Rect: gpu.Rect{W: width, H: height}})
	return h, nil
}

func (r *Recorder) CreateTextureCube(format gpu.Format, size int32) (gpu.Handle, error) {
	h, err := r.alloc(OpCreateTexture)
	if err != nil {
		return 0, err
	}
	r.Textures[h] = Texture{Format: format, Width: size, Height: size, Cube: true}
	r.record(Call{Op: OpCreateTexture, Handle: h, Rect: gpu.Rect{W: size, H: size}})
	return h, nil
}

func (r *Recorder) DeleteTexture(tex gpu.Handle) {
	delete(r.Textures, tex)
	r.release(tex)
	r.record(Call{Op: OpDeleteTexture, Handle: tex})
}

func (r *Recorder) BindTextureUnit(unit uint32, target gpu.TextureTarget, tex gpu.Handle) {
	r.record(Call{Op: OpBindTextureUnit, Binding: unit, Handle: tex, Value: target})
}

func (r *Recorder) UploadTexture2D(tex gpu.Handle, width, height int32, rgba []byte) {
	r.record(Call{Op: OpUploadTexture, Handle: tex, Rect: gpu.Rect{W: width, H: height}, Data: rgba})
}

// TextureHandle fakes a bindless handle derived from the texture name
func (r *Recorder) TextureHandle(tex gpu.Handle) uint64 {
	return 0x1000_0000_0000 | uint64(tex)
}

func (r *Recorder) CreateStorageBuffer(size int) (gpu.Handle, error) {
	h, err := r.alloc(OpCreateBuffer)
	if err != nil {
		return 0, err
	}
	r.Buffers[h] = size
	r.record(Call{Op: OpCreateBuffer, Handle: h, Count: int32(size)})
	return h, nil
}

func (r *Recorder) CreateBuffer() (gpu.Handle, error) {
	h, err := r.alloc(OpCreateBuffer)
	if err != nil {
		return 0, err
	}
	r.Buffers[h] = 0
	r.record(Call{Op: OpCreateBuffer, Handle: h})
	return h, nil
}

func (r *Recorder) DeleteBuffer(buf gpu.Handle) {
	delete(r.Buffers, buf)
	r.release(buf)
	r.record(Call{Op: OpDeleteBuffer, Handle: buf})
}

// BufferSubData panics on writes past the buffer's storage, like a GL error would abort a debug build
func (r *Recorder) BufferSubData(buf gpu.Handle, offset int, data []byte) {
	size, ok := r.Buffers[buf]
	if !ok {
		panic(fmt.Sprintf("BufferSubData on unknown buffer %d", buf))
	}
	if offset+len(data) > size {
		panic(fmt.Sprintf("BufferSubData overruns buffer %d: %d+%d > %d", buf, offset, len(data), size))
	}
	r.record(Call{Op: OpBufferSubData, Handle: buf, Count: int32(offset), Data: append([]byte(nil), data...)})
}

func (r *Recorder) BindStorageBuffer(binding uint32, buf gpu.Handle) {
	r.record(Call{Op: OpBindStorage, Binding: binding, Handle: buf})
}

func (r *Recorder) UploadIndirect(buf gpu.Handle, data []byte) {
	r.Buffers[buf] = len(data)
	r.record(Call{Op: OpUploadIndirect, Handle: buf, Data: append([]byte(nil), data...)})
}

func (r *Recorder) Viewport(rect gpu.Rect) {
	r.record(Call{Op: OpViewport, Rect: rect})
}

func (r *Recorder) Enable(c gpu.Cap) {
	r.record(Call{Op: OpEnable, Cap: c})
}

func (r *Recorder) Disable(c gpu.Cap) {
	r.record(Call{Op: OpDisable, Cap: c})
}

func (r *Recorder) DepthMask(write bool) {
	r.record(Call{Op: OpDepthMask, Value: write})
}

func (r *Recorder) CullBackFaces() {
	r.record(Call{Op: OpCullBack})
}

func (r *Recorder) BlendAlpha() {
	r.record(Call{Op: OpBlendAlpha})
}

func (r *Recorder) ClearColorValue(cr, cg, cb, ca float32) {
	r.record(Call{Op: OpClearColorValue, Value: [4]float32{cr, cg, cb, ca}})
}

func (r *Recorder) Clear(mask gpu.ClearMask) {
	r.record(Call{Op: OpClear, Mask: mask})
}

func (r *Recorder) CreateVertexArray(layout gpu.VertexLayout, vertices []byte, indices []uint32) (gpu.Handle, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return 0, errors.New("vertex array needs vertices and indices")
	}
	h, err := r.alloc(OpCreateVertexArray)
	if err != nil {
		return 0, err
	}
	r.record(Call{Op: OpCreateVertexArray, Handle: h, Count: int32(len(indices))})
	return h, nil
}

func (r *Recorder) DeleteVertexArray(vao gpu.Handle) {
	r.release(vao)
	r.record(Call{Op: OpDeleteVertexArray, Handle: vao})
}

func (r *Recorder) BindVertexArray(vao gpu.Handle) {
	r.record(Call{Op: OpBindVertexArray, Handle: vao})
}

func (r *Recorder) MultiDrawElementsIndirect(buf gpu.Handle, drawCount int32) {
	r.record(Call{Op: OpMultiDraw, Handle: buf, Count: drawCount})
}

func (r *Recorder) DrawElementsInstancedBaseVertex(indexCount, baseIndex uint32, instances int32, baseVertex uint32) {
	r.record(Call{Op: OpDrawInstanced, Count: instances, Value: [3]uint32{indexCount, baseIndex, baseVertex}})
}

func (r *Recorder) CreateProgram(src gpu.ShaderSources) (gpu.Program, error) {
	if src.Vertex == "" || src.Fragment == "" {
		return nil, errors.Errorf("shader %s: missing stage", src.Name)
	}
	p := &Program{Name: src.Name, Sources: src, Uniforms: make(map[string]any), rec: r}
	r.programs[src.Name] = p
	return p, nil
}

// Program records uniform state
type Program struct {
	Name     string
	Sources  gpu.ShaderSources
	Uniforms map[string]any
	Deleted  bool
	rec      *Recorder
}

func (p *Program) Use() {
	p.rec.curProgram = p.Name
	p.rec.record(Call{Op: OpUseProgram, Program: p.Name})
}

func (p *Program) set(name string, v any) {
	p.Uniforms[name] = v
	p.rec.record(Call{Op: OpUniform, Program: p.Name, Uniform: name, Value: v})
}

func (p *Program) SetInt(name string, v int32) { p.set(name, v) }
func (p *Program) SetFloat(name string, v float32) { p.set(name, v) }
func (p *Program) SetVec3(name string, v mgl32.Vec3) { p.set(name, v) }
func (p *Program) SetMat4(name string, m mgl32.Mat4) { p.set(name, m) }
func (p *Program) Delete() { p.Deleted = true }

func (p *Program) SetMat4Array(name string, ms []mgl32.Mat4) {
	p.set(name, append([]mgl32.Mat4(nil), ms...))
}
