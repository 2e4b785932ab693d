package demo

import (
	"encoding/binary"
	"math"

	"deferred-gl/internal/graphics/gpu"
	"deferred-gl/internal/graphics/renderdata"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex strides in bytes: pos3 normal3 uv2 tangent3, plus ivec4 bone ids
// and vec4 weights for skinned vertices
const (
	StaticStride  = 44
	SkinnedStride = 76
)

// StaticLayout matches the attribute locations of the geometry shaders
var StaticLayout = gpu.VertexLayout{
	Stride: StaticStride,
	Attribs: []gpu.VertexAttrib{
		{Location: 0, Components: 3, Type: gpu.AttribFloat, Offset: 0},
		{Location: 1, Components: 3, Type: gpu.AttribFloat, Offset: 12},
		{Location: 2, Components: 2, Type: gpu.AttribFloat, Offset: 24},
		{Location: 3, Components: 3, Type: gpu.AttribFloat, Offset: 32},
	},
}

// SkinnedLayout extends StaticLayout with bone influences
var SkinnedLayout = gpu.VertexLayout{
	Stride: SkinnedStride,
	Attribs: append(append([]gpu.VertexAttrib(nil), StaticLayout.Attribs...),
		gpu.VertexAttrib{Location: 4, Components: 4, Type: gpu.AttribInt, Offset: 44},
		gpu.VertexAttrib{Location: 5, Components: 4, Type: gpu.AttribFloat, Offset: 60},
	),
}

type vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
	Tangent  mgl32.Vec3
	Bones    [4]int32
	Weights  mgl32.Vec4
}

// meshBuilder packs meshes back to back into one vertex and index stream
type meshBuilder struct {
	skinned  bool
	vertices []byte
	indices  []uint32
	count    uint32
}

func (b *meshBuilder) add(verts []vertex, indices []uint32) renderdata.Mesh {
	m := renderdata.Mesh{
		IndexCount: uint32(len(indices)),
		BaseIndex:  uint32(len(b.indices)),
		BaseVertex: b.count,
	}
	for _, v := range verts {
		b.vertices = appendVertex(b.vertices, v, b.skinned)
	}
	b.indices = append(b.indices, indices...)
	b.count += uint32(len(verts))
	return m
}

func (b *meshBuilder) layout() gpu.VertexLayout {
	if b.skinned {
		return SkinnedLayout
	}
	return StaticLayout
}

func appendVertex(dst []byte, v vertex, skinned bool) []byte {
	dst = appendFloats(dst, v.Position[:]...)
	dst = appendFloats(dst, v.Normal[:]...)
	dst = appendFloats(dst, v.UV[:]...)
	dst = appendFloats(dst, v.Tangent[:]...)
	if !skinned {
		return dst
	}
	for _, b := range v.Bones {
		dst = binary.LittleEndian.AppendUint32(dst, uint32(b))
	}
	return appendFloats(dst, v.Weights[:]...)
}

func appendFloats(dst []byte, fs ...float32) []byte {
	for _, f := range fs {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}

// quad covers NDC in the XY plane
func quad() ([]vertex, []uint32) {
	n := mgl32.Vec3{0, 0, 1}
	t := mgl32.Vec3{1, 0, 0}
	verts := []vertex{
		{Position: mgl32.Vec3{-1, -1, 0}, Normal: n, UV: mgl32.Vec2{0, 0}, Tangent: t},
		{Position: mgl32.Vec3{1, -1, 0}, Normal: n, UV: mgl32.Vec2{1, 0}, Tangent: t},
		{Position: mgl32.Vec3{1, 1, 0}, Normal: n, UV: mgl32.Vec2{1, 1}, Tangent: t},
		{Position: mgl32.Vec3{-1, 1, 0}, Normal: n, UV: mgl32.Vec2{0, 1}, Tangent: t},
	}
	return verts, []uint32{0, 1, 2, 0, 2, 3}
}

// face is one side of a box: its normal, tangent and bitangent
type face struct {
	normal, tangent, bitangent mgl32.Vec3
}

var boxFaces = []face{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
}

// cube is a unit cube centred on the origin with per-face normals
func cube() ([]vertex, []uint32) {
	var verts []vertex
	var indices []uint32
	corners := [4]mgl32.Vec2{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, f := range boxFaces {
		base := uint32(len(verts))
		for _, c := range corners {
			p := f.normal.Add(f.tangent.Mul(c[0])).Add(f.bitangent.Mul(c[1])).Mul(0.5)
			verts = append(verts, vertex{
				Position: p,
				Normal:   f.normal,
				UV:       mgl32.Vec2{(c[0] + 1) / 2, (c[1] + 1) / 2},
				Tangent:  f.tangent,
			})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return verts, indices
}

// plane is a unit square in XZ facing +Y
func plane() ([]vertex, []uint32) {
	n := mgl32.Vec3{0, 1, 0}
	t := mgl32.Vec3{1, 0, 0}
	verts := []vertex{
		{Position: mgl32.Vec3{-0.5, 0, 0.5}, Normal: n, UV: mgl32.Vec2{0, 0}, Tangent: t},
		{Position: mgl32.Vec3{0.5, 0, 0.5}, Normal: n, UV: mgl32.Vec2{1, 0}, Tangent: t},
		{Position: mgl32.Vec3{0.5, 0, -0.5}, Normal: n, UV: mgl32.Vec2{1, 1}, Tangent: t},
		{Position: mgl32.Vec3{-0.5, 0, -0.5}, Normal: n, UV: mgl32.Vec2{0, 1}, Tangent: t},
	}
	return verts, []uint32{0, 1, 2, 0, 2, 3}
}

// column is a square pillar of height 1 split into segments rings, weighted
// between bone 0 at the base and bone 1 at the top
func column(segments int) ([]vertex, []uint32) {
	var verts []vertex
	var indices []uint32
	for _, f := range boxFaces {
		if f.normal.Y() != 0 {
			continue
		}
		base := uint32(len(verts))
		for k := 0; k <= segments; k++ {
			h := float32(k) / float32(segments)
			for _, side := range [2]float32{-1, 1} {
				p := f.normal.Add(f.tangent.Mul(side)).Mul(0.25)
				p[1] = h
				verts = append(verts, vertex{
					Position: p,
					Normal:   f.normal,
					UV:       mgl32.Vec2{(side + 1) / 2, h},
					Tangent:  f.tangent,
					Bones:    [4]int32{0, 1, 0, 0},
					Weights:  mgl32.Vec4{1 - h, h, 0, 0},
				})
			}
		}
		for k := uint32(0); k < uint32(segments); k++ {
			i := base + k*2
			indices = append(indices, i, i+1, i+3, i, i+3, i+2)
		}
	}
	return verts, indices
}
