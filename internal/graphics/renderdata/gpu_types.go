package renderdata

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// std430 record sizes
const (
	RenderItem3DSize = 144
	RenderItem2DSize = 80
	GPULightSize     = 32
	CameraDataSize   = 272
)

func (RenderItem3D) Size() int { return RenderItem3DSize }
func (RenderItem2D) Size() int { return RenderItem2DSize }
func (GPULight) Size() int { return GPULightSize }
func (CameraData) Size() int { return CameraDataSize }

// AppendTo writes the std430 layout:
// mat4 model @0, mat4 inverseModel @64, int meshIndex @128, int baseColor @132, int normal @136, int rma @140
func (r RenderItem3D) AppendTo(dst []byte) []byte {
	dst = appendMat4(dst, r.ModelMatrix)
	dst = appendMat4(dst, r.InverseModelMatrix)
	dst = appendInt(dst, r.MeshIndex)
	dst = appendInt(dst, r.BaseColorTextureIndex)
	dst = appendInt(dst, r.NormalTextureIndex)
	return appendInt(dst, r.RMATextureIndex)
}

// AppendTo writes mat4 model @0, vec3 tint @64, int texture @76
func (r RenderItem2D) AppendTo(dst []byte) []byte {
	dst = appendMat4(dst, r.ModelMatrix)
	dst = appendVec3(dst, r.ColorTint)
	return appendInt(dst, r.TextureIndex)
}

// AppendTo writes vec3 position @0, float radius @12, vec3 color @16, float strength @28
func (l GPULight) AppendTo(dst []byte) []byte {
	dst = appendVec3(dst, l.Position)
	dst = appendFloat(dst, l.Radius)
	dst = appendVec3(dst, l.Color)
	return appendFloat(dst, l.Strength)
}

// AppendTo writes four mat4 followed by the viewport vec4
func (c CameraData) AppendTo(dst []byte) []byte {
	dst = appendMat4(dst, c.Projection)
	dst = appendMat4(dst, c.ProjectionInverse)
	dst = appendMat4(dst, c.View)
	dst = appendMat4(dst, c.ViewInverse)
	dst = appendFloat(dst, c.ViewportWidth)
	dst = appendFloat(dst, c.ViewportHeight)
	dst = appendFloat(dst, c.ViewportOffsetX)
	return appendFloat(dst, c.ViewportOffsetY)
}

func appendFloat(dst []byte, f float32) []byte {
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
}

func appendInt(dst []byte, v int32) []byte {
	return binary.LittleEndian.AppendUint32(dst, uint32(v))
}

func appendVec3(dst []byte, v mgl32.Vec3) []byte {
	for _, f := range v {
		dst = appendFloat(dst, f)
	}
	return dst
}

// mgl32 matrices are column-major, matching GLSL
func appendMat4(dst []byte, m mgl32.Mat4) []byte {
	for _, f := range m {
		dst = appendFloat(dst, f)
	}
	return dst
}
