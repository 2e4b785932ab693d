// Package batch turns render items into indirect draw commands and issues them.
package batch

import (
	"encoding/binary"

	"deferred-gl/internal/graphics/renderdata"
)

// DrawCommandSize is the byte size of one indirect elements command
const DrawCommandSize = 20

// DrawCommand matches the layout glMultiDrawElementsIndirect reads
type DrawCommand struct {
	VertexCount   uint32
	InstanceCount uint32
	FirstIndex    uint32
	BaseVertex    uint32
	BaseInstance  uint32
}

func (c DrawCommand) AppendTo(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, c.VertexCount)
	dst = binary.LittleEndian.AppendUint32(dst, c.InstanceCount)
	dst = binary.LittleEndian.AppendUint32(dst, c.FirstIndex)
	dst = binary.LittleEndian.AppendUint32(dst, c.BaseVertex)
	return binary.LittleEndian.AppendUint32(dst, c.BaseInstance)
}

// MeshLookup resolves a mesh index, reporting false for unknown meshes
type MeshLookup func(index int32) (renderdata.Mesh, bool)

// BuildCommands returns one single-instance command per item. Command i
// reads instance i of the 3D item table. Items whose mesh is unknown get a
// zero-count command so indices stay aligned.
func BuildCommands(items []renderdata.RenderItem3D, lookup MeshLookup) []DrawCommand {
	return appendCommands(make([]DrawCommand, 0, len(items)), items, lookup, nil)
}

func appendCommands(dst []DrawCommand, items []renderdata.RenderItem3D, lookup MeshLookup, missing func(int32)) []DrawCommand {
	for i, item := range items {
		mesh, ok := lookup(item.MeshIndex)
		if !ok {
			if missing != nil {
				missing(item.MeshIndex)
			}
			dst = append(dst, DrawCommand{BaseInstance: uint32(i)})
			continue
		}
		dst = append(dst, DrawCommand{
			VertexCount:   mesh.IndexCount,
			InstanceCount: 1,
			FirstIndex:    mesh.BaseIndex,
			BaseVertex:    mesh.BaseVertex,
			BaseInstance:  uint32(i),
		})
	}
	return dst
}
