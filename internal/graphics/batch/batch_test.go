package batch

import (
	"encoding/binary"
	"testing"

	"deferred-gl/internal/graphics/gpu"
	"deferred-gl/internal/graphics/gpu/gputest"
	"deferred-gl/internal/graphics/renderdata"
	"deferred-gl/internal/graphics/resource"

	"github.com/go-gl/mathgl/mgl32"
)

func newBatcher(t *testing.T) (*Batcher, *gputest.Recorder, *gputest.Assets) {
	t.Helper()
	rec := gputest.NewRecorder()
	assets := gputest.NewAssets()
	items, err := resource.NewTable[renderdata.RenderItem3D](rec, "RenderItems3D", resource.BindingRenderItems3D, 64, 2)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	b, err := New(rec, assets, items, 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rec.Reset()
	return b, rec, assets
}

func skinnedSources() gpu.ShaderSources {
	return gpu.ShaderSources{Name: "skinned", Vertex: "void main(){}", Fragment: "void main(){}"}
}

func items(mesh int32, n int) []renderdata.RenderItem3D {
	out := make([]renderdata.RenderItem3D, n)
	for i := range out {
		out[i] = renderdata.NewRenderItem3D(mesh, mgl32.Translate3D(float32(i), 0, 0))
	}
	return out
}

func TestBuildCommandsOneMesh(t *testing.T) {
	assets := gputest.NewAssets()
	want := assets.Meshes[1]
	cmds := BuildCommands(items(1, 5), assets.MeshByIndex)
	if len(cmds) != 5 {
		t.Fatalf("commands = %d, want 5", len(cmds))
	}
	for i, c := range cmds {
		if c.InstanceCount != 1 {
			t.Errorf("cmd %d instance count = %d", i, c.InstanceCount)
		}
		if c.VertexCount != want.IndexCount || c.FirstIndex != want.BaseIndex || c.BaseVertex != want.BaseVertex {
			t.Errorf("cmd %d = %+v, want mesh %+v", i, c, want)
		}
		if c.BaseInstance != uint32(i) {
			t.Errorf("cmd %d base instance = %d", i, c.BaseInstance)
		}
	}
}

func TestBuildCommandsUnknownMeshKeepsAlignment(t *testing.T) {
	assets := gputest.NewAssets()
	in := append(items(0, 1), items(77, 1)...)
	in = append(in, items(1, 1)...)
	cmds := BuildCommands(in, assets.MeshByIndex)
	if len(cmds) != 3 {
		t.Fatalf("commands = %d", len(cmds))
	}
	if cmds[1].VertexCount != 0 || cmds[1].InstanceCount != 0 {
		t.Errorf("unknown mesh command = %+v, want empty", cmds[1])
	}
	if cmds[2].BaseInstance != 2 || cmds[2].VertexCount != assets.Meshes[1].IndexCount {
		t.Errorf("command after unknown mesh = %+v", cmds[2])
	}
}

func TestDrawCommandLayout(t *testing.T) {
	c := DrawCommand{VertexCount: 1, InstanceCount: 2, FirstIndex: 3, BaseVertex: 4, BaseInstance: 5}
	b := c.AppendTo(nil)
	if len(b) != DrawCommandSize {
		t.Fatalf("size = %d", len(b))
	}
	for i := 0; i < 5; i++ {
		if got := binary.LittleEndian.Uint32(b[i*4:]); got != uint32(i+1) {
			t.Errorf("field %d = %d", i, got)
		}
	}
}

func TestEmptyBatchesIssueNothing(t *testing.T) {
	b, rec, _ := newBatcher(t)
	prog, _ := rec.CreateProgram(skinnedSources())
	rec.Reset()

	b.DrawStatic(nil)
	b.DrawSkinned(renderdata.AnimatedRenderItem3D{}, prog)
	b.DrawQuadInstanced(0)
	if len(rec.Calls) != 0 {
		t.Errorf("empty batches issued calls:\n%s", rec.Dump())
	}
}

func TestDrawStaticIsOneTransferOneDraw(t *testing.T) {
	b, rec, _ := newBatcher(t)
	b.DrawStatic(items(0, 10))

	uploads := rec.Filter(gputest.OpUploadIndirect)
	if len(uploads) != 1 || len(uploads[0].Data) != 10*DrawCommandSize {
		t.Fatalf("indirect uploads = %+v", uploads)
	}
	draws := rec.Filter(gputest.OpMultiDraw)
	if len(draws) != 1 || draws[0].Count != 10 {
		t.Fatalf("multi draws = %+v", draws)
	}
	vaos := rec.Filter(gputest.OpBindVertexArray)
	if len(vaos) != 1 || vaos[0].Handle != gputest.StaticVAO {
		t.Errorf("vertex array = %+v", vaos)
	}
}

func TestDrawSkinnedUploadsBonesAndInstances(t *testing.T) {
	b, rec, _ := newBatcher(t)
	prog, _ := rec.CreateProgram(skinnedSources())
	rec.Reset()

	bones := make([]mgl32.Mat4, 6)
	for i := range bones {
		bones[i] = mgl32.Ident4()
	}
	group := renderdata.AnimatedRenderItem3D{RenderItems: items(0, 3), AnimatedTransforms: bones}
	b.DrawSkinned(group, prog)

	got, ok := rec.Program("skinned").Uniforms[SkinningUniform].([]mgl32.Mat4)
	if !ok || len(got) != 4 {
		t.Errorf("bones uploaded = %d, want clamp to 4", len(got))
	}
	if n := rec.Count(gputest.OpBufferSubData); n != 1 {
		t.Errorf("instance uploads = %d", n)
	}
	draws := rec.Filter(gputest.OpMultiDraw)
	if len(draws) != 1 || draws[0].Count != 3 {
		t.Fatalf("multi draws = %+v", draws)
	}
	vaos := rec.Filter(gputest.OpBindVertexArray)
	if len(vaos) != 1 || vaos[0].Handle != gputest.SkinnedVAO {
		t.Errorf("vertex array = %+v", vaos)
	}
}

func TestDrawSkinnedWithoutBonesUsesRestPose(t *testing.T) {
	b, rec, _ := newBatcher(t)
	prog, _ := rec.CreateProgram(skinnedSources())

	posed := []mgl32.Mat4{mgl32.HomogRotate3DZ(1), mgl32.Translate3D(0, 2, 0)}
	b.DrawSkinned(renderdata.AnimatedRenderItem3D{RenderItems: items(0, 1), AnimatedTransforms: posed}, prog)
	b.DrawSkinned(renderdata.AnimatedRenderItem3D{RenderItems: items(0, 2)}, prog)

	got, ok := rec.Program("skinned").Uniforms[SkinningUniform].([]mgl32.Mat4)
	if !ok || len(got) != 4 {
		t.Fatalf("bones uploaded = %v, want 4 identities", rec.Program("skinned").Uniforms[SkinningUniform])
	}
	for i, m := range got {
		if m != mgl32.Ident4() {
			t.Errorf("bone %d = %v, want identity", i, m)
		}
	}
	if n := rec.Count(gputest.OpMultiDraw); n != 2 {
		t.Errorf("multi draws = %d, want 2", n)
	}
}

func TestDrawQuadInstanced(t *testing.T) {
	b, rec, assets := newBatcher(t)
	b.DrawQuadInstanced(7)
	draws := rec.Filter(gputest.OpDrawInstanced)
	if len(draws) != 1 || draws[0].Count != 7 {
		t.Fatalf("draws = %+v", draws)
	}
	want := [3]uint32{assets.Quad.IndexCount, assets.Quad.BaseIndex, assets.Quad.BaseVertex}
	if draws[0].Value != want {
		t.Errorf("quad draw = %v, want %v", draws[0].Value, want)
	}
}
