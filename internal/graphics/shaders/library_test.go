package shaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"deferred-gl/internal/config"
	"deferred-gl/internal/graphics/gpu/gputest"
)

func TestLoadBuildsEveryProgram(t *testing.T) {
	rec := gputest.NewRecorder()
	lib := NewLibrary(rec, "")
	if err := lib.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, name := range Names() {
		if lib.Get(name) == nil {
			t.Errorf("program %s missing", name)
		}
	}
	shadow := rec.Program(string(ShadowMap))
	if !strings.Contains(shadow.Sources.Geometry, "shadowMatrices") {
		t.Errorf("shadow program has no geometry stage")
	}
	if rec.Program(string(GBuffer)).Sources.Geometry != "" {
		t.Errorf("g-buffer program has a geometry stage")
	}
}

func TestOverrideDirTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	override := "#version 460 core\n// overridden\nvoid main() {}\n"
	if err := os.WriteFile(filepath.Join(dir, "ui.frag"), []byte(override), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rec := gputest.NewRecorder()
	lib := NewLibrary(rec, dir)
	if err := lib.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := rec.Program(string(UI)).Sources.Fragment; got != override {
		t.Errorf("ui.frag not taken from override dir")
	}
	if !strings.Contains(rec.Program(string(UI)).Sources.Vertex, "RenderItems2D") {
		t.Errorf("ui.vert should still come from the embedded set")
	}
}

func TestReloadDeletesOldPrograms(t *testing.T) {
	rec := gputest.NewRecorder()
	lib := NewLibrary(rec, "")
	if err := lib.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	old := rec.Program(string(Lighting))
	if err := lib.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !old.Deleted {
		t.Errorf("previous program not deleted on reload")
	}
	if rec.Program(string(Lighting)).Deleted {
		t.Errorf("new program deleted")
	}
}

func TestFailedReloadKeepsPreviousPrograms(t *testing.T) {
	dir := t.TempDir()
	rec := gputest.NewRecorder()
	lib := NewLibrary(rec, dir)
	if err := lib.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	before := lib.Get(ShadowMap)

	// an empty vertex stage fails to compile
	if err := os.WriteFile(filepath.Join(dir, "shadowMap.vert"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := lib.Load(); err == nil {
		t.Fatalf("expected compile failure")
	}
	if lib.Get(ShadowMap) != before {
		t.Errorf("failed reload replaced the shadow program")
	}
}

func TestSkinnedPaletteMatchesBoneLimit(t *testing.T) {
	src, err := embedded.ReadFile("glsl/gbufferSkinned.vert")
	if err != nil {
		t.Fatalf("read shader: %v", err)
	}
	want := fmt.Sprintf("const int MAX_BONES = %d;", config.SkinningPaletteSize)
	if !strings.Contains(string(src), want) {
		t.Errorf("gbufferSkinned.vert does not declare %q", want)
	}
}
