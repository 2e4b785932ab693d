// Package shaders compiles the render core's GLSL programs. Sources are
// embedded; a directory of same-named files can override them for hotloading.
package shaders

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"

	"deferred-gl/internal/graphics/gpu"
	"deferred-gl/internal/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

//go:embed glsl
var embedded embed.FS

// Name identifies a program
type Name string

const (
	GBuffer        Name = "gbuffer"
	GBufferSkinned Name = "gbufferSkinned"
	Lighting       Name = "lighting"
	UI             Name = "ui"
	ShadowMap      Name = "shadowMap"
)

type programFiles struct {
	vertex, fragment, geometry string
}

var programs = map[Name]programFiles{
	GBuffer:        {"gbuffer.vert", "gbuffer.frag", ""},
	GBufferSkinned: {"gbufferSkinned.vert", "gbuffer.frag", ""},
	Lighting:       {"lighting.vert", "lighting.frag", ""},
	UI:             {"ui.vert", "ui.frag", ""},
	ShadowMap:      {"shadowMap.vert", "shadowMap.frag", "shadowMap.geom"},
}

// Names lists every program the library builds
func Names() []Name {
	return []Name{GBuffer, GBufferSkinned, Lighting, UI, ShadowMap}
}

// Library owns the compiled programs
type Library struct {
	dev      gpu.Device
	dir      string
	programs map[Name]gpu.Program
}

// NewLibrary returns an empty library. dir may be empty.
func NewLibrary(dev gpu.Device, dir string) *Library {
	return &Library{dev: dev, dir: dir, programs: make(map[Name]gpu.Program)}
}

// Load compiles every program. If any program fails the previous set stays
// in use and nothing new is kept.
func (l *Library) Load() error {
	next := make(map[Name]gpu.Program, len(programs))
	for _, name := range Names() {
		src, err := l.sources(name)
		if err != nil {
			deleteAll(next)
			return err
		}
		p, err := l.dev.CreateProgram(src)
		if err != nil {
			deleteAll(next)
			return errors.Wrapf(err, "compile %s", name)
		}
		next[name] = p
	}
	deleteAll(l.programs)
	l.programs = next
	logger.Log.Info("shaders loaded", zap.Int("programs", len(next)), zap.String("override_dir", l.dir))
	return nil
}

// Get returns a loaded program, or nil before the first Load
func (l *Library) Get(name Name) gpu.Program {
	return l.programs[name]
}

// Release deletes every program
func (l *Library) Release() {
	deleteAll(l.programs)
	l.programs = make(map[Name]gpu.Program)
}

func (l *Library) sources(name Name) (gpu.ShaderSources, error) {
	files := programs[name]
	src := gpu.ShaderSources{Name: string(name)}
	var err error
	if src.Vertex, err = l.read(files.vertex); err != nil {
		return src, err
	}
	if src.Fragment, err = l.read(files.fragment); err != nil {
		return src, err
	}
	if files.geometry != "" {
		if src.Geometry, err = l.read(files.geometry); err != nil {
			return src, err
		}
	}
	return src, nil
}

func (l *Library) read(file string) (string, error) {
	if l.dir != "" {
		data, err := os.ReadFile(filepath.Join(l.dir, file))
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", errors.Wrapf(err, "read shader %s", file)
		}
	}
	data, err := embedded.ReadFile("glsl/" + file)
	if err != nil {
		return "", errors.Wrapf(err, "embedded shader %s", file)
	}
	return string(data), nil
}

func deleteAll(ps map[Name]gpu.Program) {
	for _, p := range ps {
		p.Delete()
	}
}
