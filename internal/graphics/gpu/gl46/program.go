package gl46

import (
	"strings"

	"deferred-gl/internal/graphics/gpu"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Program is a linked GL shader program with a uniform location cache
type Program struct {
	ID        uint32
	name      string
	locations map[string]int32
}

func (d *Device) CreateProgram(src gpu.ShaderSources) (gpu.Program, error) {
	id, err := compileProgram(src)
	if err != nil {
		return nil, errors.Wrapf(err, "shader %s", src.Name)
	}
	return &Program{ID: id, name: src.Name, locations: make(map[string]int32)}, nil
}

// Use activates the shader program
func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

func (p *Program) SetInt(name string, v int32) {
	gl.ProgramUniform1i(p.ID, p.location(name), v)
}

func (p *Program) SetFloat(name string, v float32) {
	gl.ProgramUniform1f(p.ID, p.location(name), v)
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	gl.ProgramUniform3f(p.ID, p.location(name), v.X(), v.Y(), v.Z())
}

func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	gl.ProgramUniformMatrix4fv(p.ID, p.location(name), 1, false, &m[0])
}

// SetMat4Array uploads consecutive matrices starting at name[0]
func (p *Program) SetMat4Array(name string, ms []mgl32.Mat4) {
	if len(ms) == 0 {
		return
	}
	gl.ProgramUniformMatrix4fv(p.ID, p.location(name+"[0]"), int32(len(ms)), false, &ms[0][0])
}

// Delete releases the program object
func (p *Program) Delete() {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}

func (p *Program) location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.ID, gl.Str(name+"\x00"))
	p.locations[name] = loc
	return loc
}

func compileProgram(src gpu.ShaderSources) (uint32, error) {
	stages := []struct {
		source string
		kind   uint32
	}{
		{src.Vertex, gl.VERTEX_SHADER},
		{src.Geometry, gl.GEOMETRY_SHADER},
		{src.Fragment, gl.FRAGMENT_SHADER},
	}

	program := gl.CreateProgram()
	var shaders []uint32
	defer func() {
		for _, s := range shaders {
			gl.DeleteShader(s)
		}
	}()

	for _, st := range stages {
		if st.source == "" {
			continue
		}
		s, err := compileShader(st.source, st.kind)
		if err != nil {
			gl.DeleteProgram(program)
			return 0, err
		}
		shaders = append(shaders, s)
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, errors.Errorf("failed to link program: %v", log)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, errors.Errorf("failed to compile %s: %v", stageName(shaderType), log)
	}
	return shader, nil
}

func stageName(kind uint32) string {
	switch kind {
	case gl.VERTEX_SHADER:
		return "vertex shader"
	case gl.GEOMETRY_SHADER:
		return "geometry shader"
	}
	return "fragment shader"
}
