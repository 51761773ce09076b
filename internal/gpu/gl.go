// Package gpu talks to OpenGL. It implements the upload side used by the
// asset manager and the draw side used by the render loop. Every call must
// happen on the thread that owns the context raylib created.
package gpu

import (
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"satviz/internal/assets"
	"satviz/internal/logging"
)

const floatSize = 4

// GL is an OpenGL 3.3+ core-profile device.
type GL struct {
	log zerolog.Logger
}

// New loads the GL entry points for the current context and checks that the
// driver offers what the shaders need.
func New(log zerolog.Logger) (*GL, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "gpu: init OpenGL")
	}

	caps := QueryCapabilities()
	log = logging.Component(log, "gpu")
	log.Info().
		Str("version", caps.Version).
		Str("glsl", caps.ShadingLanguageVersion).
		Str("renderer", caps.Renderer).
		Msg("OpenGL context")
	if err := caps.Check(); err != nil {
		return nil, err
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0, 0, 0, 1)
	return &GL{log: log}, nil
}

func (g *GL) CreateMesh(vertices []float32, indices []uint32, layout []assets.Attribute) (assets.MeshHandles, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return assets.MeshHandles{}, errors.New("gpu: empty mesh")
	}
	var h assets.MeshHandles

	gl.GenBuffers(1, &h.VertexBuffer)
	gl.BindBuffer(gl.ARRAY_BUFFER, h.VertexBuffer)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*floatSize, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	gl.GenBuffers(1, &h.IndexBuffer)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, h.IndexBuffer)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	gl.GenVertexArrays(1, &h.VertexArray)
	gl.BindVertexArray(h.VertexArray)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, h.IndexBuffer)
	gl.BindBuffer(gl.ARRAY_BUFFER, h.VertexBuffer)

	stride := int32(assets.FloatsPerVertex * floatSize)
	for _, a := range layout {
		gl.EnableVertexAttribArray(a.Index)
		gl.VertexAttribPointerWithOffset(a.Index, a.Size, gl.FLOAT, false, stride, uintptr(a.Offset*floatSize))
	}
	gl.BindVertexArray(0)

	if err := releaseOnError(checkError("create mesh"), func() { g.DeleteMesh(h) }); err != nil {
		return assets.MeshHandles{}, err
	}
	return h, nil
}

func (*GL) DeleteMesh(h assets.MeshHandles) {
	gl.DeleteVertexArrays(1, &h.VertexArray)
	gl.DeleteBuffers(1, &h.VertexBuffer)
	gl.DeleteBuffers(1, &h.IndexBuffer)
}

func (g *GL) CreateTexture(width, height int, bgra []byte) (uint32, error) {
	var handle uint32
	gl.GenTextures(1, &handle)
	gl.BindTexture(gl.TEXTURE_2D, handle)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0, gl.BGRA, gl.UNSIGNED_BYTE, gl.Ptr(bgra))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	if err := releaseOnError(checkError("create texture"), func() { g.DeleteTexture(handle) }); err != nil {
		return 0, err
	}
	return handle, nil
}

func (*GL) DeleteTexture(handle uint32) {
	gl.DeleteTextures(1, &handle)
}

func (*GL) CompileShader(stage assets.Stage, source string) (uint32, error) {
	kind := uint32(gl.VERTEX_SHADER)
	if stage == assets.FragmentStage {
		kind = gl.FRAGMENT_SHADER
	}
	shader := gl.CreateShader(kind)

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
		return 0, errors.Errorf("%s shader: %s", stage, strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (*GL) LinkProgram(vertex, fragment uint32, layout []assets.Attribute) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertex)
	gl.AttachShader(program, fragment)
	for _, a := range layout {
		gl.BindAttribLocation(program, a.Index, gl.Str(a.Name+"\x00"))
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
		return 0, errors.New(strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

func (*GL) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (*GL) DeleteShader(handle uint32)  { gl.DeleteShader(handle) }
func (*GL) DeleteProgram(handle uint32) { gl.DeleteProgram(handle) }

// Viewport resizes the drawable area.
func (*GL) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Clear also re-enables depth testing, which raylib turns off for 2D.
func (*GL) Clear() {
	gl.Enable(gl.DEPTH_TEST)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (*GL) UseProgram(program uint32) { gl.UseProgram(program) }

func (*GL) BindMesh(mesh *assets.MeshAsset) {
	gl.BindVertexArray(mesh.Handles.VertexArray)
}

func (*GL) BindTexture(unit int, handle uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, handle)
}

func (*GL) SetMatrix(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (*GL) SetInt(location int32, v int32)     { gl.Uniform1i(location, v) }
func (*GL) SetFloat(location int32, v float32) { gl.Uniform1f(location, v) }

func (*GL) SetVec3(location int32, v mgl32.Vec3) {
	gl.Uniform3f(location, v[0], v[1], v[2])
}

func (*GL) SetVec4(location int32, v mgl32.Vec4) {
	gl.Uniform4f(location, v[0], v[1], v[2], v[3])
}

func (*GL) DrawTriangles(indexCount int) {
	gl.DrawElements(gl.TRIANGLES, int32(indexCount), gl.UNSIGNED_INT, nil)
}

// Unbind restores the default vertex array and texture unit so raylib's
// batch renderer finds the state it expects.
func (*GL) Unbind() {
	gl.BindVertexArray(0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.UseProgram(0)
}

// releaseOnError runs release when err is set and passes err through.
func releaseOnError(err error, release func()) error {
	if err != nil {
		release()
	}
	return err
}

func checkError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return errors.Errorf("gpu: %s: GL error 0x%x", op, code)
	}
	return nil
}
