// Package assets owns the load/unload lifecycle of meshes, textures and
// shader programs. Loading an already loaded asset and unloading one that was
// never loaded are both no-ops.
package assets

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"satviz/internal/logging"
	"satviz/internal/wavefront"
)

var (
	ErrShaderCompile = errors.New("shader compile failed")
	ErrShaderLink    = errors.New("shader link failed")
)

// Stage selects a shader pipeline stage.
type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	if s == VertexStage {
		return "vertex"
	}
	return "fragment"
}

// Device is the GPU side of asset management.
type Device interface {
	CreateMesh(vertices []float32, indices []uint32, layout []Attribute) (MeshHandles, error)
	DeleteMesh(h MeshHandles)

	// CreateTexture uploads BGRA pixels with nearest filtering and mipmaps.
	CreateTexture(width, height int, bgra []byte) (uint32, error)
	DeleteTexture(handle uint32)

	// CompileShader returns the compiler log as the error on failure.
	CompileShader(stage Stage, source string) (uint32, error)
	// LinkProgram binds the attribute locations before linking.
	LinkProgram(vertex, fragment uint32, layout []Attribute) (uint32, error)
	UniformLocation(program uint32, name string) int32
	DeleteShader(handle uint32)
	DeleteProgram(handle uint32)
}

// Decoder turns encoded image bytes into pixels.
type Decoder interface {
	Decode(name string, data []byte) (Pixels, error)
}

// Manager loads assets from a Provider onto a Device.
type Manager struct {
	provider Provider
	device   Device
	decoder  Decoder
	log      zerolog.Logger
}

func NewManager(provider Provider, device Device, decoder Decoder, log zerolog.Logger) *Manager {
	return &Manager{
		provider: provider,
		device:   device,
		decoder:  decoder,
		log:      logging.Component(log, "assets"),
	}
}

// ParseMesh reads and triangulates a mesh without touching the GPU.
func (m *Manager) ParseMesh(name string, opts ...wavefront.Option) (*wavefront.VertexData, error) {
	raw, err := ReadAll(m.provider, name)
	if err != nil {
		return nil, err
	}
	data, err := wavefront.Parse(bytes.NewReader(raw), opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "mesh %s", name)
	}
	return data, nil
}

// ParsePlain reads placement data from a mesh description.
func (m *Manager) ParsePlain(name string) (*wavefront.PlainData, error) {
	raw, err := ReadAll(m.provider, name)
	if err != nil {
		return nil, err
	}
	data, err := wavefront.ParsePlain(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrapf(err, "placement %s", name)
	}
	return data, nil
}

// LoadMesh parses asset.Name and uploads it as an interleaved buffer.
func (m *Manager) LoadMesh(asset *MeshAsset, opts ...wavefront.Option) error {
	if asset.IsLoaded {
		return nil
	}

	data, err := m.ParseMesh(asset.Name, opts...)
	if err != nil {
		return err
	}

	handles, err := m.device.CreateMesh(Interleave(data), data.Indices, VertexLayout)
	if err != nil {
		return errors.Wrapf(err, "upload mesh %s", asset.Name)
	}

	asset.Handles = handles
	asset.VertexCount = len(data.Vertices)
	asset.IndexCount = len(data.Indices)
	asset.Bounds = data.Bounds()
	asset.IsLoaded = true

	m.log.Debug().
		Str("mesh", asset.Name).
		Int("vertices", asset.VertexCount).
		Int("triangles", data.TriangleCount()).
		Msg("mesh loaded")
	return nil
}

func (m *Manager) UnloadMesh(asset *MeshAsset) {
	if !asset.IsLoaded {
		return
	}
	m.device.DeleteMesh(asset.Handles)
	asset.Handles = MeshHandles{}
	asset.IsLoaded = false
}

// LoadImage decodes asset.Name and uploads it as a 2D texture.
func (m *Manager) LoadImage(asset *ImageAsset) error {
	if asset.IsLoaded {
		return nil
	}

	raw, err := ReadAll(m.provider, asset.Name)
	if err != nil {
		return err
	}
	pixels, err := m.decoder.Decode(asset.Name, raw)
	if err != nil {
		return errors.Wrapf(err, "decode image %s", asset.Name)
	}
	if want := pixels.Width * pixels.Height * 4; len(pixels.RGBA) != want {
		return errors.Errorf("decode image %s: %d bytes for %dx%d", asset.Name, len(pixels.RGBA), pixels.Width, pixels.Height)
	}

	handle, err := m.device.CreateTexture(pixels.Width, pixels.Height, ToBGRA(pixels.RGBA))
	if err != nil {
		return errors.Wrapf(err, "upload image %s", asset.Name)
	}

	asset.Handle = handle
	asset.Width = pixels.Width
	asset.Height = pixels.Height
	asset.IsLoaded = true

	m.log.Debug().Str("image", asset.Name).Int("width", asset.Width).Int("height", asset.Height).Msg("image loaded")
	return nil
}

func (m *Manager) UnloadImage(asset *ImageAsset) {
	if !asset.IsLoaded {
		return
	}
	m.device.DeleteTexture(asset.Handle)
	asset.Handle = 0
	asset.IsLoaded = false
}

// LoadShader compiles both stages, links them with the fixed attribute
// layout and caches every uniform location.
func (m *Manager) LoadShader(asset *ShaderAsset) error {
	if asset.IsLoaded {
		return nil
	}

	vertexSource, err := ReadAll(m.provider, asset.VertexShaderName)
	if err != nil {
		return err
	}
	fragmentSource, err := ReadAll(m.provider, asset.FragmentShaderName)
	if err != nil {
		return err
	}

	vertex, err := m.device.CompileShader(VertexStage, string(vertexSource))
	if err != nil {
		return errors.Wrapf(ErrShaderCompile, "%s: %v", asset.VertexShaderName, err)
	}
	fragment, err := m.device.CompileShader(FragmentStage, string(fragmentSource))
	if err != nil {
		m.device.DeleteShader(vertex)
		return errors.Wrapf(ErrShaderCompile, "%s: %v", asset.FragmentShaderName, err)
	}
	program, err := m.device.LinkProgram(vertex, fragment, VertexLayout)
	if err != nil {
		m.device.DeleteShader(vertex)
		m.device.DeleteShader(fragment)
		return errors.Wrapf(ErrShaderLink, "%s + %s: %v", asset.VertexShaderName, asset.FragmentShaderName, err)
	}

	asset.VertexHandle = vertex
	asset.FragmentHandle = fragment
	asset.ProgramHandle = program
	asset.Uniforms = m.resolveUniforms(program)
	asset.IsLoaded = true

	m.log.Debug().
		Str("vertex", asset.VertexShaderName).
		Str("fragment", asset.FragmentShaderName).
		Uint32("program", program).
		Msg("shader loaded")
	return nil
}

func (m *Manager) resolveUniforms(program uint32) Uniforms {
	loc := func(name string) int32 { return m.device.UniformLocation(program, name) }
	return Uniforms{
		ModelViewProjection: loc(UniformModelViewProjection),
		Model:               loc(UniformModel),
		ColorTexture:        loc(UniformColorTexture),
		ColorTextureOne:     loc(UniformColorTextureOne),
		ColorTextureTwo:     loc(UniformColorTextureTwo),
		NormalTexture:       loc(UniformNormalTexture),
		Shininess:           loc(UniformShininess),
		LightDirection:      loc(UniformLightDirection),
		LightAmbient:        loc(UniformLightAmbient),
		LightDiffuse:        loc(UniformLightDiffuse),
		LightSpecular:       loc(UniformLightSpecular),
		CameraPosition:      loc(UniformCameraPosition),
		TextureFraction:     loc(UniformTextureFraction),
	}
}

func (m *Manager) UnloadShader(asset *ShaderAsset) {
	if !asset.IsLoaded {
		return
	}
	m.device.DeleteProgram(asset.ProgramHandle)
	m.device.DeleteShader(asset.FragmentHandle)
	m.device.DeleteShader(asset.VertexHandle)
	asset.ProgramHandle, asset.VertexHandle, asset.FragmentHandle = 0, 0, 0
	asset.IsLoaded = false
}
