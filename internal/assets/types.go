package assets

import "satviz/internal/wavefront"

// Fixed vertex attribute slots shared by every shader.
const (
	AttribPosition  = 0
	AttribNormal    = 1
	AttribUV        = 2
	AttribTangent   = 3
	AttribBitangent = 4
)

// FloatsPerVertex is the interleaved stride: position, normal, uv, tangent, bitangent.
const FloatsPerVertex = 3 + 3 + 2 + 3 + 3

// Attribute describes one vertex attribute inside the interleaved buffer.
// Offset is counted in floats.
type Attribute struct {
	Index  uint32
	Name   string
	Size   int32
	Offset int32
}

// VertexLayout is the attribute contract between uploaded meshes and shaders.
var VertexLayout = []Attribute{
	{Index: AttribPosition, Name: "in_position", Size: 3, Offset: 0},
	{Index: AttribNormal, Name: "in_normal", Size: 3, Offset: 3},
	{Index: AttribUV, Name: "in_uv", Size: 2, Offset: 6},
	{Index: AttribTangent, Name: "in_tangent", Size: 3, Offset: 8},
	{Index: AttribBitangent, Name: "in_bitangent", Size: 3, Offset: 11},
}

// Uniform names exposed by the Blinn and blend shaders.
const (
	UniformModelViewProjection = "modelview_projection_matrix"
	UniformModel               = "model_matrix"
	UniformColorTexture        = "color_texture"
	UniformColorTextureOne     = "color_texture_one"
	UniformColorTextureTwo     = "color_texture_two"
	UniformNormalTexture       = "normalmap_texture"
	UniformShininess           = "specular_shininess"
	UniformLightDirection      = "light_direction"
	UniformLightAmbient        = "light_ambient_color"
	UniformLightDiffuse        = "light_diffuse_color"
	UniformLightSpecular       = "light_specular_color"
	UniformCameraPosition      = "camera_position"
	UniformTextureFraction     = "texture_fraction"
)

// MeshHandles are the GPU objects backing a mesh.
type MeshHandles struct {
	VertexBuffer uint32
	IndexBuffer  uint32
	VertexArray  uint32
}

// MeshAsset is GPU-resident triangulated geometry.
type MeshAsset struct {
	Name     string
	IsLoaded bool

	VertexCount int
	IndexCount  int
	Handles     MeshHandles
	Bounds      wavefront.Bounds
}

// ImageAsset is a GPU-resident 2D texture.
type ImageAsset struct {
	Name     string
	IsLoaded bool

	Handle uint32
	Width  int
	Height int
}

// Uniforms caches resolved uniform locations. A location of -1 means the
// program does not use the uniform.
type Uniforms struct {
	ModelViewProjection int32
	Model               int32
	ColorTexture        int32
	ColorTextureOne     int32
	ColorTextureTwo     int32
	NormalTexture       int32
	Shininess           int32
	LightDirection      int32
	LightAmbient        int32
	LightDiffuse        int32
	LightSpecular       int32
	CameraPosition      int32
	TextureFraction     int32
}

// ShaderAsset is a linked vertex+fragment program.
type ShaderAsset struct {
	VertexShaderName   string
	FragmentShaderName string
	IsLoaded           bool

	VertexHandle   uint32
	FragmentHandle uint32
	ProgramHandle  uint32
	Uniforms       Uniforms
}

// Pixels is a decoded image, tightly packed RGBA rows from the top.
type Pixels struct {
	Width  int
	Height int
	RGBA   []byte
}
