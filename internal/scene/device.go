// Package scene drives the per-frame update and draw of the globe, the
// satellites and the ground markers.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"satviz/internal/assets"
)

// Device is the draw side of the GPU.
type Device interface {
	Clear()
	UseProgram(program uint32)
	BindMesh(mesh *assets.MeshAsset)
	BindTexture(unit int, handle uint32)
	SetMatrix(location int32, m mgl32.Mat4)
	SetInt(location int32, v int32)
	SetFloat(location int32, v float32)
	SetVec3(location int32, v mgl32.Vec3)
	SetVec4(location int32, v mgl32.Vec4)
	DrawTriangles(indexCount int)
}

// Presenter brackets a frame on the window system side.
type Presenter interface {
	BeginFrame()
	Present()
}

// Texture units.
const (
	colorUnit = iota
	normalUnit
	secondColorUnit
)

// Light is a directional Blinn light.
type Light struct {
	Direction mgl32.Vec3
	Ambient   mgl32.Vec4
	Diffuse   mgl32.Vec4
	Specular  mgl32.Vec4
}

func DefaultLight() Light {
	return Light{
		Direction: mgl32.Vec3{0, -1, 0},
		Ambient:   mgl32.Vec4{0.6, 0.6, 0.6, 1},
		Diffuse:   mgl32.Vec4{0.8, 0.8, 0.8, 1},
		Specular:  mgl32.Vec4{0, 0, 0, 1},
	}
}
