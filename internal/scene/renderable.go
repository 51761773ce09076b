package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"satviz/internal/assets"
	"satviz/internal/orbit"
)

// Material is what a draw binds besides the mesh. Second and Fraction are
// only read by the blend shader.
type Material struct {
	Shader    *assets.ShaderAsset
	Color     *assets.ImageAsset
	Normal    *assets.ImageAsset
	Second    *assets.ImageAsset
	Fraction  float32
	Shininess float32
}

// Renderable is anything the loop can draw with the shared Blinn path.
type Renderable interface {
	Mesh() *assets.MeshAsset
	Material() Material
	Model() mgl32.Mat4
}

// meshRadius is the largest half extent of mesh.
func meshRadius(mesh *assets.MeshAsset) float32 {
	size := mesh.Bounds.Max.Sub(mesh.Bounds.Min)
	r := size.X()
	if size.Y() > r {
		r = size.Y()
	}
	if size.Z() > r {
		r = size.Z()
	}
	if r <= 0 {
		return 1
	}
	return r / 2
}

// Earth is the globe, sized to the Earth radius in scene units.
type Earth struct {
	Sphere   *assets.MeshAsset
	Mat      Material
	Radius   float32
	Rotation float32 // radians about the polar axis
}

func (e *Earth) Mesh() *assets.MeshAsset { return e.Sphere }
func (e *Earth) Material() Material      { return e.Mat }

func (e *Earth) Model() mgl32.Mat4 {
	s := e.Radius / meshRadius(e.Sphere)
	return mgl32.HomogRotate3DY(e.Rotation).Mul4(mgl32.Scale3D(s, s, s))
}

type satelliteObject struct {
	sat   *orbit.Satellite
	mesh  *assets.MeshAsset
	mat   Material
	scale float32
}

func (o satelliteObject) Mesh() *assets.MeshAsset { return o.mesh }
func (o satelliteObject) Material() Material      { return o.mat }

// Model scales the mesh about its origin and then moves it to the
// satellite position.
func (o satelliteObject) Model() mgl32.Mat4 {
	p := o.sat.Position
	return mgl32.Translate3D(p.X(), p.Y(), p.Z()).Mul4(mgl32.Scale3D(o.scale, o.scale, o.scale))
}

// Marker is a fixed point on the globe, such as a ground station. It turns
// with the Earth.
type Marker struct {
	Position mgl32.Vec3 // on the unrotated globe, scene units
	Normal   mgl32.Vec3
	Shape    *assets.MeshAsset
	Mat      Material
	Scale    float32
	Rotation float32
}

func (m *Marker) Mesh() *assets.MeshAsset { return m.Shape }
func (m *Marker) Material() Material      { return m.Mat }

// Model points the marker's +Y along its normal.
func (m *Marker) Model() mgl32.Mat4 {
	align := mgl32.Ident4()
	if n := m.Normal; n.Len() > 0 {
		align = mgl32.QuatBetweenVectors(mgl32.Vec3{0, 1, 0}, n.Normalize()).Mat4()
	}
	p := m.Position
	return mgl32.HomogRotate3DY(m.Rotation).
		Mul4(mgl32.Translate3D(p.X(), p.Y(), p.Z())).
		Mul4(align).
		Mul4(mgl32.Scale3D(m.Scale, m.Scale, m.Scale))
}
