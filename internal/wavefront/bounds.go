package wavefront

import "github.com/go-gl/mathgl/mgl32"

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Radius is half the length of the box diagonal.
func (b Bounds) Radius() float32 {
	return b.Max.Sub(b.Min).Len() / 2
}

// Bounds returns the extents of all vertices, or a zero box for an empty mesh.
func (d *VertexData) Bounds() Bounds {
	if len(d.Vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: d.Vertices[0], Max: d.Vertices[0]}
	for _, v := range d.Vertices[1:] {
		for axis := 0; axis < 3; axis++ {
			if v[axis] < b.Min[axis] {
				b.Min[axis] = v[axis]
			}
			if v[axis] > b.Max[axis] {
				b.Max[axis] = v[axis]
			}
		}
	}
	return b
}
