package wavefront

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// degenerateUV is the smallest UV determinant that is inverted; below it the
// scale factor is pinned to 1.
const degenerateUV = 1e-4

// calculateTangents assigns one flat tangent/bitangent pair per triangle.
func calculateTangents(d *fileData) {
	for i := range d.triangles {
		tri := &d.triangles[i]
		tri.tangent, tri.bitangent = triangleTangents(
			[3]mgl32.Vec3{d.vertices[tri.vertex[0]], d.vertices[tri.vertex[1]], d.vertices[tri.vertex[2]]},
			[3]mgl32.Vec2{d.uvs[tri.uv[0]], d.uvs[tri.uv[1]], d.uvs[tri.uv[2]]},
			d.normals[tri.normal[0]],
		)
	}
}

func triangleTangents(pos [3]mgl32.Vec3, uv [3]mgl32.Vec2, normal mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	edge1 := pos[1].Sub(pos[0])
	edge2 := pos[2].Sub(pos[0])
	deltaUV1 := uv[1].Sub(uv[0])
	deltaUV2 := uv[2].Sub(uv[0])

	det := deltaUV1.X()*deltaUV2.Y() - deltaUV2.X()*deltaUV1.Y()
	f := float32(1)
	if math.Abs(float64(det)) >= degenerateUV {
		f = 1 / det
	}

	tangent := normalize(mgl32.Vec3{
		f * (deltaUV2.Y()*edge1.X() - deltaUV1.Y()*edge2.X()),
		f * (deltaUV2.Y()*edge1.Y() - deltaUV1.Y()*edge2.Y()),
		f * (deltaUV2.Y()*edge1.Z() - deltaUV1.Y()*edge2.Z()),
	})
	bitangent := normalize(mgl32.Vec3{
		f * (-deltaUV2.X()*edge1.X() + deltaUV1.X()*edge2.X()),
		f * (-deltaUV2.X()*edge1.Y() + deltaUV1.X()*edge2.Y()),
		f * (-deltaUV2.X()*edge1.Z() + deltaUV1.X()*edge2.Z()),
	})

	if normal.Cross(tangent).Dot(bitangent) < 0 {
		tangent = tangent.Mul(-1)
	}
	return tangent, bitangent
}

type vertexKey struct {
	position mgl32.Vec3
	normal   mgl32.Vec3
	uv       mgl32.Vec2
}

// AverageTangents replaces the tangent and bitangent of every vertex with the
// normalized sum over all vertices sharing its position, normal and UV.
func AverageTangents(d *VertexData) {
	type sum struct{ tangent, bitangent mgl32.Vec3 }

	sums := make(map[vertexKey]sum, len(d.Vertices))
	for i := range d.Vertices {
		k := vertexKey{d.Vertices[i], d.Normals[i], d.UVs[i]}
		s := sums[k]
		s.tangent = s.tangent.Add(d.Tangents[i])
		s.bitangent = s.bitangent.Add(d.Bitangents[i])
		sums[k] = s
	}
	for i := range d.Vertices {
		s := sums[vertexKey{d.Vertices[i], d.Normals[i], d.UVs[i]}]
		d.Tangents[i] = normalize(s.tangent)
		d.Bitangents[i] = normalize(s.bitangent)
	}
}

func normalize(v mgl32.Vec3) mgl32.Vec3 {
	if l := v.Len(); l > 0 {
		return v.Mul(1 / l)
	}
	return v
}
