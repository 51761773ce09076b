package assets

import "satviz/internal/wavefront"

// Interleave packs the per-vertex attributes of data into one buffer laid
// out as VertexLayout describes.
func Interleave(data *wavefront.VertexData) []float32 {
	out := make([]float32, FloatsPerVertex*len(data.Vertices))
	for i := range data.Vertices {
		o := out[i*FloatsPerVertex : (i+1)*FloatsPerVertex]
		copy(o[0:3], data.Vertices[i][:])
		copy(o[3:6], data.Normals[i][:])
		copy(o[6:8], data.UVs[i][:])
		copy(o[8:11], data.Tangents[i][:])
		copy(o[11:14], data.Bitangents[i][:])
	}
	return out
}

// ToBGRA swaps the red and blue channel of every RGBA pixel into a new buffer.
func ToBGRA(rgba []byte) []byte {
	out := make([]byte, len(rgba))
	for i := 0; i+3 < len(rgba); i += 4 {
		out[i+0] = rgba[i+2]
		out[i+1] = rgba[i+1]
		out[i+2] = rgba[i+0]
		out[i+3] = rgba[i+3]
	}
	return out
}
