// Package wavefront parses the plain-text Wavefront OBJ subset used by the
// visualizer's meshes into triangle-soup vertex arrays ready for upload.
//
// Only `v`, `vn`, `vt` and triangular `f v/uv/n` records are understood.
// Everything else (groups, materials, smoothing) is ignored.
package wavefront

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

const (
	keywordVertex   = "v"
	keywordNormal   = "vn"
	keywordUV       = "vt"
	keywordTriangle = "f"
)

var (
	ErrMalformedFace   = errors.New("malformed face record")
	ErrMalformedRecord = errors.New("malformed record")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// VertexData is a triangulated mesh. Index k belongs to triangle k/3 and
// every slice except Indices is indexed by vertex.
type VertexData struct {
	Indices    []uint32
	Vertices   []mgl32.Vec3
	Normals    []mgl32.Vec3
	UVs        []mgl32.Vec2
	Tangents   []mgl32.Vec3
	Bitangents []mgl32.Vec3
}

// PlainData holds the raw vertex and normal lists of a file, without
// triangulation. It is used for placement data that is never drawn itself.
type PlainData struct {
	Vertices []mgl32.Vec3
	Normals  []mgl32.Vec3
}

type face struct {
	vertex [3]int
	uv     [3]int
	normal [3]int

	tangent   mgl32.Vec3
	bitangent mgl32.Vec3
}

type fileData struct {
	vertices  []mgl32.Vec3
	normals   []mgl32.Vec3
	uvs       []mgl32.Vec2
	triangles []face
}

type options struct {
	averageTangents bool
}

// Option configures Parse.
type Option func(*options)

// WithAveragedTangents merges the tangents and bitangents of vertices that
// share position, normal and UV.
func WithAveragedTangents() Option {
	return func(o *options) { o.averageTangents = true }
}

// Parse reads a mesh description and returns the triangulated vertex data.
// A malformed record or an out-of-range index fails the whole mesh.
func Parse(r io.Reader, opts ...Option) (*VertexData, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	data, err := load(r)
	if err != nil {
		return nil, err
	}

	calculateTangents(data)
	result := data.triangulate()
	if o.averageTangents {
		AverageTangents(result)
	}
	return result, nil
}

// ParsePlain reads a mesh description and returns its vertex and normal
// lists as written, one entry per `v` and `vn` record.
func ParsePlain(r io.Reader) (*PlainData, error) {
	data, err := load(r)
	if err != nil {
		return nil, err
	}
	return &PlainData{Vertices: data.vertices, Normals: data.normals}, nil
}

func load(r io.Reader) (*fileData, error) {
	lines, err := tokenize(r)
	if err != nil {
		return nil, err
	}
	data := allocate(lines)
	if err := data.fill(lines); err != nil {
		return nil, err
	}
	return data, nil
}

func tokenize(r io.Reader) ([][]string, error) {
	var lines [][]string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.Fields(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "wavefront: read")
	}
	return lines, nil
}

// allocate is the counting pass; it sizes every array so fill never grows one.
func allocate(lines [][]string) *fileData {
	var vertexCount, normalCount, uvCount, triangleCount int
	for _, fields := range lines {
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case keywordVertex:
			vertexCount++
		case keywordNormal:
			normalCount++
		case keywordUV:
			uvCount++
		case keywordTriangle:
			triangleCount++
		}
	}
	return &fileData{
		vertices:  make([]mgl32.Vec3, 0, vertexCount),
		normals:   make([]mgl32.Vec3, 0, normalCount),
		uvs:       make([]mgl32.Vec2, 0, uvCount),
		triangles: make([]face, 0, triangleCount),
	}
}

func (d *fileData) fill(lines [][]string) error {
	// Faces may reference records declared after them, so they are
	// range-checked once every list is complete.
	faceLines := make([]int, 0, cap(d.triangles))

	for i, fields := range lines {
		lineNo := i + 1
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case keywordVertex:
			v, err := parseVec3(fields)
			if err != nil {
				return errors.Wrapf(err, "wavefront: line %d", lineNo)
			}
			d.vertices = append(d.vertices, v)
		case keywordNormal:
			n, err := parseVec3(fields)
			if err != nil {
				return errors.Wrapf(err, "wavefront: line %d", lineNo)
			}
			d.normals = append(d.normals, n)
		case keywordUV:
			uv, err := parseUV(fields)
			if err != nil {
				return errors.Wrapf(err, "wavefront: line %d", lineNo)
			}
			d.uvs = append(d.uvs, uv)
		case keywordTriangle:
			f, err := parseFace(fields)
			if err != nil {
				return errors.Wrapf(err, "wavefront: line %d", lineNo)
			}
			d.triangles = append(d.triangles, f)
			faceLines = append(faceLines, lineNo)
		}
	}

	for i, f := range d.triangles {
		if err := d.checkFace(f); err != nil {
			return errors.Wrapf(err, "wavefront: line %d", faceLines[i])
		}
	}
	return nil
}

func (d *fileData) checkFace(f face) error {
	for k := 0; k < 3; k++ {
		if f.vertex[k] < 0 || f.vertex[k] >= len(d.vertices) {
			return errors.Wrapf(ErrIndexOutOfRange, "vertex %d of %d", f.vertex[k]+1, len(d.vertices))
		}
		if f.uv[k] < 0 || f.uv[k] >= len(d.uvs) {
			return errors.Wrapf(ErrIndexOutOfRange, "uv %d of %d", f.uv[k]+1, len(d.uvs))
		}
		if f.normal[k] < 0 || f.normal[k] >= len(d.normals) {
			return errors.Wrapf(ErrIndexOutOfRange, "normal %d of %d", f.normal[k]+1, len(d.normals))
		}
	}
	return nil
}

func parseVec3(fields []string) (mgl32.Vec3, error) {
	if len(fields) != 4 {
		return mgl32.Vec3{}, errors.Wrapf(ErrMalformedRecord, "%q needs 3 components, got %d", fields[0], len(fields)-1)
	}
	var v mgl32.Vec3
	for i := 0; i < 3; i++ {
		f, err := parseFloat(fields[i+1])
		if err != nil {
			return mgl32.Vec3{}, err
		}
		v[i] = f
	}
	return v, nil
}

// parseUV flips V so that textures are addressed top-down.
func parseUV(fields []string) (mgl32.Vec2, error) {
	// an optional third (w) component is allowed and ignored
	if len(fields) != 3 && len(fields) != 4 {
		return mgl32.Vec2{}, errors.Wrapf(ErrMalformedRecord, "%q needs 2 components, got %d", fields[0], len(fields)-1)
	}
	u, err := parseFloat(fields[1])
	if err != nil {
		return mgl32.Vec2{}, err
	}
	v, err := parseFloat(fields[2])
	if err != nil {
		return mgl32.Vec2{}, err
	}
	return mgl32.Vec2{u, 1 - v}, nil
}

func parseFace(fields []string) (face, error) {
	var f face
	if len(fields) != 4 {
		return f, errors.Wrapf(ErrMalformedFace, "needs 3 vertices, got %d", len(fields)-1)
	}
	for k := 0; k < 3; k++ {
		parts := strings.Split(fields[k+1], "/")
		if len(parts) != 3 {
			return f, errors.Wrapf(ErrMalformedFace, "vertex %q is not v/uv/n", fields[k+1])
		}
		var idx [3]int
		for j, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil {
				return f, errors.Wrapf(ErrMalformedFace, "vertex %q: %v", fields[k+1], err)
			}
			idx[j] = n - 1
		}
		f.vertex[k], f.uv[k], f.normal[k] = idx[0], idx[1], idx[2]
	}
	return f, nil
}

func parseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedRecord, "bad number %q", s)
	}
	return float32(f), nil
}

func (d *fileData) triangulate() *VertexData {
	count := len(d.triangles) * 3
	result := &VertexData{
		Indices:    make([]uint32, count),
		Vertices:   make([]mgl32.Vec3, count),
		Normals:    make([]mgl32.Vec3, count),
		UVs:        make([]mgl32.Vec2, count),
		Tangents:   make([]mgl32.Vec3, count),
		Bitangents: make([]mgl32.Vec3, count),
	}

	for i, tri := range d.triangles {
		base := i * 3
		for k := 0; k < 3; k++ {
			result.Vertices[base+k] = d.vertices[tri.vertex[k]]
			result.Normals[base+k] = d.normals[tri.normal[k]]
			result.UVs[base+k] = d.uvs[tri.uv[k]]
			result.Tangents[base+k] = tri.tangent
			result.Bitangents[base+k] = tri.bitangent
			result.Indices[base+k] = uint32(base + k)
		}
	}
	return result
}

// TriangleCount is the number of triangles described by Indices.
func (d *VertexData) TriangleCount() int {
	return len(d.Indices) / 3
}
