package gpu

import (
	"strconv"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"
)

var ErrUnsupported = errors.New("graphics device unsupported")

// Minimums the Blinn and blend shaders rely on.
const (
	minMajor                  = 3
	minMinor                  = 3
	minVertexTextureUnits     = 5
	minVertexUniformComponent = 20
)

// Capabilities is what the driver reports about itself.
type Capabilities struct {
	Version                string
	ShadingLanguageVersion string
	Renderer               string

	VertexTextureUnits      int32
	VertexUniformComponents int32
}

func QueryCapabilities() Capabilities {
	var caps Capabilities
	caps.Version = gl.GoStr(gl.GetString(gl.VERSION))
	caps.ShadingLanguageVersion = gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))
	caps.Renderer = gl.GoStr(gl.GetString(gl.RENDERER))
	gl.GetIntegerv(gl.MAX_VERTEX_TEXTURE_IMAGE_UNITS, &caps.VertexTextureUnits)
	gl.GetIntegerv(gl.MAX_VERTEX_UNIFORM_COMPONENTS, &caps.VertexUniformComponents)
	return caps
}

// Check fails with ErrUnsupported when any minimum is not met.
func (c Capabilities) Check() error {
	major, minor, err := parseVersion(c.Version)
	if err != nil {
		return errors.Wrap(ErrUnsupported, err.Error())
	}
	if major < minMajor || (major == minMajor && minor < minMinor) {
		return errors.Wrapf(ErrUnsupported, "OpenGL %d.%d is required (you only have %d.%d)", minMajor, minMinor, major, minor)
	}
	if c.VertexTextureUnits < minVertexTextureUnits {
		return errors.Wrapf(ErrUnsupported, "not enough vertex texture slots: %d < %d", c.VertexTextureUnits, minVertexTextureUnits)
	}
	if c.VertexUniformComponents < minVertexUniformComponent {
		return errors.Wrapf(ErrUnsupported, "not enough vertex uniform slots: %d < %d", c.VertexUniformComponents, minVertexUniformComponent)
	}
	return nil
}

// parseVersion reads the leading "major.minor" of a GL_VERSION string such
// as "4.6.0 NVIDIA 535.54" or "OpenGL ES 3.2 Mesa".
func parseVersion(s string) (int, int, error) {
	for _, field := range strings.Fields(s) {
		parts := strings.SplitN(field, ".", 3)
		if len(parts) < 2 {
			continue
		}
		major, err1 := strconv.Atoi(parts[0])
		minor, err2 := strconv.Atoi(parts[1])
		if err1 == nil && err2 == nil {
			return major, minor, nil
		}
	}
	return 0, 0, errors.Errorf("unrecognized OpenGL version %q", s)
}
