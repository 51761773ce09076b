package gpu

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in           string
		major, minor int
	}{
		{"4.6.0 NVIDIA 535.54.03", 4, 6},
		{"3.3 (Core Profile) Mesa 23.2.1", 3, 3},
		{"OpenGL ES 3.2 Mesa 22.0", 3, 2},
		{"2.1 Metal - 83.1", 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			major, minor, err := parseVersion(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.major, major)
			assert.Equal(t, tt.minor, minor)
		})
	}

	_, _, err := parseVersion("")
	assert.Error(t, err)
}

func TestCapabilitiesCheck(t *testing.T) {
	good := Capabilities{Version: "4.1 INTEL", VertexTextureUnits: 16, VertexUniformComponents: 1024}
	assert.NoError(t, good.Check())

	tests := []struct {
		name string
		edit func(*Capabilities)
		msg  string
	}{
		{"old version", func(c *Capabilities) { c.Version = "2.1 Mesa" }, "OpenGL 3.3 is required"},
		{"garbage version", func(c *Capabilities) { c.Version = "unknown" }, "unrecognized"},
		{"texture units", func(c *Capabilities) { c.VertexTextureUnits = 4 }, "texture slots"},
		{"uniforms", func(c *Capabilities) { c.VertexUniformComponents = 16 }, "uniform slots"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := good
			tt.edit(&caps)
			err := caps.Check()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnsupported))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseVersion_ErrorHasStack(t *testing.T) {
	_, _, err := parseVersion("unknown")
	require.Error(t, err)
	_, ok := err.(interface{ StackTrace() errors.StackTrace })
	assert.True(t, ok, "errors.Errorf records the call site")
}

func TestReleaseOnError(t *testing.T) {
	released := 0
	release := func() { released++ }

	assert.NoError(t, releaseOnError(nil, release))
	assert.Equal(t, 0, released)

	err := errors.New("gpu: create texture: GL error 0x505")
	assert.Same(t, err, releaseOnError(err, release))
	assert.Equal(t, 1, released)
}
