package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"satviz/internal/control"
)

func newTestInterpreter() (*Interpreter, *control.Controls) {
	c := control.New(1, control.ColorNone)
	return New(c, zerolog.Nop()), c
}

func TestExecute_Simtime(t *testing.T) {
	i, c := newTestInterpreter()

	require.NoError(t, i.Execute("simtime 2.5"))
	assert.Equal(t, 2.5, c.Speed())

	err := i.Execute("simtime abc")
	assert.True(t, errors.Is(err, ErrBadArgument))
	assert.Equal(t, 2.5, c.Speed(), "unchanged")

	for _, bad := range []string{"simtime", "simtime 1 2", "simtime NaN", "simtime +Inf"} {
		assert.True(t, errors.Is(i.Execute(bad), ErrBadArgument), bad)
	}
	assert.Equal(t, 2.5, c.Speed())

	require.NoError(t, i.Execute("  SIMTIME   -10 "))
	assert.Equal(t, -10.0, c.Speed())
}

func TestExecute_Show(t *testing.T) {
	i, c := newTestInterpreter()

	require.NoError(t, i.Execute("show geo"))
	s := c.Take()
	assert.True(t, s.HasFilter)
	assert.Equal(t, control.ShowGEO, s.Filter)

	assert.True(t, errors.Is(i.Execute("show planets"), ErrBadArgument))
	assert.False(t, c.Take().HasFilter)
}

func TestExecute_Color(t *testing.T) {
	i, c := newTestInterpreter()

	require.NoError(t, i.Execute("color orbit"))
	assert.Equal(t, control.ColorOrbit, c.ColorMode())

	assert.True(t, errors.Is(i.Execute("color rainbow"), ErrBadArgument))
	assert.Equal(t, control.ColorOrbit, c.ColorMode())
}

func TestExecute_Unknown(t *testing.T) {
	i, c := newTestInterpreter()

	err := i.Execute("warp 9")
	assert.True(t, errors.Is(err, ErrUnknownCommand))
	assert.Contains(t, err.Error(), "warp")
	assert.NoError(t, i.Execute("   "))
	assert.Equal(t, 1.0, c.Speed())
}

func TestHelp(t *testing.T) {
	i, c := newTestInterpreter()
	c.SetSpeed(3)
	c.SetColorMode(control.ColorOrbit)

	help := i.Help()
	assert.True(t, strings.HasPrefix(help, Usage))
	assert.Contains(t, help, "speed 3, color orbit")
	for _, f := range control.Filters() {
		assert.Contains(t, Usage, " "+string(f))
	}
	assert.Contains(t, Usage, "show <filter>      all none sel iridium civ com mil gov geo meo leo elp\n")
}

func TestRun(t *testing.T) {
	i, c := newTestInterpreter()
	in := strings.NewReader("simtime 4\nbogus\nhelp\ncolor users\n")
	var out bytes.Buffer

	err := i.Run(context.Background(), in, &out)
	require.NoError(t, err)

	assert.Equal(t, 4.0, c.Speed())
	assert.Equal(t, control.ColorUsers, c.ColorMode())
	assert.Contains(t, out.String(), "[console]")
	assert.Contains(t, out.String(), "unknown command")
	assert.Contains(t, out.String(), "simtime <float>")
	assert.Contains(t, out.String(), "speed 4, color none")
	assert.True(t, strings.HasPrefix(out.String(), "> "))
}

func TestRun_Cancel(t *testing.T) {
	i, _ := newTestInterpreter()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, i.Run(ctx, blockingReader{}, &bytes.Buffer{}))
}

// blockingReader never returns, like a terminal nobody types into.
type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	select {}
}
