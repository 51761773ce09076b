// Package console interprets line commands typed on stdin while the window
// runs. Commands only touch control.Controls.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"satviz/internal/control"
	"satviz/internal/logging"
	"satviz/internal/utils"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArgument    = errors.New("bad argument")
)

// Usage lists the commands Execute understands.
var Usage = usage()

func usage() string {
	names := make([]string, 0, len(control.Filters()))
	for _, f := range control.Filters() {
		names = append(names, string(f))
	}
	return "commands:\n" +
		"  simtime <float>    set the simulation speed\n" +
		"  show <filter>      " + strings.Join(names, " ") + "\n" +
		"  color <mode>       none users orbit\n" +
		"  help               print this text"
}

type Interpreter struct {
	controls *control.Controls
	log      zerolog.Logger
}

func New(controls *control.Controls, log zerolog.Logger) *Interpreter {
	return &Interpreter{
		controls: controls,
		log:      logging.Component(log, "console"),
	}
}

// Help is Usage followed by the current speed and color mode.
func (i *Interpreter) Help() string {
	return fmt.Sprintf("%s\nspeed %g, color %s", Usage, i.controls.Speed(), i.controls.ColorMode())
}

// Execute runs one command line. Errors leave the controls untouched.
func (i *Interpreter) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "simtime":
		if len(args) != 1 {
			return errors.Wrap(ErrBadArgument, "usage: simtime <float>")
		}
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrBadArgument, "simtime: %q is not a number", args[0])
		}
		i.controls.SetSpeed(v)
		i.log.Debug().Float64("speed", v).Msg("simulation speed")

	case "show":
		if len(args) != 1 {
			return errors.Wrap(ErrBadArgument, "usage: show <filter>")
		}
		f, err := control.ParseFilter(args[0])
		if err != nil {
			return errors.Wrap(ErrBadArgument, err.Error())
		}
		i.controls.RequestFilter(f)
		i.log.Debug().Str("filter", string(f)).Msg("visibility")

	case "color":
		if len(args) != 1 {
			return errors.Wrap(ErrBadArgument, "usage: color <none|users|orbit>")
		}
		m, err := control.ParseColorMode(args[0])
		if err != nil {
			return errors.Wrap(ErrBadArgument, err.Error())
		}
		i.controls.SetColorMode(m)
		i.log.Debug().Stringer("mode", m).Msg("color mode")

	default:
		return errors.Wrapf(ErrUnknownCommand, "%q", cmd)
	}
	return nil
}

// Run prompts on out and executes lines from in until ctx is done or in is
// exhausted. The reading goroutine cannot be interrupted while blocked on
// in; it is left behind when ctx ends.
func (i *Interpreter) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	prompt := func() { fmt.Fprint(out, "> ") }
	prompt()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return errors.Wrap(err, "console input")
		case line := <-lines:
			if strings.EqualFold(strings.TrimSpace(line), "help") {
				fmt.Fprintln(out, i.Help())
			} else if err := i.Execute(line); err != nil {
				utils.PrintFancy(out, "console", utils.Red, err.Error())
			}
			prompt()
		}
	}
}
