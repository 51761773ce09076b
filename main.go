// satviz - interactive 3D view of Earth orbiting satellites.
//
// Controls:
//
//	W/S/A/D   - Move forward/back/left/right
//	Q/E       - Sink/rise
//	Arrows    - Pitch and yaw
//	Click     - Select the satellite under the cursor
//	F2        - Open the command box
//	Esc       - Close the command box, or quit
//
// The same commands (simtime, show, color) are also read from stdin.
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"satviz/internal/config"
	"satviz/internal/logging"
	"satviz/internal/utils"
)

var (
	configPath string
	logLevel   string
	logFile    string
	jsonLogs   bool
)

func newCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "satviz",
		Short: "Interactive 3D satellite tracker",
		Long: `satviz - Interactive 3D satellite tracker

Propagates every satellite of a catalog and draws it around a textured,
lit globe.

Console commands (stdin or F2):
  simtime <float>    set the simulation speed
  show <filter>      all none sel iridium civ com mil gov geo meo leo elp
  color <mode>       none users orbit`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return start(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "res/config.ini", "Path to the ini configuration")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override log_level (trace, debug, info, warn, error)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Also append logs to this file")
	cmd.Flags().BoolVar(&jsonLogs, "json", false, "Write JSON logs instead of console lines")
	return cmd
}

// loggedError has already been reported through the logger.
type loggedError struct{ error }

func start(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		lvl, err := zerolog.ParseLevel(strings.ToLower(logLevel))
		if err != nil {
			return errors.Wrap(err, "--log-level")
		}
		cfg.LogLevel = lvl
	}

	logCfg := logging.Config{Level: cfg.LogLevel, Pretty: !jsonLogs}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return errors.Wrap(err, "open log file")
		}
		defer f.Close()
		logCfg.File = f
	}
	log := logging.New(logCfg)
	log.Info().Object("config", cfg).Msg("configuration loaded")

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("satviz stopped")
		return loggedError{err}
	}
	log.Info().Msg("bye")
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().ExecuteContext(ctx); err != nil {
		var logged loggedError
		if !errors.As(err, &logged) {
			utils.PrintFancy(os.Stderr, "satviz", utils.Red, err.Error())
		}
		stop()
		os.Exit(1)
	}
}
