package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/sangeet/internal/shared"
)

func main() {
	os.Exit(run())
}

// run executes the CLI and maps the error to an exit code.
//
// SIGINT and SIGTERM cancel the command context so "serve" and "auth login" shut their servers down.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})
	defer runner.Close()

	err := newApp(runner).Run(ctx, os.Args)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		logger.Warn("interrupted")
		return 130
	case errors.Is(err, shared.ErrNotAuthenticated), errors.Is(err, shared.ErrValidation):
		logger.Error(err.Error())
		return 1
	default:
		logger.Errorf("application error: %v", err)
		return 1
	}
}

// newApp builds the root command with the global flags shared by every subcommand.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "sangeet",
		Usage:   "Upload, browse and organise your music library",
		Version: "0.3.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
				Sources: cli.EnvVars("SANGEET_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only log errors",
			},
		},
		Before:   r.before,
		Commands: r.register(),
	}
}
