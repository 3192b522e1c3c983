package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/colonyops/ralph/internal/core/logging"
	"github.com/colonyops/ralph/pkg/timeout"
	"github.com/urfave/cli/v3"
)

type TimeoutCmd struct {
	flags *Flags

	native bool
}

// NewTimeoutCmd creates a new timeout command
func NewTimeoutCmd(flags *Flags) *TimeoutCmd {
	return &TimeoutCmd{flags: flags}
}

// Register adds the timeout command to the application
func (cmd *TimeoutCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "timeout",
		Usage:     "Run a command under a wall-clock deadline",
		ArgsUsage: "<duration> <command> [args...]",
		Description: `Runs the command and kills it when the deadline expires, exiting 124
like timeout(1). The duration is digits with an optional s, m, or h
suffix; seconds when omitted. A host timeout binary is preferred when
present; otherwise a built-in fallback terminates the child itself.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "native",
				Usage:       "skip host timeout binaries and use the built-in fallback",
				Destination: &cmd.native,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *TimeoutCmd) run(ctx context.Context, c *cli.Command) error {
	args := c.Args().Slice()
	if len(args) < 2 {
		return fmt.Errorf("usage: ralph timeout <duration> <command> [args...]")
	}

	runner := &timeout.Runner{
		Grace:              time.Duration(cmd.flags.Config.Timeout.GraceSeconds) * time.Second,
		DisableHostTimeout: cmd.native,
		Log:                logging.Component("timeout"),
	}

	code, err := runner.Run(args[0], os.Stdout, os.Stderr, args[1], args[2:]...)
	if err != nil {
		return cli.Exit(err.Error(), code)
	}
	if code != 0 {
		return cli.Exit("", code)
	}
	return nil
}
