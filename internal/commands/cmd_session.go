package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

type SessionCmd struct {
	flags *Flags
}

// NewSessionCmd creates a new session command
func NewSessionCmd(flags *Flags) *SessionCmd {
	return &SessionCmd{flags: flags}
}

// Register adds the session command to the application
func (cmd *SessionCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "session",
		Usage: "Track assistant session continuity across loop iterations",
		Description: `The session record holds the last session id the assistant reported
and when it was created. A session older than 24 hours is never resumed.`,
		Commands: []*cli.Command{
			{
				Name:   "should-resume",
				Usage:  "Exit 0 when the stored session is resumable, 1 otherwise",
				Action: cmd.runShouldResume,
			},
			{
				Name:      "store",
				Usage:     "Store a new session id with the current timestamp",
				ArgsUsage: "<session-id>",
				Action:    cmd.runStore,
			},
			{
				Name:   "last",
				Usage:  "Print the stored session id, if any",
				Action: cmd.runLast,
			},
		},
	})

	return app
}

func (cmd *SessionCmd) runShouldResume(ctx context.Context, c *cli.Command) error {
	if cmd.flags.Sessions.ShouldResume() {
		fmt.Fprintln(c.Root().Writer, "true")
		return nil
	}
	fmt.Fprintln(c.Root().Writer, "false")
	return cli.Exit("", 1)
}

func (cmd *SessionCmd) runStore(ctx context.Context, c *cli.Command) error {
	if err := cmd.flags.Sessions.Store(c.Args().First()); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (cmd *SessionCmd) runLast(ctx context.Context, c *cli.Command) error {
	if id := cmd.flags.Sessions.LastID(); id != "" {
		fmt.Fprintln(c.Root().Writer, id)
	}
	return nil
}
