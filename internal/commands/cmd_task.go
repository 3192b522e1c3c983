package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/colonyops/ralph/internal/core/tasks"
	"github.com/colonyops/ralph/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type TaskCmd struct {
	flags *Flags

	assignee string
	reason   string
	limit    int
	jsonOut  bool
}

// NewTaskCmd creates a new task command
func NewTaskCmd(flags *Flags) *TaskCmd {
	return &TaskCmd{flags: flags}
}

// Register adds the task command to the application
func (cmd *TaskCmd) Register(app *cli.Command) *cli.Command {
	jsonFlag := &cli.BoolFlag{
		Name:        "json",
		Usage:       "emit JSON instead of plain text",
		Destination: &cmd.jsonOut,
	}

	app.Commands = append(app.Commands, &cli.Command{
		Name:  "task",
		Usage: "Query and drive the active task source",
		Description: `Task subcommands expose the beads tracker when available and fall
back to the markdown checklist otherwise. Backend selection happens on
every invocation; nothing is cached between calls.`,
		Commands: []*cli.Command{
			{
				Name:   "count",
				Usage:  "Print the number of ready tasks",
				Action: cmd.runCount,
			},
			{
				Name:   "done",
				Usage:  "Exit 0 when no ready tasks remain, 1 otherwise",
				Action: cmd.runDone,
			},
			{
				Name:   "next",
				Usage:  "Print the next ready task",
				Flags:  []cli.Flag{jsonFlag},
				Action: cmd.runNext,
			},
			{
				Name:      "show",
				Usage:     "Look up a tracker task by id",
				ArgsUsage: "<id>",
				Flags:     []cli.Flag{jsonFlag},
				Action:    cmd.runShow,
			},
			{
				Name:  "claim",
				Usage: "Claim the next ready task and record the pointer",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "assignee",
						Usage:       "assignee recorded on the tracker task",
						Destination: &cmd.assignee,
					},
				},
				Action: cmd.runClaim,
			},
			{
				Name:      "complete",
				Usage:     "Mark a task complete (defaults to the current claim)",
				ArgsUsage: "[id]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "reason",
						Usage:       "completion reason recorded on the tracker",
						Destination: &cmd.reason,
					},
				},
				Action: cmd.runComplete,
			},
			{
				Name:      "release",
				Usage:     "Un-claim a task without completing it",
				ArgsUsage: "[id]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "reason",
						Usage:       "release reason (logged only)",
						Destination: &cmd.reason,
					},
				},
				Action: cmd.runRelease,
			},
			{
				Name:   "current",
				Usage:  "Print the current claim pointer, if any",
				Action: cmd.runCurrent,
			},
			{
				Name:   "context",
				Usage:  "Print a one-line task context for prompt injection",
				Action: cmd.runContext,
			},
			{
				Name:  "summary",
				Usage: "Print one-line summaries of the top ready tasks",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "limit",
						Usage:       "maximum number of tasks to list",
						Value:       3,
						Destination: &cmd.limit,
					},
					jsonFlag,
				},
				Action: cmd.runSummary,
			},
			{
				Name:   "init",
				Usage:  "Drop stale pointers and print the active source",
				Action: cmd.runInit,
			},
		},
	})

	return app
}

func (cmd *TaskCmd) runCount(ctx context.Context, c *cli.Command) error {
	fmt.Fprintln(c.Root().Writer, cmd.flags.Tasks.ReadyCount(ctx))
	return nil
}

func (cmd *TaskCmd) runDone(ctx context.Context, c *cli.Command) error {
	if cmd.flags.Tasks.AllComplete(ctx) {
		return nil
	}
	return cli.Exit("", 1)
}

func (cmd *TaskCmd) runNext(ctx context.Context, c *cli.Command) error {
	task, ok := cmd.flags.Tasks.Next(ctx)
	if !ok {
		return nil
	}
	if cmd.jsonOut {
		return iojson.Write(c.Root().Writer, task)
	}
	fmt.Fprintf(c.Root().Writer, "%s\t%s\n", task.ID, task.Title)
	return nil
}

func (cmd *TaskCmd) runShow(ctx context.Context, c *cli.Command) error {
	task, ok, err := cmd.flags.Tasks.ByID(ctx, c.Args().First())
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if cmd.jsonOut {
		return iojson.Write(c.Root().Writer, task)
	}
	fmt.Fprintf(c.Root().Writer, "%s\t%s\n", task.ID, task.Title)
	return nil
}

func (cmd *TaskCmd) runClaim(ctx context.Context, c *cli.Command) error {
	assignee := cmd.assignee
	if assignee == "" {
		assignee = cmd.flags.Config.Tasks.Assignee
	}

	task, err := cmd.flags.Tasks.ClaimNext(ctx, assignee)
	if err != nil {
		if errors.Is(err, tasks.ErrNoReadyTasks) {
			return cli.Exit("no ready tasks to claim", 1)
		}
		return fmt.Errorf("claim task: %w", err)
	}

	fmt.Fprintln(c.Root().Writer, task.ID)
	return nil
}

func (cmd *TaskCmd) runComplete(ctx context.Context, c *cli.Command) error {
	if err := cmd.flags.Tasks.Complete(ctx, c.Args().First(), cmd.reason); err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	return nil
}

func (cmd *TaskCmd) runRelease(ctx context.Context, c *cli.Command) error {
	if err := cmd.flags.Tasks.Release(ctx, c.Args().First(), cmd.reason); err != nil {
		return fmt.Errorf("release task: %w", err)
	}
	return nil
}

func (cmd *TaskCmd) runCurrent(ctx context.Context, c *cli.Command) error {
	if id := cmd.flags.Tasks.CurrentID(); id != "" {
		fmt.Fprintln(c.Root().Writer, id)
	}
	return nil
}

func (cmd *TaskCmd) runContext(ctx context.Context, c *cli.Command) error {
	fmt.Fprintln(c.Root().Writer, cmd.flags.Tasks.Context(ctx))
	return nil
}

func (cmd *TaskCmd) runSummary(ctx context.Context, c *cli.Command) error {
	lines := cmd.flags.Tasks.Summary(ctx, cmd.limit)
	if cmd.jsonOut {
		return iojson.Write(c.Root().Writer, lines)
	}
	for _, line := range lines {
		fmt.Fprintln(c.Root().Writer, line)
	}
	return nil
}

func (cmd *TaskCmd) runInit(ctx context.Context, c *cli.Command) error {
	fmt.Fprintln(c.Root().Writer, cmd.flags.Tasks.Init(ctx))
	return nil
}
