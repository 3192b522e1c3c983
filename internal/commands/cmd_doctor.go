package commands

import (
	"context"
	"fmt"

	"github.com/colonyops/ralph/internal/core/doctor"
	"github.com/colonyops/ralph/internal/core/styles"
	"github.com/colonyops/ralph/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type DoctorCmd struct {
	flags *Flags

	jsonOut bool
}

// NewDoctorCmd creates a new doctor command
func NewDoctorCmd(flags *Flags) *DoctorCmd {
	return &DoctorCmd{flags: flags}
}

// Register adds the doctor command to the application
func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "doctor",
		Usage: "Check the loop environment and task sources",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "emit JSON instead of plain text",
				Destination: &cmd.jsonOut,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	checks := []doctor.Check{
		doctor.NewBinaryCheck(cmd.flags.Exec, []doctor.BinaryRequirement{
			{Name: cmd.flags.Config.Beads.Path},
			{Name: "timeout"},
		}),
		doctor.NewSourceCheck(cmd.flags.Tasks),
	}

	results := doctor.RunAll(ctx, checks)

	if cmd.jsonOut {
		return iojson.Write(c.Root().Writer, results)
	}

	for _, result := range results {
		fmt.Fprintln(c.Root().Writer, render(styles.HeaderStyle, result.Name))
		for _, item := range result.Items {
			fmt.Fprintf(c.Root().Writer, "  %s %s %s\n", statusGlyph(item.Status), item.Label, render(styles.MutedStyle, item.Detail))
		}
	}

	_, _, failed := doctor.Summary(results)
	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func statusGlyph(status doctor.Status) string {
	switch status {
	case doctor.StatusPass:
		return render(styles.PassStyle, "ok")
	case doctor.StatusWarn:
		return render(styles.WarnStyle, "??")
	default:
		return render(styles.FailStyle, "!!")
	}
}
