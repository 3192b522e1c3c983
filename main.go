package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/ralph/internal/commands"
	"github.com/colonyops/ralph/internal/core/beads"
	"github.com/colonyops/ralph/internal/core/config"
	"github.com/colonyops/ralph/internal/core/logging"
	"github.com/colonyops/ralph/internal/core/session"
	"github.com/colonyops/ralph/internal/core/tasks"
	"github.com/colonyops/ralph/internal/store/slot"
	"github.com/colonyops/ralph/pkg/executil"
	"github.com/colonyops/ralph/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var logCloser func()

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "ralph",
		Usage:     "Support tooling for agentic loop harnesses",
		UsageText: "ralph [global options] command [command options]",
		Description: `Ralph backs a loop that repeatedly invokes an AI coding assistant:
it finds the next unit of work from a beads tracker or a markdown
checklist, tracks the claimed task across iterations, decides whether
the assistant session can be resumed, and runs commands under a
deadline.

Each invocation is stateless; durable state lives in the data directory
as flat files the loop can inspect.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("RALPH_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/ralph.log)",
				Sources:     cli.EnvVars("RALPH_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("RALPH_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("RALPH_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "work-dir",
				Usage:       "directory holding the task sources (overrides config)",
				Sources:     cli.EnvVars("RALPH_WORK_DIR"),
				Destination: &flags.WorkDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "ralph.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if flags.WorkDir != "" {
				cfg.WorkDir = flags.WorkDir
			}
			flags.Config = cfg

			exec := &executil.RealExecutor{}
			flags.Exec = exec

			tracker := beads.New(cfg.WorkDir, cfg.Beads.Path, exec, logging.Component("beads"))
			checklist := tasks.NewChecklist(cfg.ChecklistPath())
			pointer := slot.NewFileSlot(cfg.PointerPath())

			flags.Tasks = tasks.NewService(tracker, checklist, pointer, logging.Component("tasks"))
			flags.Sessions = session.NewTracker(slot.NewFileSlot(cfg.SessionPath()), logging.Component("session"))

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewTaskCmd(flags).Register(app)
	app = commands.NewSessionCmd(flags).Register(app)
	app = commands.NewTimeoutCmd(flags).Register(app)
	app = commands.NewDoctorCmd(flags).Register(app)

	// cli.Exit errors are handled inside Run; anything left over is a
	// plain failure.
	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		if msg := runErr.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		exitCode = 1
	}

	os.Exit(exitCode)
}
