package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/colonyops/ralph/internal/core/beads"
	"github.com/colonyops/ralph/internal/core/config"
	"github.com/colonyops/ralph/internal/core/session"
	"github.com/colonyops/ralph/internal/core/tasks"
	"github.com/colonyops/ralph/internal/store/slot"
	"github.com/colonyops/ralph/pkg/executil"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

type cmdEnv struct {
	flags *Flags
	buf   bytes.Buffer
}

// run executes one CLI invocation against a fresh command tree; flag
// destinations live per registration, so the tree is not reusable.
func (e *cmdEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	app := &cli.Command{
		Name:   "ralph",
		Writer: &e.buf,
	}
	app = NewTaskCmd(e.flags).Register(app)
	app = NewSessionCmd(e.flags).Register(app)
	return app.Run(context.Background(), append([]string{"ralph"}, args...))
}

func (e *cmdEnv) output() string {
	return strings.TrimSpace(e.buf.String())
}

// newCmdEnv wires the full service stack over a temp work dir with a
// checklist backend.
func newCmdEnv(t *testing.T, checklist string) *cmdEnv {
	t.Helper()

	dir := t.TempDir()
	if checklist != "" {
		if err := os.WriteFile(filepath.Join(dir, "PLAN.md"), []byte(checklist), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := config.DefaultConfig()
	cfg.WorkDir = dir
	cfg.DataDir = filepath.Join(dir, "data")

	exec := &executil.RecordingExecutor{}
	tracker := beads.New(dir, "bd", exec, zerolog.Nop())
	svc := tasks.NewService(tracker, tasks.NewChecklist(cfg.ChecklistPath()), slot.NewFileSlot(cfg.PointerPath()), zerolog.Nop())

	return &cmdEnv{
		flags: &Flags{
			Config:   &cfg,
			Exec:     exec,
			Tasks:    svc,
			Sessions: session.NewTracker(slot.NewFileSlot(cfg.SessionPath()), zerolog.Nop()),
		},
	}
}

func TestTaskCount(t *testing.T) {
	env := newCmdEnv(t, "- [ ] A\n- [x] B\n- [ ] C\n")

	if err := env.run(t, "task", "count"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := env.output(); got != "2" {
		t.Errorf("task count = %q, want %q", got, "2")
	}
}

func TestTaskNext(t *testing.T) {
	env := newCmdEnv(t, "- [ ] First thing\n- [ ] Second thing\n")

	if err := env.run(t, "task", "next"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := env.output()
	if !strings.Contains(out, "First thing") {
		t.Errorf("task next output %q missing first title", out)
	}
	if !strings.Contains(out, tasks.ChecklistID) {
		t.Errorf("task next output %q missing sentinel id", out)
	}
}

func TestTaskClaimAndCurrent(t *testing.T) {
	env := newCmdEnv(t, "- [ ] Only task\n")

	if err := env.run(t, "task", "claim"); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if got := env.output(); got != tasks.ChecklistID {
		t.Errorf("claim printed %q, want sentinel id", got)
	}

	env.buf.Reset()
	if err := env.run(t, "task", "current"); err != nil {
		t.Fatalf("current failed: %v", err)
	}
	if got := env.output(); got != "checklist:Only task" {
		t.Errorf("current printed %q", got)
	}

	// Pointer file is the durable record.
	data, err := os.ReadFile(env.flags.Config.PointerPath())
	if err != nil {
		t.Fatalf("pointer file missing: %v", err)
	}
	if string(data) != "checklist:Only task" {
		t.Errorf("pointer file content %q", data)
	}
}

func TestTaskSummaryLimit(t *testing.T) {
	env := newCmdEnv(t, "- [ ] A\n- [ ] B\n- [ ] C\n- [ ] D\n")

	if err := env.run(t, "task", "summary", "--limit", "2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(env.output(), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d summary lines, want 2: %q", len(lines), lines)
	}
	if lines[0] != "[?] checklist: A" {
		t.Errorf("first summary line = %q", lines[0])
	}
}

func TestTaskContext(t *testing.T) {
	env := newCmdEnv(t, "- [ ] A\n")

	if err := env.run(t, "task", "context"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := env.output()
	if !strings.Contains(out, "checklist") || !strings.Contains(out, "1") {
		t.Errorf("task context output %q", out)
	}
}

func TestSessionStoreAndLast(t *testing.T) {
	env := newCmdEnv(t, "")

	if err := env.run(t, "session", "store", "sess-xyz"); err != nil {
		t.Fatalf("store failed: %v", err)
	}

	env.buf.Reset()
	if err := env.run(t, "session", "last"); err != nil {
		t.Fatalf("last failed: %v", err)
	}
	if got := env.output(); got != "sess-xyz" {
		t.Errorf("session last = %q, want %q", got, "sess-xyz")
	}
}

func TestSessionStoreEmptyIDFails(t *testing.T) {
	env := newCmdEnv(t, "")

	if err := env.run(t, "session", "store", ""); err == nil {
		t.Fatal("expected error for empty session id")
	}
}
