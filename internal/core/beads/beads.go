// Package beads wraps the bd (beads) CLI used as the primary task tracker.
package beads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/colonyops/ralph/pkg/executil"
	"github.com/rs/zerolog"
)

// MarkerDir is the directory bd creates when a repo is initialized.
const MarkerDir = ".beads"

// Issue is a single tracker record as returned by bd's JSON output.
type Issue struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Assignee string `json:"assignee,omitempty"`
	Priority *int   `json:"priority,omitempty"`
}

// Issue statuses used by the claim/complete/release lifecycle.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
)

// ErrNotAvailable is returned by mutating calls when the tracker cannot
// be reached. Read paths degrade to empty results instead.
var ErrNotAvailable = errors.New("beads tracker not available")

// Client shells out to the bd CLI in a fixed working directory.
type Client struct {
	dir  string
	bin  string
	exec executil.Executor
	log  zerolog.Logger
}

// New creates a bd client rooted at dir. An empty bin defaults to "bd".
func New(dir, bin string, exec executil.Executor, log zerolog.Logger) *Client {
	if bin == "" {
		bin = "bd"
	}
	return &Client{dir: dir, bin: bin, exec: exec, log: log}
}

// Available reports whether the tracker backend can serve requests:
// the marker directory must exist and the bd binary must be on PATH.
// Re-checked on every call, never cached.
func (c *Client) Available() bool {
	if _, err := os.Stat(filepath.Join(c.dir, MarkerDir)); err != nil {
		return false
	}
	_, err := c.exec.LookPath(c.bin)
	return err == nil
}

// Ready returns the tracker's ready list in priority order.
func (c *Client) Ready(ctx context.Context) ([]Issue, error) {
	out, err := c.exec.RunDir(ctx, c.dir, c.bin, "ready", "--json")
	if err != nil {
		return nil, fmt.Errorf("bd ready: %w", err)
	}
	return parseIssueList(out)
}

// Show looks up a single issue by id. Returns ErrNotAvailable semantics
// to the caller only through plain errors; a miss is an error too.
func (c *Client) Show(ctx context.Context, id string) (Issue, error) {
	out, err := c.exec.RunDir(ctx, c.dir, c.bin, "show", id, "--json")
	if err != nil {
		return Issue{}, fmt.Errorf("bd show %s: %w", id, err)
	}

	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" || trimmed == "null" {
		return Issue{}, fmt.Errorf("bd show %s: not found", id)
	}

	// bd show --json emits a single object; some versions wrap it in an array.
	var issue Issue
	if err := json.Unmarshal([]byte(trimmed), &issue); err == nil && issue.ID != "" {
		return issue, nil
	}
	list, err := parseIssueList(out)
	if err != nil || len(list) == 0 {
		return Issue{}, fmt.Errorf("bd show %s: unparseable output", id)
	}
	return list[0], nil
}

// Update sets an issue's status and optionally its assignee.
func (c *Client) Update(ctx context.Context, id, status, assignee string) error {
	args := []string{"update", id, "--status", status}
	if assignee != "" {
		args = append(args, "--assignee", assignee)
	}
	out, err := c.exec.RunDir(ctx, c.dir, c.bin, args...)
	if err != nil {
		return fmt.Errorf("bd update %s: %w: %s", id, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Close marks an issue completed with a reason.
func (c *Client) Close(ctx context.Context, id, reason string) error {
	out, err := c.exec.RunDir(ctx, c.dir, c.bin, "close", id, "--reason", reason)
	if err != nil {
		return fmt.Errorf("bd close %s: %w: %s", id, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func parseIssueList(out []byte) ([]Issue, error) {
	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" || trimmed == "null" || trimmed == "[]" {
		return nil, nil
	}

	var issues []Issue
	if err := json.Unmarshal([]byte(trimmed), &issues); err != nil {
		return nil, fmt.Errorf("parse bd output: %w", err)
	}
	return issues, nil
}
