// Package timeout runs a child command under a wall-clock deadline.
//
// It prefers a host timeout binary when one exists and falls back to a
// native implementation that terminates the child itself. Either way the
// caller sees the conventional timeout(1) contract: the child's exit code
// on normal completion, 124 on deadline expiry.
package timeout

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

// ExitTimeout is the exit code reported when the deadline expires,
// matching GNU timeout(1).
const ExitTimeout = 124

// exitStartFailure mirrors the shell convention for "command not found
// or not runnable".
const exitStartFailure = 127

// DefaultGrace is how long the native fallback waits after SIGTERM
// before force-killing the child.
const DefaultGrace = 2 * time.Second

// ErrInvalidDuration is returned for duration strings that do not match
// the accepted grammar. The message is part of the CLI contract.
var ErrInvalidDuration = errors.New("Invalid duration format")

var durationPattern = regexp.MustCompile(`^([0-9]+)([smh]?)$`)

// ParseDuration parses a duration of the form "30", "30s", "5m", or "1h"
// into seconds. The unit defaults to seconds when omitted.
func ParseDuration(s string) (int64, error) {
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q (expected digits with optional s/m/h suffix)", ErrInvalidDuration, s)
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}

	switch m[2] {
	case "m":
		n *= 60
	case "h":
		n *= 3600
	}
	return n, nil
}

// LookPathFunc resolves a binary name on PATH.
type LookPathFunc func(string) (string, error)

// Runner executes commands under a deadline.
type Runner struct {
	// Grace is the SIGTERM-to-SIGKILL window for the native fallback.
	// Zero means DefaultGrace.
	Grace time.Duration

	// DisableHostTimeout forces the native fallback even when a host
	// timeout binary exists. Used by tests to pin the code path.
	DisableHostTimeout bool

	// LookPath defaults to exec.LookPath.
	LookPath LookPathFunc

	Log zerolog.Logger
}

// Run executes name with args under the given deadline, wiring the child
// to the provided stdout/stderr. It returns the exit code per the
// timeout(1) contract. The error is non-nil only for caller input
// problems (bad duration) or failure to start the child at all.
func (r *Runner) Run(duration string, stdout, stderr io.Writer, name string, args ...string) (int, error) {
	secs, err := ParseDuration(duration)
	if err != nil {
		return 1, err
	}

	lookPath := r.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	if !r.DisableHostTimeout {
		for _, bin := range []string{"timeout", "gtimeout"} {
			if _, lperr := lookPath(bin); lperr == nil {
				return r.runHost(bin, secs, stdout, stderr, name, args)
			}
		}
	}

	return r.runNative(secs, stdout, stderr, name, args)
}

// runHost delegates deadline enforcement to a host timeout binary.
// Exit code 124 passes through from the binary on expiry.
func (r *Runner) runHost(bin string, secs int64, stdout, stderr io.Writer, name string, args []string) (int, error) {
	full := append([]string{strconv.FormatInt(secs, 10), name}, args...)
	cmd := exec.Command(bin, full...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return exitStartFailure, fmt.Errorf("start %s: %w", name, err)
	}
	return 0, nil
}

// runNative starts the child directly, arms a timer, and on expiry sends
// SIGTERM, waits out the grace window, then SIGKILLs whatever is left.
// Grandchildren the command forked are not chased.
func (r *Runner) runNative(secs int64, stdout, stderr io.Writer, name string, args []string) (int, error) {
	cmd := exec.Command(name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return exitStartFailure, fmt.Errorf("start %s: %w", name, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	grace := r.Grace
	if grace == 0 {
		grace = DefaultGrace
	}

	deadline := time.NewTimer(time.Duration(secs) * time.Second)
	defer deadline.Stop()

	select {
	case err := <-done:
		return exitCodeOf(err), nil
	case <-deadline.C:
		r.Log.Warn().Str("command", name).Int64("seconds", secs).Msg("deadline expired, terminating child")
		_ = cmd.Process.Signal(syscall.SIGTERM)

		select {
		case <-done:
		case <-time.After(grace):
			_ = cmd.Process.Kill()
			<-done
		}
		return ExitTimeout, nil
	}
}

func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
