package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/colonyops/ralph/internal/core/beads"
	"github.com/colonyops/ralph/internal/store/slot"
	"github.com/rs/zerolog"
)

// DefaultAssignee is used when a claim does not name an assignee.
const DefaultAssignee = "ralph"

// defaultReason is used when a completion does not give one.
const defaultReason = "completed by ralph loop"

// defaultPriority is displayed for tracker issues that carry none.
const defaultPriority = 2

var (
	// ErrEmptyTaskID is returned for lookups with a blank id.
	ErrEmptyTaskID = errors.New("task id is empty")
	// ErrNoReadyTasks is returned when a claim finds nothing actionable.
	ErrNoReadyTasks = errors.New("no ready tasks")
	// ErrNoCurrentTask is returned when no task id can be resolved.
	ErrNoCurrentTask = errors.New("no current task")
	// ErrTrackerUnavailable is returned when completing a tracker task
	// while the tracker cannot be reached.
	ErrTrackerUnavailable = errors.New("tracker unavailable")
)

// Service derives the active backend from the environment on every call
// and applies the claim/complete/release lifecycle to it. It holds no
// state of its own; the pointer slot is the only durable record.
//
// Collaborator failures (bd unreachable, bad JSON) degrade to empty
// results on read paths rather than surfacing as errors.
type Service struct {
	tracker   *beads.Client
	checklist *Checklist
	pointer   slot.Slot
	log       zerolog.Logger
}

// NewService wires the task lifecycle over the given backends.
func NewService(tracker *beads.Client, checklist *Checklist, pointer slot.Slot, log zerolog.Logger) *Service {
	return &Service{tracker: tracker, checklist: checklist, pointer: pointer, log: log}
}

// Source returns the active backend. The tracker wins when both are
// available; selection is re-derived on every call.
func (s *Service) Source(ctx context.Context) Source {
	if s.tracker.Available() {
		return SourceBeads
	}
	if s.checklist.Exists() {
		return SourceChecklist
	}
	return SourceNone
}

// ReadyCount returns the number of actionable tasks. Query or parse
// failures report 0.
func (s *Service) ReadyCount(ctx context.Context) int {
	switch s.Source(ctx) {
	case SourceBeads:
		issues, err := s.tracker.Ready(ctx)
		if err != nil {
			s.log.Debug().Err(err).Msg("ready query failed, reporting zero")
			return 0
		}
		return len(issues)
	case SourceChecklist:
		return s.checklist.ReadyCount()
	default:
		return 0
	}
}

// AllComplete reports whether no actionable tasks remain.
func (s *Service) AllComplete(ctx context.Context) bool {
	return s.ReadyCount(ctx) == 0
}

// Next returns the highest-priority actionable task. Ordering is the
// tracker's own for beads and file order for the checklist.
func (s *Service) Next(ctx context.Context) (Task, bool) {
	switch s.Source(ctx) {
	case SourceBeads:
		issues, err := s.tracker.Ready(ctx)
		if err != nil || len(issues) == 0 {
			return Task{}, false
		}
		return taskFromIssue(issues[0]), true
	case SourceChecklist:
		title, ok := s.checklist.Next()
		if !ok {
			return Task{}, false
		}
		return Task{ID: ChecklistID, Title: title, Source: SourceChecklist}, true
	default:
		return Task{}, false
	}
}

// ByID looks up a tracker task by id. The checklist sentinel has no
// addressable lookup and always misses. A blank id is a caller error.
func (s *Service) ByID(ctx context.Context, id string) (Task, bool, error) {
	if strings.TrimSpace(id) == "" {
		return Task{}, false, ErrEmptyTaskID
	}
	if id == ChecklistID || isChecklistPointer(id) {
		return Task{}, false, nil
	}
	if s.Source(ctx) != SourceBeads {
		return Task{}, false, nil
	}

	issue, err := s.tracker.Show(ctx, id)
	if err != nil {
		s.log.Debug().Err(err).Str("id", id).Msg("task lookup missed")
		return Task{}, false, nil
	}
	return taskFromIssue(issue), true, nil
}

// ClaimNext claims the next ready task and records it in the pointer
// slot. On any failure no pointer is written. An empty assignee
// defaults to "ralph".
func (s *Service) ClaimNext(ctx context.Context, assignee string) (Task, error) {
	if assignee == "" {
		assignee = DefaultAssignee
	}

	switch s.Source(ctx) {
	case SourceBeads:
		issues, err := s.tracker.Ready(ctx)
		if err != nil || len(issues) == 0 {
			return Task{}, ErrNoReadyTasks
		}
		next := issues[0]

		if err := s.tracker.Update(ctx, next.ID, beads.StatusInProgress, assignee); err != nil {
			return Task{}, fmt.Errorf("claim %s: %w", next.ID, err)
		}
		if err := s.pointer.Write([]byte(next.ID)); err != nil {
			// Remote state already moved; see release for the recovery path.
			return Task{}, fmt.Errorf("record claim %s: %w", next.ID, err)
		}
		s.log.Info().Str("id", next.ID).Str("assignee", assignee).Msg("claimed tracker task")
		return taskFromIssue(next), nil

	case SourceChecklist:
		// The checklist has no in-progress status; the pointer is the
		// only record of the claim.
		title, ok := s.checklist.Next()
		if !ok {
			return Task{}, ErrNoReadyTasks
		}
		if err := s.pointer.Write([]byte(checklistPointer(title))); err != nil {
			return Task{}, fmt.Errorf("record claim: %w", err)
		}
		s.log.Info().Str("title", title).Msg("claimed checklist task")
		return Task{ID: ChecklistID, Title: title, Source: SourceChecklist}, nil

	default:
		return Task{}, ErrNoReadyTasks
	}
}

// CurrentID returns the pointer slot content, or empty when nothing is
// claimed.
func (s *Service) CurrentID() string {
	data, err := s.pointer.Read()
	if err != nil {
		s.log.Warn().Err(err).Msg("pointer read failed")
		return ""
	}
	return strings.TrimSpace(string(data))
}

// Complete marks a task finished. An empty id resolves from the
// pointer; an empty reason gets a generic one. Checklist claims only
/// clear the pointer: the checklist line itself is mutated by the agent,
// not by this tool. Tracker completion leaves the pointer in place when
// the close fails so a retry can find the same id.
func (s *Service) Complete(ctx context.Context, id, reason string) error {
	if id == "" {
		id = s.CurrentID()
	}
	if id == "" {
		return ErrNoCurrentTask
	}
	if reason == "" {
		reason = defaultReason
	}

	if id == ChecklistID || isChecklistPointer(id) {
		if err := s.pointer.Clear(); err != nil {
			return fmt.Errorf("clear pointer: %w", err)
		}
		s.log.Info().Msg("completed checklist task")
		return nil
	}

	if !s.tracker.Available() {
		return fmt.Errorf("complete %s: %w", id, ErrTrackerUnavailable)
	}
	if err := s.tracker.Close(ctx, id, reason); err != nil {
		return fmt.Errorf("complete %s: %w", id, err)
	}
	if err := s.pointer.Clear(); err != nil {
		return fmt.Errorf("clear pointer: %w", err)
	}
	s.log.Info().Str("id", id).Str("reason", reason).Msg("completed tracker task")
	return nil
}

// Release un-claims a task without recording completion. Safe to call
// repeatedly; a second call is a no-op success. The pointer is cleared
// even when the remote revert fails.
func (s *Service) Release(ctx context.Context, id, reason string) error {
	if id == "" {
		id = s.CurrentID()
	}

	if id == "" || id == ChecklistID || isChecklistPointer(id) || !s.tracker.Available() {
		return s.pointer.Clear()
	}

	err := s.tracker.Update(ctx, id, beads.StatusOpen, "")
	if clearErr := s.pointer.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	if err != nil {
		return fmt.Errorf("release %s: %w", id, err)
	}
	s.log.Info().Str("id", id).Str("reason", reason).Msg("released task")
	return nil
}

// Context builds a one-line description of the task state for prompt
// injection: active source, ready count, and the claimed task when a
// tracker task is held.
func (s *Service) Context(ctx context.Context) string {
	source := s.Source(ctx)
	line := fmt.Sprintf("Task source: %s | Ready tasks: %d", source, s.ReadyCount(ctx))

	current := s.CurrentID()
	if current == "" || isChecklistPointer(current) || current == ChecklistID {
		return line
	}

	title := "unknown"
	if issue, err := s.tracker.Show(ctx, current); err == nil {
		title = issue.Title
	}
	return fmt.Sprintf("%s | Current task: %s (%s)", line, current, title)
}

// Summary returns up to limit single-line summaries of the top ready
// tasks. Limit defaults to 3.
func (s *Service) Summary(ctx context.Context, limit int) []string {
	if limit <= 0 {
		limit = 3
	}

	switch s.Source(ctx) {
	case SourceBeads:
		issues, err := s.tracker.Ready(ctx)
		if err != nil {
			return nil
		}
		if len(issues) > limit {
			issues = issues[:limit]
		}
		lines := make([]string, 0, len(issues))
		for _, issue := range issues {
			priority := defaultPriority
			if issue.Priority != nil {
				priority = *issue.Priority
			}
			lines = append(lines, fmt.Sprintf("[%d] %s: %s", priority, issue.ID, issue.Title))
		}
		return lines

	case SourceChecklist:
		var lines []string
		s.checklist.scan(func(title string) bool {
			lines = append(lines, fmt.Sprintf("[?] checklist: %s", title))
			return len(lines) < limit
		})
		return lines

	default:
		return nil
	}
}

// Init performs the idempotent startup check: a pointer that names a
// tracker task while the tracker is unreachable is stale and gets
// dropped. Returns the active source.
func (s *Service) Init(ctx context.Context) Source {
	current := s.CurrentID()
	if current != "" && !isChecklistPointer(current) && current != ChecklistID && !s.tracker.Available() {
		s.log.Warn().Str("id", current).Msg("dropping stale pointer, tracker unreachable")
		if err := s.pointer.Clear(); err != nil {
			s.log.Warn().Err(err).Msg("clear stale pointer failed")
		}
	}
	return s.Source(ctx)
}

func taskFromIssue(issue beads.Issue) Task {
	return Task{
		ID:       issue.ID,
		Title:    issue.Title,
		Source:   SourceBeads,
		Priority: issue.Priority,
	}
}
