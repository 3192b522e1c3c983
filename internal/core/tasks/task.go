// Package tasks exposes a uniform task lifecycle over whichever task
// source is present: the beads tracker, a markdown checklist, or nothing.
package tasks

import "strings"

// Source identifies which backend a task came from.
type Source string

const (
	SourceBeads     Source = "beads"
	SourceChecklist Source = "checklist"
	SourceNone      Source = "none"
)

// ChecklistID is the sentinel id for the checklist backend's current
// task. Checklist lines have no stable identity beyond position, so the
// one addressable task always carries this id.
const ChecklistID = "checklist"

// checklistPointerPrefix tags checklist claims in the pointer slot.
const checklistPointerPrefix = "checklist:"

// Task is one unit of work from either backend.
type Task struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Source   Source `json:"source"`
	Priority *int   `json:"priority,omitempty"`
}

// IsZero reports whether the task is the empty value.
func (t Task) IsZero() bool {
	return t.ID == "" && t.Title == ""
}

// checklistPointer renders the pointer content for a claimed checklist task.
func checklistPointer(title string) string {
	return checklistPointerPrefix + title
}

// isChecklistPointer reports whether pointer content refers to the
// checklist backend rather than a tracker id.
func isChecklistPointer(content string) bool {
	return strings.HasPrefix(content, checklistPointerPrefix)
}
