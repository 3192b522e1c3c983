package doctor

import (
	"context"
	"fmt"

	"github.com/colonyops/ralph/internal/core/tasks"
	"github.com/colonyops/ralph/pkg/executil"
)

// BinaryCheck reports whether the external binaries the loop leans on
// are reachable. The tracker CLI missing is a warning, not a failure:
// the checklist backend still works without it.
type BinaryCheck struct {
	exec executil.Executor
	bins []BinaryRequirement
}

// BinaryRequirement names one binary and whether its absence fails the check.
type BinaryRequirement struct {
	Name     string
	Required bool
}

// NewBinaryCheck creates a binary availability check.
func NewBinaryCheck(exec executil.Executor, bins []BinaryRequirement) *BinaryCheck {
	return &BinaryCheck{exec: exec, bins: bins}
}

func (c *BinaryCheck) Name() string { return "Binaries" }

func (c *BinaryCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}
	for _, bin := range c.bins {
		item := CheckItem{Label: bin.Name, Status: StatusPass}
		if path, err := c.exec.LookPath(bin.Name); err == nil {
			item.Detail = path
		} else {
			item.Status = StatusWarn
			if bin.Required {
				item.Status = StatusFail
			}
			item.Detail = "not found on PATH"
		}
		result.Items = append(result.Items, item)
	}
	return result
}

// SourceCheck reports the active task source and the ready count.
type SourceCheck struct {
	svc *tasks.Service
}

// NewSourceCheck creates a task source check.
func NewSourceCheck(svc *tasks.Service) *SourceCheck {
	return &SourceCheck{svc: svc}
}

func (c *SourceCheck) Name() string { return "Task source" }

func (c *SourceCheck) Run(ctx context.Context) Result {
	source := c.svc.Source(ctx)

	item := CheckItem{Label: "active source", Detail: string(source), Status: StatusPass}
	if source == tasks.SourceNone {
		item.Status = StatusWarn
		item.Detail = "none (no .beads directory, no checklist file)"
	}

	ready := CheckItem{
		Label:  "ready tasks",
		Status: StatusPass,
		Detail: fmt.Sprintf("%d", c.svc.ReadyCount(ctx)),
	}

	current := CheckItem{Label: "current claim", Status: StatusPass, Detail: "none"}
	if id := c.svc.CurrentID(); id != "" {
		current.Detail = id
	}

	return Result{Name: c.Name(), Items: []CheckItem{item, ready, current}}
}
