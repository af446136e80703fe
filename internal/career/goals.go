package career

import (
	"context"

	"github.com/five82/navigator/internal/collection"
	"github.com/five82/navigator/internal/store"
)

// ProgressPatch returns the patch that sets a goal's progress. Progress is
// clamped to 0..100 and the status is "completed" exactly at 100, "active"
// otherwise.
func ProgressPatch(progress int) store.Row {
	progress = min(max(progress, 0), 100)
	status := GoalActive
	if progress == 100 {
		status = GoalCompleted
	}
	return store.Row{
		"progress_percentage": progress,
		"status":              status,
	}
}

// SetProgress writes a goal's progress through c.
func SetProgress(ctx context.Context, c *collection.Controller[Goal], id string, progress int) error {
	return c.Update(ctx, id, ProgressPatch(progress))
}

// NewGoal returns a goal with the form defaults.
func NewGoal(title string) Goal {
	return Goal{Title: title, TimelineMonths: 12, Status: GoalActive}
}
