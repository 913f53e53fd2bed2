package scheduling

import (
	"fmt"
	"time"

	"mes-scheduler/internal/storage"
)

// IsOverdue derives the overdue flag: the due date has passed and the task
// is not in a terminal state. Never persisted as ground truth, only cached
// per response.
func IsOverdue(task *storage.ProductionTask, now time.Time) bool {
	if task.Terminal() {
		return false
	}
	return now.After(task.DueDate)
}

// DecorateOverdue recomputes IsOverdue on every task of a read path.
func DecorateOverdue(tasks []*storage.ProductionTask, now time.Time) {
	for _, task := range tasks {
		task.IsOverdue = IsOverdue(task, now)
	}
}

// Task status state machine:
//
//	pending → in_progress → {completed, cancelled}
//	in_progress ↔ paused
//	pending → cancelled
//
// completed and cancelled are terminal.
var taskTransitions = map[string]map[string]bool{
	storage.TaskStatusPending: {
		storage.TaskStatusInProgress: true,
		storage.TaskStatusCancelled:  true,
	},
	storage.TaskStatusInProgress: {
		storage.TaskStatusPaused:    true,
		storage.TaskStatusCompleted: true,
		storage.TaskStatusCancelled: true,
	},
	storage.TaskStatusPaused: {
		storage.TaskStatusInProgress: true,
		storage.TaskStatusCancelled:  true,
	},
}

// ValidateTransition rejects any task status change the state machine does
// not permit, including every transition out of a terminal state.
func ValidateTransition(from, to string) error {
	if taskTransitions[from][to] {
		return nil
	}
	return fmt.Errorf("%s → %s: %w", from, to, ErrInvalidStateTransition)
}
