package scheduling

import (
	"testing"
	"time"

	"mes-scheduler/internal/storage"

	"github.com/stretchr/testify/assert"
)

func TestIsOverdue(t *testing.T) {
	now := base.Add(24 * time.Hour)

	task := &storage.ProductionTask{
		DueDate: base,
		Status:  storage.TaskStatusPending,
	}

	assert.True(t, IsOverdue(task, now))

	// Completing the task clears the flag without touching the due date.
	task.Status = storage.TaskStatusCompleted
	assert.False(t, IsOverdue(task, now))
	assert.Equal(t, base, task.DueDate)

	task.Status = storage.TaskStatusCancelled
	assert.False(t, IsOverdue(task, now))

	// Not yet due.
	task.Status = storage.TaskStatusInProgress
	assert.False(t, IsOverdue(task, base.Add(-time.Hour)))
}

func TestDecorateOverdue(t *testing.T) {
	now := base.Add(time.Hour)
	tasks := []*storage.ProductionTask{
		{DueDate: base, Status: storage.TaskStatusPending},
		{DueDate: base, Status: storage.TaskStatusCompleted},
		{DueDate: now.Add(time.Hour), Status: storage.TaskStatusPending},
	}

	DecorateOverdue(tasks, now)

	assert.True(t, tasks[0].IsOverdue)
	assert.False(t, tasks[1].IsOverdue)
	assert.False(t, tasks[2].IsOverdue)
}

func TestValidateTransition_Allowed(t *testing.T) {
	allowed := [][2]string{
		{storage.TaskStatusPending, storage.TaskStatusInProgress},
		{storage.TaskStatusPending, storage.TaskStatusCancelled},
		{storage.TaskStatusInProgress, storage.TaskStatusPaused},
		{storage.TaskStatusInProgress, storage.TaskStatusCompleted},
		{storage.TaskStatusInProgress, storage.TaskStatusCancelled},
		{storage.TaskStatusPaused, storage.TaskStatusInProgress},
		{storage.TaskStatusPaused, storage.TaskStatusCancelled},
	}

	for _, pair := range allowed {
		assert.NoError(t, ValidateTransition(pair[0], pair[1]), "%s → %s", pair[0], pair[1])
	}
}

func TestValidateTransition_Rejected(t *testing.T) {
	rejected := [][2]string{
		{storage.TaskStatusPending, storage.TaskStatusCompleted},
		{storage.TaskStatusPending, storage.TaskStatusPaused},
		{storage.TaskStatusPaused, storage.TaskStatusCompleted},
		{storage.TaskStatusCompleted, storage.TaskStatusInProgress},
		{storage.TaskStatusCompleted, storage.TaskStatusCancelled},
		{storage.TaskStatusCancelled, storage.TaskStatusPending},
		{storage.TaskStatusCancelled, storage.TaskStatusInProgress},
		{"bogus", storage.TaskStatusInProgress},
	}

	for _, pair := range rejected {
		err := ValidateTransition(pair[0], pair[1])
		assert.ErrorIs(t, err, ErrInvalidStateTransition, "%s → %s", pair[0], pair[1])
	}
}
