package scheduling

import (
	"testing"
	"time"

	"mes-scheduler/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSchedulingResult_GroupsAndSorts(t *testing.T) {
	devices := []*storage.Device{
		{ID: 2, Code: "DEV-02"},
		{ID: 1, Code: "DEV-01"},
	}
	now := base.Add(time.Hour)
	tasks := []*storage.ProductionTask{
		{ID: 1, DeviceID: 1, Status: storage.TaskStatusCompleted, PlannedStartTime: base.Add(2 * time.Hour), DueDate: base.Add(5 * time.Hour)},
		{ID: 2, DeviceID: 1, Status: storage.TaskStatusPending, PlannedStartTime: base, DueDate: base.Add(30 * time.Minute)},
		{ID: 3, DeviceID: 2, Status: storage.TaskStatusCancelled, PlannedStartTime: base, DueDate: base},
		{ID: 4, DeviceID: 2, Status: storage.TaskStatusInProgress, PlannedStartTime: base, DueDate: base.Add(8 * time.Hour)},
	}

	result := BuildSchedulingResult(devices, tasks, now)

	require.Len(t, result.Devices, 2)
	// Devices come back ordered by id.
	assert.Equal(t, int64(1), result.Devices[0].Device.ID)
	assert.Equal(t, int64(2), result.Devices[1].Device.ID)

	// Device 1: tasks chronological, task 2 is overdue.
	dev1 := result.Devices[0]
	require.Len(t, dev1.Tasks, 2)
	assert.Equal(t, int64(2), dev1.Tasks[0].ID)
	assert.Equal(t, int64(1), dev1.Tasks[1].ID)
	assert.True(t, dev1.Tasks[0].IsOverdue)
	assert.Equal(t, 2, dev1.TotalTasks)
	assert.Equal(t, 1, dev1.OverdueTasks)
	assert.Equal(t, 1, dev1.CompletedTasks)

	// Device 2: the cancelled task is excluded from the view.
	dev2 := result.Devices[1]
	require.Len(t, dev2.Tasks, 1)
	assert.Equal(t, int64(4), dev2.Tasks[0].ID)

	assert.Equal(t, 3, result.TotalTasks)
	assert.Equal(t, 1, result.OverdueTasks)
	assert.Equal(t, 1, result.CompletedTasks)
	assert.Equal(t, now, result.GeneratedAt)
}

func TestBuildSchedulingResult_Empty(t *testing.T) {
	result := BuildSchedulingResult(nil, nil, base)

	assert.Empty(t, result.Devices)
	assert.Equal(t, 0, result.TotalTasks)
	assert.Equal(t, 0, result.OverdueTasks)
	assert.Equal(t, 0, result.CompletedTasks)
}

func TestBuildSchedulingResult_DeviceWithoutTasks(t *testing.T) {
	devices := []*storage.Device{{ID: 1, Code: "DEV-01"}}

	result := BuildSchedulingResult(devices, nil, base)

	require.Len(t, result.Devices, 1)
	assert.Empty(t, result.Devices[0].Tasks)
	assert.Equal(t, 0, result.Devices[0].TotalTasks)
}
