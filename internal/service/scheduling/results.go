package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	"mes-scheduler/internal/storage"
)

type ResultStorage interface {
	GetDevices(ctx context.Context) ([]*storage.Device, error)
	GetTasks(ctx context.Context, filter storage.TaskFilter) ([]*storage.ProductionTask, error)
}

// DeviceSchedule is one device's lane on the timeline view: its
// non-cancelled tasks in chronological order plus aggregate counts.
type DeviceSchedule struct {
	Device         *storage.Device           `json:"device"`
	Tasks          []*storage.ProductionTask `json:"tasks"`
	TotalTasks     int                       `json:"total_tasks"`
	OverdueTasks   int                       `json:"overdue_tasks"`
	CompletedTasks int                       `json:"completed_tasks"`
}

type SchedulingResult struct {
	Devices        []*DeviceSchedule `json:"devices"`
	TotalTasks     int               `json:"total_tasks"`
	OverdueTasks   int               `json:"overdue_tasks"`
	CompletedTasks int               `json:"completed_tasks"`
	GeneratedAt    time.Time         `json:"generated_at"`
}

// BuildSchedulingResult groups non-cancelled tasks per device, each group
// sorted by planned start time. Pure: an empty task set yields an empty
// grouping, not an error.
func BuildSchedulingResult(devices []*storage.Device, tasks []*storage.ProductionTask, now time.Time) *SchedulingResult {
	result := &SchedulingResult{GeneratedAt: now}

	byDevice := make(map[int64]*DeviceSchedule, len(devices))
	for _, device := range devices {
		schedule := &DeviceSchedule{Device: device}
		byDevice[device.ID] = schedule
		result.Devices = append(result.Devices, schedule)
	}
	sort.Slice(result.Devices, func(i, j int) bool {
		return result.Devices[i].Device.ID < result.Devices[j].Device.ID
	})

	for _, task := range tasks {
		if task.Status == storage.TaskStatusCancelled {
			continue
		}
		schedule, ok := byDevice[task.DeviceID]
		if !ok {
			continue
		}

		task.IsOverdue = IsOverdue(task, now)
		schedule.Tasks = append(schedule.Tasks, task)
	}

	for _, schedule := range result.Devices {
		sort.Slice(schedule.Tasks, func(i, j int) bool {
			ti, tj := schedule.Tasks[i], schedule.Tasks[j]
			if !ti.PlannedStartTime.Equal(tj.PlannedStartTime) {
				return ti.PlannedStartTime.Before(tj.PlannedStartTime)
			}
			return ti.ID < tj.ID
		})

		schedule.TotalTasks = len(schedule.Tasks)
		for _, task := range schedule.Tasks {
			if task.IsOverdue {
				schedule.OverdueTasks++
			}
			if task.Status == storage.TaskStatusCompleted {
				schedule.CompletedTasks++
			}
		}

		result.TotalTasks += schedule.TotalTasks
		result.OverdueTasks += schedule.OverdueTasks
		result.CompletedTasks += schedule.CompletedTasks
	}

	return result
}

// ResultService is the read path behind the results endpoint and the Excel
// report.
type ResultService struct {
	storage ResultStorage
	now     func() time.Time
}

func NewResultService(store ResultStorage) *ResultService {
	return &ResultService{storage: store, now: time.Now}
}

func (s *ResultService) SchedulingResults(ctx context.Context) (*SchedulingResult, error) {
	const op = "service.scheduling.SchedulingResults"

	devices, err := s.storage.GetDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tasks, err := s.storage.GetTasks(ctx, storage.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return BuildSchedulingResult(devices, tasks, s.now()), nil
}
