package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"mes-scheduler/internal/storage"

	"github.com/google/uuid"
)

type SchedulingStorage interface {
	MasterDataStorage
	GetUnscheduledPlans(ctx context.Context) ([]*storage.ProductionPlan, error)
	GetActiveTasks(ctx context.Context) ([]*storage.ProductionTask, error)
	SaveAllocation(ctx context.Context, task storage.ProductionTask) (int64, error)
	EscalatePlanPriorities(ctx context.Context, planIDs []int64) error
}

type PlanFailure struct {
	PlanID     int64  `json:"plan_id"`
	PlanNumber string `json:"plan_number"`
	ErrorKind  string `json:"error_kind"`
}

type RunSummary struct {
	RunID          string        `json:"run_id"`
	ScheduledCount int           `json:"scheduled_count"`
	FailedCount    int           `json:"failed_count"`
	Failures       []PlanFailure `json:"failures"`
}

// Coordinator owns the run-level lock and the shared device timelines for
// the duration of one scheduling run. Plans are processed strictly
// sequentially inside a run; a second concurrent trigger is rejected, not
// queued.
type Coordinator struct {
	log       *slog.Logger
	storage   SchedulingStorage
	allocator *Allocator

	mu  sync.Mutex
	now func() time.Time
}

func NewCoordinator(log *slog.Logger, store SchedulingStorage, defaultResourceBonus int) *Coordinator {
	return &Coordinator{
		log:       log,
		storage:   store,
		allocator: &Allocator{DefaultResourceBonus: defaultResourceBonus},
		now:       time.Now,
	}
}

// ExecuteScheduling runs one batch: reload timelines from persisted task
// state, pull unscheduled plans in EDF order, allocate each, commit each
// allocation atomically. One bad plan never blocks the batch.
func (c *Coordinator) ExecuteScheduling(ctx context.Context) (*RunSummary, error) {
	const op = "service.scheduling.ExecuteScheduling"

	if !c.mu.TryLock() {
		return nil, ErrSchedulingInProgress
	}
	defer c.mu.Unlock()

	now := c.now()
	summary := &RunSummary{RunID: uuid.NewString()}

	log := c.log.With(slog.String("op", op), slog.String("run_id", summary.RunID))

	plans, err := c.storage.GetUnscheduledPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(plans) == 0 {
		log.Info("no unscheduled plans, nothing to do")
		return summary, nil
	}

	idx, err := BuildIndex(ctx, c.storage)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	activeTasks, err := c.storage.GetActiveTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	timelines := BuildTimelines(activeTasks)

	log.Info("scheduling run started",
		slog.Int("plans", len(plans)),
		slog.Int("devices", len(idx.Devices)),
		slog.Int("active_tasks", len(activeTasks)))

	for _, plan := range plans {
		task, allocErr := c.allocator.Allocate(plan, idx, timelines, now)
		if allocErr != nil {
			log.Warn("allocation failed",
				slog.String("plan_number", plan.PlanNumber),
				slog.String("kind", allocErr.Kind))
			summary.Failures = append(summary.Failures, PlanFailure{
				PlanID:     plan.ID,
				PlanNumber: plan.PlanNumber,
				ErrorKind:  allocErr.Kind,
			})
			continue
		}

		taskID, err := c.storage.SaveAllocation(ctx, *task)
		if err != nil {
			// The plan was cancelled between snapshot and commit.
			// Its slot was never booked, the next plan is unaffected.
			if errors.Is(err, storage.ErrModified) {
				log.Warn("plan changed during run, skipped",
					slog.String("plan_number", plan.PlanNumber))
				summary.Failures = append(summary.Failures, PlanFailure{
					PlanID:     plan.ID,
					PlanNumber: plan.PlanNumber,
					ErrorKind:  ErrKindConcurrentModification,
				})
				continue
			}
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		timelines.ForDevice(task.DeviceID).Insert(Interval{
			Start:  task.PlannedStartTime,
			End:    task.PlannedEndTime,
			TaskID: taskID,
		})
		summary.ScheduledCount++

		log.Info("plan scheduled",
			slog.String("plan_number", plan.PlanNumber),
			slog.Int64("task_id", taskID),
			slog.Int64("device_id", task.DeviceID),
			slog.Int64("mold_id", task.MoldID),
			slog.Time("start", task.PlannedStartTime),
			slog.Time("end", task.PlannedEndTime))
	}

	summary.FailedCount = len(summary.Failures)

	log.Info("scheduling run finished",
		slog.Int("scheduled", summary.ScheduledCount),
		slog.Int("failed", summary.FailedCount))

	return summary, nil
}

// SweepOverdue escalates the priority of plans owning overdue active
// tasks. Runs on a cron cadence; is_overdue itself stays derived on read.
func (c *Coordinator) SweepOverdue(ctx context.Context) error {
	const op = "service.scheduling.SweepOverdue"

	tasks, err := c.storage.GetActiveTasks(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	now := c.now()
	seen := make(map[int64]bool)
	var planIDs []int64
	for _, task := range tasks {
		if !IsOverdue(task, now) || seen[task.PlanID] {
			continue
		}
		seen[task.PlanID] = true
		planIDs = append(planIDs, task.PlanID)
	}

	if len(planIDs) == 0 {
		return nil
	}

	if err := c.storage.EscalatePlanPriorities(ctx, planIDs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.log.Info("overdue sweep escalated plans",
		slog.String("op", op), slog.Int("plans", len(planIDs)))

	return nil
}
