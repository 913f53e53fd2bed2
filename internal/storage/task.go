package storage

import "time"

const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusPaused     = "paused"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

// ProductionTask is a concrete, resource-bound unit of work derived from a
// plan: one device, one mold, one time window. DueDate is copied from the
// plan at creation time and immutable afterwards. IsOverdue is derived on
// every read, never authoritative in the database.
type ProductionTask struct {
	ID               int64     `json:"id"`
	TaskNumber       string    `json:"task_number"`
	PlanID           int64     `json:"plan_id"`
	DeviceID         int64     `json:"device_id"`
	MoldID           int64     `json:"mold_id"`
	TaskQuantity     float64   `json:"task_quantity"`
	PlannedStartTime time.Time `json:"planned_start_time"`
	PlannedEndTime   time.Time `json:"planned_end_time"`
	DueDate          time.Time `json:"due_date"`
	Status           string    `json:"status"`
	IsOverdue        bool      `json:"is_overdue"`
}

// Active reports whether the task still occupies its device timeline slot.
func (t *ProductionTask) Active() bool {
	switch t.Status {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusPaused:
		return true
	}
	return false
}

// Terminal reports whether no further status transition is permitted.
func (t *ProductionTask) Terminal() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusCancelled
}

type TaskFilter struct {
	Status   string
	DeviceID int64
	Page     int
	PageSize int
}
