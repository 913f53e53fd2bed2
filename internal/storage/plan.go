package storage

import "time"

const (
	PlanStatusUnscheduled = "unscheduled"
	PlanStatusScheduled   = "scheduled"
	PlanStatusCancelled   = "cancelled"
)

type ProductionPlan struct {
	ID              int64     `json:"id"`
	PlanNumber      string    `json:"plan_number"`
	MaterialID      int64     `json:"material_id"`
	PlannedQuantity float64   `json:"planned_quantity"`
	DueDate         time.Time `json:"due_date"`
	Priority        int       `json:"priority"`
	Status          string    `json:"status"`
}

// PlanUpdate carries the editable fields of an unscheduled plan.
type PlanUpdate struct {
	MaterialID      int64     `json:"material_id"`
	PlannedQuantity float64   `json:"planned_quantity"`
	DueDate         time.Time `json:"due_date"`
	Priority        int       `json:"priority"`
}

type PlanFilter struct {
	Status   string
	Page     int
	PageSize int
}
