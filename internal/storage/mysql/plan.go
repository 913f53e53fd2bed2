package mysql

import (
	"context"
	"fmt"
	"mes-scheduler/internal/storage"
	"strings"
)

func (s *Storage) GetPlans(ctx context.Context, filter storage.PlanFilter) ([]*storage.ProductionPlan, error) {
	const op = "storage.mysql.plan.GetPlans"

	stmt := `SELECT id, plan_number, material_id, planned_quantity, due_date, priority, status
			 FROM production_plans`
	var args []interface{}

	if filter.Status != "" {
		stmt += ` WHERE status = ?`
		args = append(args, filter.Status)
	}

	stmt += ` ORDER BY due_date, id`

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		stmt += ` LIMIT ? OFFSET ?`
		args = append(args, filter.PageSize, (page-1)*filter.PageSize)
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var plans []*storage.ProductionPlan
	for rows.Next() {
		plan := &storage.ProductionPlan{}

		err := rows.Scan(&plan.ID, &plan.PlanNumber, &plan.MaterialID, &plan.PlannedQuantity,
			&plan.DueDate, &plan.Priority, &plan.Status)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		plans = append(plans, plan)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return plans, nil
}

// GetUnscheduledPlans returns the scheduling run's worklist: earliest due
// date first, escalated priority breaking ties, then id so the order is
// total and a re-run is reproducible.
func (s *Storage) GetUnscheduledPlans(ctx context.Context) ([]*storage.ProductionPlan, error) {
	const op = "storage.mysql.plan.GetUnscheduledPlans"

	stmt := `SELECT id, plan_number, material_id, planned_quantity, due_date, priority, status
			 FROM production_plans
			 WHERE status = ?
			 ORDER BY due_date, priority DESC, id`

	rows, err := s.db.QueryContext(ctx, stmt, storage.PlanStatusUnscheduled)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var plans []*storage.ProductionPlan
	for rows.Next() {
		plan := &storage.ProductionPlan{}

		err := rows.Scan(&plan.ID, &plan.PlanNumber, &plan.MaterialID, &plan.PlannedQuantity,
			&plan.DueDate, &plan.Priority, &plan.Status)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		plans = append(plans, plan)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return plans, nil
}

func (s *Storage) SavePlan(ctx context.Context, plan storage.ProductionPlan) (int64, error) {
	const op = "storage.mysql.plan.SavePlan"

	stmt := `INSERT INTO production_plans (plan_number, material_id, planned_quantity, due_date, priority, status)
			 VALUES (?, ?, ?, ?, ?, ?)`

	exec, err := s.db.ExecContext(ctx, stmt, plan.PlanNumber, plan.MaterialID, plan.PlannedQuantity,
		plan.DueDate, plan.Priority, storage.PlanStatusUnscheduled)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return exec.LastInsertId()
}

// UpdatePlan edits a plan only while it is still unscheduled. A scheduled
// or cancelled plan is read-only except for cancellation.
func (s *Storage) UpdatePlan(ctx context.Context, planID int64, update storage.PlanUpdate) error {
	const op = "storage.mysql.plan.UpdatePlan"

	stmt := `UPDATE production_plans
			 SET material_id = ?, planned_quantity = ?, due_date = ?, priority = ?
			 WHERE id = ? AND status = ?`

	res, err := s.db.ExecContext(ctx, stmt, update.MaterialID, update.PlannedQuantity,
		update.DueDate, update.Priority, planID, storage.PlanStatusUnscheduled)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: plan %d: %w", op, planID, storage.ErrModified)
	}

	return nil
}

// CancelPlan is terminal and only valid for plans that are not already
// cancelled.
func (s *Storage) CancelPlan(ctx context.Context, planID int64) error {
	const op = "storage.mysql.plan.CancelPlan"

	stmt := `UPDATE production_plans
			 SET status = ?
			 WHERE id = ? AND status != ?`

	res, err := s.db.ExecContext(ctx, stmt, storage.PlanStatusCancelled, planID, storage.PlanStatusCancelled)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: plan %d: %w", op, planID, storage.ErrModified)
	}

	return nil
}

// EscalatePlanPriorities bumps the priority of the given plans, capped at
// the same ceiling as scheduling weights.
func (s *Storage) EscalatePlanPriorities(ctx context.Context, planIDs []int64) error {
	const op = "storage.mysql.plan.EscalatePlanPriorities"

	if len(planIDs) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(planIDs)), ",")
	stmt := `UPDATE production_plans SET priority = LEAST(priority + 1, 100) WHERE id IN (` + placeholders + `)`

	args := make([]interface{}, 0, len(planIDs))
	for _, id := range planIDs {
		args = append(args, id)
	}

	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
