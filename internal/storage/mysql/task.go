package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mes-scheduler/internal/storage"
)

const taskColumns = `id, task_number, plan_id, device_id, mold_id, task_quantity,
			 planned_start_time, planned_end_time, due_date, status`

func scanTask(rows *sql.Rows) (*storage.ProductionTask, error) {
	task := &storage.ProductionTask{}

	err := rows.Scan(&task.ID, &task.TaskNumber, &task.PlanID, &task.DeviceID, &task.MoldID,
		&task.TaskQuantity, &task.PlannedStartTime, &task.PlannedEndTime, &task.DueDate, &task.Status)
	if err != nil {
		return nil, err
	}

	return task, nil
}

func (s *Storage) GetTasks(ctx context.Context, filter storage.TaskFilter) ([]*storage.ProductionTask, error) {
	const op = "storage.mysql.task.GetTasks"

	stmt := `SELECT ` + taskColumns + ` FROM production_tasks`
	var args []interface{}
	var conds []string

	if filter.Status != "" {
		conds = append(conds, `status = ?`)
		args = append(args, filter.Status)
	}
	if filter.DeviceID != 0 {
		conds = append(conds, `device_id = ?`)
		args = append(args, filter.DeviceID)
	}
	for i, cond := range conds {
		if i == 0 {
			stmt += ` WHERE ` + cond
		} else {
			stmt += ` AND ` + cond
		}
	}

	stmt += ` ORDER BY planned_start_time, id`

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

	var tasks []*storage.ProductionTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		tasks = append(tasks, task)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tasks, nil
}

// GetActiveTasks returns tasks that still occupy their device timeline
// slot: pending, in_progress or paused. This is the state a scheduling run
// reloads its timelines from.
func (s *Storage) GetActiveTasks(ctx context.Context) ([]*storage.ProductionTask, error) {
	const op = "storage.mysql.task.GetActiveTasks"

	stmt := `SELECT ` + taskColumns + `
			 FROM production_tasks
			 WHERE status IN (?, ?, ?)
			 ORDER BY device_id, planned_start_time`

	rows, err := s.db.QueryContext(ctx, stmt,
		storage.TaskStatusPending, storage.TaskStatusInProgress, storage.TaskStatusPaused)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var tasks []*storage.ProductionTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		tasks = append(tasks, task)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tasks, nil
}

func (s *Storage) GetTask(ctx context.Context, taskID int64) (*storage.ProductionTask, error) {
	const op = "storage.mysql.task.GetTask"

	stmt := `SELECT ` + taskColumns + ` FROM production_tasks WHERE id = ?`

	task := &storage.ProductionTask{}
	err := s.db.QueryRowContext(ctx, stmt, taskID).Scan(
		&task.ID, &task.TaskNumber, &task.PlanID, &task.DeviceID, &task.MoldID,
		&task.TaskQuantity, &task.PlannedStartTime, &task.PlannedEndTime, &task.DueDate, &task.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: task %d: %w", op, taskID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return task, nil
}

// SaveAllocation commits one plan's allocation atomically: the task row is
// inserted and the owning plan flips unscheduled→scheduled in a single
// transaction. The status guard on the plan update detects a plan that was
// cancelled between the run's snapshot and this commit; in that case
// nothing is written and storage.ErrModified is returned.
func (s *Storage) SaveAllocation(ctx context.Context, task storage.ProductionTask) (int64, error) {
	const op = "storage.mysql.task.SaveAllocation"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE production_plans SET status = ? WHERE id = ? AND status = ?`,
		storage.PlanStatusScheduled, task.PlanID, storage.PlanStatusUnscheduled)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return 0, fmt.Errorf("%s: plan %d: %w", op, task.PlanID, storage.ErrModified)
	}

	exec, err := tx.ExecContext(ctx,
		`INSERT INTO production_tasks
			(task_number, plan_id, device_id, mold_id, task_quantity,
			 planned_start_time, planned_end_time, due_date, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.TaskNumber, task.PlanID, task.DeviceID, task.MoldID, task.TaskQuantity,
		task.PlannedStartTime, task.PlannedEndTime, task.DueDate, task.Status)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	taskID, err := exec.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", op, err)
	}

	return taskID, nil
}

// UpdateTaskStatus performs an optimistically-locked single-row transition:
// the current status is part of the WHERE clause, so a task edited between
// read and write fails with storage.ErrModified instead of being clobbered.
func (s *Storage) UpdateTaskStatus(ctx context.Context, taskID int64, from, to string) error {
	const op = "storage.mysql.task.UpdateTaskStatus"

	stmt := `UPDATE production_tasks SET status = ? WHERE id = ? AND status = ?`

	res, err := s.db.ExecContext(ctx, stmt, to, taskID, from)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: task %d: %w", op, taskID, storage.ErrModified)
	}

	return nil
}
