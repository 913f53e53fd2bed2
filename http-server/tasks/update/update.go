package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"mes-scheduler/internal/service/scheduling"
	"mes-scheduler/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type UpdateTask interface {
	GetTask(ctx context.Context, taskID int64) (*storage.ProductionTask, error)
	UpdateTaskStatus(ctx context.Context, taskID int64, from, to string) error
}

// UpdateTaskState applies one state-machine transition with optimistic
// locking: the read status goes into the WHERE clause, so an edit that
// raced another one fails with 409 instead of clobbering it.
func UpdateTaskState(log *slog.Logger, update UpdateTask) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tasks.update.UpdateTaskState"

		idStr := chi.URLParam(r, "id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := transition(ctx, update, id, req.Status); err != nil {
			writeTransitionError(w, r, log, op, id, err)
			return
		}

		log.Info("task status updated", slog.Int64("id", id), slog.String("status", req.Status))

		render.JSON(w, r, map[string]interface{}{
			"status":  strconv.Itoa(http.StatusOK),
			"task_id": id,
		})
	}
}

// CancelTask transitions a task to cancelled through the same state
// machine; terminal tasks are rejected.
func CancelTask(log *slog.Logger, update UpdateTask) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tasks.update.CancelTask"

		idStr := chi.URLParam(r, "id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := transition(ctx, update, id, storage.TaskStatusCancelled); err != nil {
			writeTransitionError(w, r, log, op, id, err)
			return
		}

		log.Info("task cancelled", slog.Int64("id", id))

		render.JSON(w, r, map[string]interface{}{
			"status": "success",
		})
	}
}

func transition(ctx context.Context, update UpdateTask, taskID int64, to string) error {
	task, err := update.GetTask(ctx, taskID)
	if err != nil {
		return err
	}

	if err := scheduling.ValidateTransition(task.Status, to); err != nil {
		return err
	}

	return update.UpdateTaskStatus(ctx, taskID, task.Status, to)
}

func writeTransitionError(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, taskID int64, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, "Task not found", http.StatusNotFound)
	case errors.Is(err, scheduling.ErrInvalidStateTransition):
		log.Warn("invalid task transition", slog.String("op", op), slog.Int64("id", taskID), slog.String("error", err.Error()))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, map[string]interface{}{
			"error": scheduling.ErrKindInvalidStateTransition,
		})
	case errors.Is(err, storage.ErrModified):
		log.Warn("task changed concurrently", slog.String("op", op), slog.Int64("id", taskID))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, map[string]interface{}{
			"error": scheduling.ErrKindConcurrentModification,
		})
	default:
		log.Error("failed to update task", slog.String("op", op), slog.String("error", err.Error()))
		http.Error(w, "Update failed", http.StatusInternalServerError)
	}
}
