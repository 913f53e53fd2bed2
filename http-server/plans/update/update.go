package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"mes-scheduler/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type UpdatePlan interface {
	UpdatePlan(ctx context.Context, planID int64, update storage.PlanUpdate) error
	CancelPlan(ctx context.Context, planID int64) error
}

// UpdateProductionPlan edits a plan. Only unscheduled plans are editable;
// a guarded update that matches nothing comes back as a 409.
func UpdateProductionPlan(log *slog.Logger, update UpdatePlan) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.plans.update.UpdateProductionPlan"

		idStr := chi.URLParam(r, "id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req storage.PlanUpdate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		if req.PlannedQuantity <= 0 {
			http.Error(w, "planned_quantity must be positive", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err = update.UpdatePlan(ctx, id, req)
		if err != nil {
			if errors.Is(err, storage.ErrModified) {
				log.Warn("plan is not editable", slog.String("op", op), slog.Int64("id", id))
				w.WriteHeader(http.StatusConflict)
				render.JSON(w, r, map[string]interface{}{
					"error": "concurrent_modification",
				})
				return
			}
			log.Error("failed to update plan", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Update failed", http.StatusInternalServerError)
			return
		}

		log.Info("plan updated", slog.Int64("id", id))

		render.JSON(w, r, map[string]interface{}{
			"status":  strconv.Itoa(http.StatusOK),
			"plan_id": id,
		})
	}
}

// CancelProductionPlan is the only mutation allowed on a non-unscheduled
// plan. Cancellation is terminal.
func CancelProductionPlan(log *slog.Logger, update UpdatePlan) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.plans.update.CancelProductionPlan"

		idStr := chi.URLParam(r, "id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err = update.CancelPlan(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrModified) {
				w.WriteHeader(http.StatusConflict)
				render.JSON(w, r, map[string]interface{}{
					"error": "concurrent_modification",
				})
				return
			}
			log.Error("failed to cancel plan", slog.String("op", op), slog.String("error", err.Error()), slog.Int64("id", id))
			http.Error(w, "Failed to cancel plan", http.StatusInternalServerError)
			return
		}

		log.Info("plan cancelled", slog.Int64("id", id))

		render.JSON(w, r, map[string]interface{}{
			"status": "success",
		})
	}
}
