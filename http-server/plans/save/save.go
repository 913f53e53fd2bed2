package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"mes-scheduler/internal/storage"

	"github.com/go-chi/render"
)

type SavePlan interface {
	SavePlan(ctx context.Context, plan storage.ProductionPlan) (int64, error)
}

type Response struct {
	PlanID int64  `json:"plan_id"`
	Status string `json:"status"`
	Error  string `json:"error"`
}

func SaveProductionPlan(log *slog.Logger, res SavePlan) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.plans.save.SaveProductionPlan"

		var req storage.ProductionPlan
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			log.Error("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		if req.PlanNumber == "" || req.MaterialID == 0 {
			http.Error(w, "plan_number and material_id are required", http.StatusBadRequest)
			return
		}
		if req.PlannedQuantity <= 0 {
			http.Error(w, "planned_quantity must be positive", http.StatusBadRequest)
			return
		}
		if req.DueDate.IsZero() {
			http.Error(w, "due_date is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		planID, err := res.SavePlan(ctx, req)
		if err != nil {
			log.Error("failed to save production plan", slog.String("op", op), slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Response{Error: "failed to save production plan"})
			return
		}

		render.JSON(w, r, Response{
			PlanID: planID,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
