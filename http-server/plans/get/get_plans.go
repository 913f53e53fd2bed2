package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"mes-scheduler/internal/storage"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type ResponsePlans struct {
	Plans  []*storage.ProductionPlan `json:"plans"`
	Status string                    `json:"status"`
	Error  string                    `json:"error"`
}

type GetPlans interface {
	GetPlans(ctx context.Context, filter storage.PlanFilter) ([]*storage.ProductionPlan, error)
}

func GetPlansFilter(log *slog.Logger, getPlans GetPlans) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.plans.get.GetPlansFilter"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		filter := storage.PlanFilter{
			Status: r.URL.Query().Get("status"),
		}
		filter.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
		filter.PageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		plans, err := getPlans.GetPlans(ctx, filter)
		if err != nil {
			log.Error("failed to get production plans", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponsePlans{Error: "failed to get production plans"})
			return
		}

		render.JSON(w, r, ResponsePlans{
			Plans:  plans,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
