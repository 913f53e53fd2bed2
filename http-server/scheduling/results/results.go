package results

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"mes-scheduler/internal/service/scheduling"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Results interface {
	SchedulingResults(ctx context.Context) (*scheduling.SchedulingResult, error)
}

type Response struct {
	Result *scheduling.SchedulingResult `json:"result,omitempty"`
	Error  string                       `json:"error,omitempty"`
}

// GetSchedulingResults returns the per-device timeline view for dashboards
// and Gantt rendering.
func GetSchedulingResults(log *slog.Logger, results Results) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.scheduling.results.GetSchedulingResults"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		result, err := results.SchedulingResults(ctx)
		if err != nil {
			log.Error("failed to build scheduling results", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Response{Error: "failed to build scheduling results"})
			return
		}

		render.JSON(w, r, Response{Result: result})
	}
}
