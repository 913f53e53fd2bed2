package execute

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"mes-scheduler/internal/service/scheduling"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Executor interface {
	ExecuteScheduling(ctx context.Context) (*scheduling.RunSummary, error)
}

type Response struct {
	Summary *scheduling.RunSummary `json:"summary,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// ExecuteScheduling triggers one batch run. Safe to re-trigger: a run over
// zero unscheduled plans is a no-op, and a concurrent trigger is rejected
// with 409 rather than queued.
func ExecuteScheduling(log *slog.Logger, executor Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.scheduling.execute.ExecuteScheduling"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		// A run may take a while on large plan volumes; give it more
		// room than the usual read timeout.
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
		defer cancel()

		summary, err := executor.ExecuteScheduling(ctx)
		if err != nil {
			if errors.Is(err, scheduling.ErrSchedulingInProgress) {
				log.Warn("scheduling already running, trigger rejected")
				w.WriteHeader(http.StatusConflict)
				render.JSON(w, r, Response{Error: scheduling.ErrKindSchedulingInProgress})
				return
			}
			log.Error("scheduling run failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Response{Error: "scheduling run failed"})
			return
		}

		render.JSON(w, r, Response{Summary: summary})
	}
}
