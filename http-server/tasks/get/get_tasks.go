package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"mes-scheduler/internal/service/scheduling"
	"mes-scheduler/internal/storage"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type ResponseTasks struct {
	Tasks  []*storage.ProductionTask `json:"tasks"`
	Status string                    `json:"status"`
	Error  string                    `json:"error"`
}

type GetTasks interface {
	GetTasks(ctx context.Context, filter storage.TaskFilter) ([]*storage.ProductionTask, error)
}

// GetTasksFilter lists tasks. is_overdue is recomputed for every response,
// never read back from the database.
func GetTasksFilter(log *slog.Logger, getTasks GetTasks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.tasks.get.GetTasksFilter"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		filter := storage.TaskFilter{
			Status: r.URL.Query().Get("status"),
		}
		filter.DeviceID, _ = strconv.ParseInt(r.URL.Query().Get("device_id"), 10, 64)
		filter.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
		filter.PageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		tasks, err := getTasks.GetTasks(ctx, filter)
		if err != nil {
			log.Error("failed to get production tasks", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseTasks{Error: "failed to get production tasks"})
			return
		}

		scheduling.DecorateOverdue(tasks, time.Now())

		render.JSON(w, r, ResponseTasks{
			Tasks:  tasks,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
