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

type UpdateMasterData interface {
	UpdateDeviceScheduling(ctx context.Context, deviceID int64, update storage.DeviceSchedulingUpdate) error
	UpdateMaterialScheduling(ctx context.Context, materialID int64, update storage.MaterialSchedulingUpdate) error
}

// UpdateDeviceScheduling mutates only the scheduling-extension attributes
// of a device (capacity, weight, availability). The master record belongs
// to the equipment module.
func UpdateDeviceScheduling(log *slog.Logger, update UpdateMasterData) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.master-data.update.UpdateDeviceScheduling"

		idStr := chi.URLParam(r, "id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req storage.DeviceSchedulingUpdate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		if req.SchedulingWeight < 1 || req.SchedulingWeight > 100 {
			http.Error(w, "scheduling_weight must be in [1,100]", http.StatusBadRequest)
			return
		}
		if req.CapacityPerHour < 0 {
			http.Error(w, "capacity_per_hour must not be negative", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err = update.UpdateDeviceScheduling(ctx, id, req)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Device not found", http.StatusNotFound)
				return
			}
			log.Error("failed to update device scheduling attributes", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Update failed", http.StatusInternalServerError)
			return
		}

		log.Info("device scheduling attributes updated", slog.Int64("id", id))

		render.JSON(w, r, map[string]interface{}{
			"status":    strconv.Itoa(http.StatusOK),
			"device_id": id,
		})
	}
}

func UpdateMaterialScheduling(log *slog.Logger, update UpdateMasterData) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.master-data.update.UpdateMaterialScheduling"

		idStr := chi.URLParam(r, "id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req storage.MaterialSchedulingUpdate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err = update.UpdateMaterialScheduling(ctx, id, req)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Material not found", http.StatusNotFound)
				return
			}
			log.Error("failed to update material scheduling attributes", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Update failed", http.StatusInternalServerError)
			return
		}

		log.Info("material scheduling attributes updated", slog.Int64("id", id))

		render.JSON(w, r, map[string]interface{}{
			"status":      strconv.Itoa(http.StatusOK),
			"material_id": id,
		})
	}
}
