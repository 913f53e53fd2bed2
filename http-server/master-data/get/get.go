package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"mes-scheduler/internal/storage"

	"github.com/go-chi/render"
)

type MasterData interface {
	GetDevices(ctx context.Context) ([]*storage.Device, error)
	GetMolds(ctx context.Context) ([]*storage.Mold, error)
	GetMaterials(ctx context.Context) ([]*storage.Material, error)
}

type ResponseDevices struct {
	Devices []*storage.Device `json:"devices"`
	Status  string            `json:"status"`
	Error   string            `json:"error"`
}

type ResponseMolds struct {
	Molds  []*storage.Mold `json:"molds"`
	Status string          `json:"status"`
	Error  string          `json:"error"`
}

type ResponseMaterials struct {
	Materials []*storage.Material `json:"materials"`
	Status    string              `json:"status"`
	Error     string              `json:"error"`
}

func GetDevices(log *slog.Logger, data MasterData) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.master-data.get.GetDevices"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		devices, err := data.GetDevices(ctx)
		if err != nil {
			log.Error("failed to get devices", slog.String("op", op), slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseDevices{Error: "failed to get devices"})
			return
		}

		render.JSON(w, r, ResponseDevices{
			Devices: devices,
			Status:  strconv.Itoa(http.StatusOK),
		})
	}
}

func GetMolds(log *slog.Logger, data MasterData) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.master-data.get.GetMolds"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		molds, err := data.GetMolds(ctx)
		if err != nil {
			log.Error("failed to get molds", slog.String("op", op), slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseMolds{Error: "failed to get molds"})
			return
		}

		render.JSON(w, r, ResponseMolds{
			Molds:  molds,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}

func GetMaterials(log *slog.Logger, data MasterData) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.master-data.get.GetMaterials"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		materials, err := data.GetMaterials(ctx)
		if err != nil {
			log.Error("failed to get materials", slog.String("op", op), slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseMaterials{Error: "failed to get materials"})
			return
		}

		render.JSON(w, r, ResponseMaterials{
			Materials: materials,
			Status:    strconv.Itoa(http.StatusOK),
		})
	}
}
