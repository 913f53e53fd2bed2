package main

import (
	"log/slog"

	generateReport "mes-scheduler/http-server/generate-report/generate-excel"
	getMasterData "mes-scheduler/http-server/master-data/get"
	upMasterData "mes-scheduler/http-server/master-data/update"
	getPlans "mes-scheduler/http-server/plans/get"
	savePlans "mes-scheduler/http-server/plans/save"
	upPlans "mes-scheduler/http-server/plans/update"
	"mes-scheduler/http-server/scheduling/execute"
	"mes-scheduler/http-server/scheduling/results"
	getTasks "mes-scheduler/http-server/tasks/get"
	upTasks "mes-scheduler/http-server/tasks/update"
	"mes-scheduler/internal/config"
	"mes-scheduler/internal/middleware/auth"
	generate_excel "mes-scheduler/internal/service/generate-excel"
	"mes-scheduler/internal/service/scheduling"
	"mes-scheduler/internal/storage/mysql"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

func routes(cfg config.Config, log *slog.Logger, storage *mysql.Storage,
	coordinator *scheduling.Coordinator, resultService *scheduling.ResultService,
	genService *generate_excel.GenerateExcelService) *chi.Mux {

	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8081", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Plans
	router.Get("/api/scheduling/plans", getPlans.GetPlansFilter(log, storage))
	router.Post("/api/scheduling/plans", savePlans.SaveProductionPlan(log, storage))
	router.Put("/api/scheduling/plans/{id}", upPlans.UpdateProductionPlan(log, storage))
	router.Delete("/api/scheduling/plans/{id}", upPlans.CancelProductionPlan(log, storage))

	// Tasks
	router.Get("/api/scheduling/tasks", getTasks.GetTasksFilter(log, storage))
	router.Put("/api/scheduling/tasks/{id}/status", upTasks.UpdateTaskState(log, storage))
	router.Delete("/api/scheduling/tasks/{id}", upTasks.CancelTask(log, storage))

	// Scheduling master data
	router.Get("/api/scheduling/devices", getMasterData.GetDevices(log, storage))
	router.Get("/api/scheduling/molds", getMasterData.GetMolds(log, storage))
	router.Get("/api/scheduling/materials", getMasterData.GetMaterials(log, storage))

	// Batch run + results view
	router.Post("/api/scheduling/execute", execute.ExecuteScheduling(log, coordinator))
	router.Get("/api/scheduling/results", results.GetSchedulingResults(log, resultService))

	router.Get("/api/report/excel", generateReport.GenerateReportExcel(log, genService))

	// Scheduling-extension attributes are owned by the master-data
	// modules; mutations stay behind basic auth.
	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Put("/equipment/{id}/scheduling", upMasterData.UpdateDeviceScheduling(log, storage))
	adminRouter.Put("/materials/{id}/scheduling", upMasterData.UpdateMaterialScheduling(log, storage))

	router.Mount("/api/admin", adminRouter)

	return router
}
