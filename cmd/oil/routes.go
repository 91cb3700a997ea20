package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	genbalance "oil-backend/http-server/balance/generate"
	gencollection "oil-backend/http-server/collection/generate"
	synccollection "oil-backend/http-server/collection/sync"
	"oil-backend/http-server/contract/allocate"
	ledgerappend "oil-backend/http-server/ledger/append"
	genreceipt "oil-backend/http-server/receipt/generate"
	reportexcel "oil-backend/http-server/report/excel"
	"oil-backend/http-server/roster/get"
	"oil-backend/http-server/roster/save"
	"oil-backend/http-server/roster/upload"
	"oil-backend/internal/config"
	"oil-backend/internal/middleware/auth"
	"oil-backend/internal/service/flow"
	"oil-backend/internal/storage/mysql"
)

func routes(cfg config.Config, log *slog.Logger, storage *mysql.Storage, flowService *flow.Service) *chi.Mux {
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

	// Derivation stages, in the order the month is closed.
	router.Post("/api/collection/generate", gencollection.GenerateCollectionSheet(log, flowService))
	router.Post("/api/balance/generate", genbalance.GenerateBalanceSheet(log, flowService))
	router.Post("/api/ledger/append", ledgerappend.AppendMonth(log, flowService))
	router.Post("/api/receipt/generate", genreceipt.GenerateReceiptSheet(log, flowService))
	router.Post("/api/contract/allocate", allocate.AllocateContracts(log, flowService))
	router.Post("/api/collection/sync", synccollection.SyncCollectionSheet(log, flowService))

	router.Get("/api/roster", get.GetRoster(log, storage))

	router.Get("/api/report/excel", reportexcel.DownloadSheet(log, storage))

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Post("/roster", save.SaveRoster(log, storage))
	adminRouter.Post("/roster/upload", upload.UploadRoster(log, storage))

	router.Mount("/api/admin", adminRouter)

	return router
}
