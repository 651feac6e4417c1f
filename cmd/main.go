package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"

	"github.com/marks-dashboard/backend/internal/config"
	"github.com/marks-dashboard/backend/internal/database"
	"github.com/marks-dashboard/backend/internal/handler"
	"github.com/marks-dashboard/backend/internal/service"
)

func main() {
	cfg := config.Load()
	logger := cfg.NewLogger(os.Stdout)

	// Initialize store
	store, err := database.Shared(context.Background(), cfg.Store)
	if err != nil {
		logger.Error("cannot connect to the marks store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Initialize services
	recordService := service.NewRecordService(store)
	importService := service.NewImportService(recordService, logger)

	// Setup router
	r := handler.NewRouter(handler.Handlers{
		Dashboard: handler.NewDashboardHandler(recordService, logger),
		Records:   handler.NewRecordHandler(recordService, logger),
		Charts:    handler.NewChartHandler(recordService, logger),
		Export:    handler.NewExportHandler(recordService, logger),
		Upload:    handler.NewUploadHandler(importService, cfg.UploadDir, logger),
		Progress:  handler.NewProgressHandler(importService, logger),
	})

	cors := handlers.CORS(handlers.AllowedOrigins(cfg.AllowedOrigins))
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.CombinedLoggingHandler(os.Stdout, cors(r)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server running", "port", cfg.Port, "driver", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server exited", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
