package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/coilstock/internal/config"
	"github.com/mamadbah2/coilstock/internal/repository/mongodb"
	"github.com/mamadbah2/coilstock/internal/repository/sheets"
	"github.com/mamadbah2/coilstock/internal/scheduler"
	"github.com/mamadbah2/coilstock/internal/server/handlers"
	"github.com/mamadbah2/coilstock/internal/server/router"
	inventorysvc "github.com/mamadbah2/coilstock/internal/service/inventory"
	statssvc "github.com/mamadbah2/coilstock/internal/service/stats"
	"github.com/mamadbah2/coilstock/pkg/clients/webhook"
	"github.com/mamadbah2/coilstock/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Location()
	if err != nil {
		baseLogger.Fatal("failed to resolve inventory time zone", zap.Error(err))
	}

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	inventorySvc := inventorysvc.NewService(mongoRepo, loc, baseLogger.Named("svc.inventory"))
	statsSvc := statssvc.NewService(mongoRepo, baseLogger.Named("svc.stats"))

	coilHandler := handlers.NewCoilHandler(inventorySvc, statsSvc, baseLogger.Named("handlers.coils"))
	engine := router.New(coilHandler, baseLogger.Named("router"))

	var notifier webhook.Notifier
	if cfg.Snapshot.WebhookURL != "" {
		notifier = webhook.NewClient(cfg.Snapshot.WebhookURL)
		baseLogger.Info("snapshot webhook enabled", zap.String("url", cfg.Snapshot.WebhookURL))
	}

	var exporter sheets.Exporter
	if cfg.SheetsEnabled() {
		exporter, err = sheets.NewGoogleSheetExporter(context.Background(), cfg.Sheets, cfg.Snapshot.SheetRange, baseLogger.Named("export.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets exporter", zap.Error(err))
		}
		baseLogger.Info("snapshot sheet export enabled")
	}

	sched := scheduler.NewScheduler(cfg.Snapshot, loc, statsSvc, mongoRepo, notifier, exporter, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
