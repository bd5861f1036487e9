package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignatzorin/ledger-engine/internal/config"
	httpHandlers "github.com/ignatzorin/ledger-engine/internal/http/handlers"
	httpRouter "github.com/ignatzorin/ledger-engine/internal/http/router"
	"github.com/ignatzorin/ledger-engine/internal/logger"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.LogLevel)
	if cfg.IsDevelopment() {
		logger.SetTextFormatter()
	}

	// Каждый пакет обрабатывается в отдельном журнале в памяти.
	batchHandler := httpHandlers.NewBatchHandler(httpHandlers.BatchOptions{
		Workers:        cfg.Workers,
		Precision:      cfg.AmountPrecision,
		MaxUploadBytes: cfg.MaxUploadSizeMB << 20,
	})
	healthHandler := httpHandlers.NewHealthHandler(nil)

	engine := httpRouter.SetupRouter(cfg, batchHandler, healthHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("main: ошибка остановки http сервера")
		}
	}()

	logger.Log.WithField("port", cfg.HTTPPort).Info("http сервер запущен")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}
