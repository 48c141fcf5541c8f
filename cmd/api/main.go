package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/rachitha15/PixelProbe/internal/analytics"
	"github.com/rachitha15/PixelProbe/internal/config"
	"github.com/rachitha15/PixelProbe/internal/handler"
	"github.com/rachitha15/PixelProbe/internal/logger"
	"github.com/rachitha15/PixelProbe/internal/service"
	"github.com/rachitha15/PixelProbe/internal/store"
	"github.com/rachitha15/PixelProbe/internal/telemetry"
	"github.com/rachitha15/PixelProbe/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.ServiceEnvironment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting analytics API service",
		zap.String("environment", cfg.ServiceEnvironment),
		zap.String("port", cfg.ServiceAPIPort))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Process-scoped state, constructed once and handed to the handlers.
	eventStore := store.NewMemStore()
	hub := ws.NewHub(cfg.HeartbeatInterval(), log)
	aggregator := analytics.NewAggregator(eventStore, log)
	eventService := service.NewEventService(eventStore, aggregator, hub, log)

	h := handler.NewHandler(eventService, hub, log)

	telemetry.Serve(cfg.TelemetryAddr, log)

	go hub.Run(ctx)

	addr := fmt.Sprintf(":%s", cfg.ServiceAPIPort)
	server := &http.Server{
		Addr:    addr,
		Handler: h,
	}

	go func() {
		log.Info("API server starting", zap.String("address", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start API server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	hub.CloseAll()
}
