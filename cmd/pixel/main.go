package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rachitha15/PixelProbe/internal/config"
	"github.com/rachitha15/PixelProbe/internal/dto"
	"github.com/rachitha15/PixelProbe/internal/logger"
	"github.com/rachitha15/PixelProbe/internal/pixel"
)

// cmd/pixel simulates the storefront tracking script: it captures a random
// stream of shopper events, batches them and posts them to the ingestion
// endpoint with retry.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.ServiceEnvironment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting pixel simulator",
		zap.String("endpoint", cfg.PixelEndpoint),
		zap.String("shop_domain", cfg.PixelShopDomain),
		zap.Int("events_per_sec", cfg.PixelEventRate))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sender := pixel.NewSender(pixel.SenderConfig{
		Endpoint:      cfg.PixelEndpoint,
		ShopDomain:    cfg.PixelShopDomain,
		RetryAttempts: cfg.PixelRetryAttempts,
	}, log)

	batcher := pixel.NewBatcher(sender, pixel.BatcherConfig{
		MaxBatchSize: cfg.PixelBatchSize,
		FlushTimeout: time.Duration(cfg.PixelBatchTimeout) * time.Second,
	}, log)

	generator := pixel.NewGenerator(0)

	events := make(chan dto.ShopifyEvent, cfg.PixelBatchSize)
	go func() {
		defer close(events)

		rate := cfg.PixelEventRate
		if rate <= 0 {
			rate = 1
		}
		ticker := time.NewTicker(time.Second / time.Duration(rate))
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				events <- generator.Next()
			}
		}
	}()

	batcher.Run(ctx, events)
	log.Info("Pixel simulator stopped")
}
