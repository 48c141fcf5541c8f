package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServiceEnvironment string `envconfig:"SERVICE_ENVIRONMENT" default:"development"`
	ServiceAPIPort     string `envconfig:"SERVICE_API_PORT" default:"8080"`
	TelemetryAddr      string `envconfig:"TELEMETRY_ADDR" default:":2112"`
	HeartbeatSec       int    `envconfig:"WS_HEARTBEAT_INTERVAL_SEC" default:"30"`
	ShutdownTimeoutSec int    `envconfig:"SHUTDOWN_TIMEOUT_SEC" default:"10"`

	// Pixel simulator settings, read by cmd/pixel only.
	PixelEndpoint      string `envconfig:"PIXEL_ENDPOINT" default:"http://localhost:8080/api/events"`
	PixelShopDomain    string `envconfig:"PIXEL_SHOP_DOMAIN" default:"demo-shop.myshopify.com"`
	PixelEventRate     int    `envconfig:"PIXEL_EVENT_RATE" default:"5"`
	PixelBatchSize     int    `envconfig:"PIXEL_BATCH_SIZE" default:"10"`
	PixelBatchTimeout  int    `envconfig:"PIXEL_BATCH_TIMEOUT_SEC" default:"5"`
	PixelRetryAttempts int    `envconfig:"PIXEL_RETRY_ATTEMPTS" default:"3"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

// HeartbeatInterval returns the websocket liveness sweep interval.
func (c *Config) HeartbeatInterval() time.Duration {
	return time.Duration(c.HeartbeatSec) * time.Second
}

// ShutdownTimeout returns the graceful shutdown deadline.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}
