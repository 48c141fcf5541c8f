package pixel

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rachitha15/PixelProbe/internal/dto"
)

// BatcherConfig configures the event batcher.
type BatcherConfig struct {
	MaxBatchSize int
	FlushTimeout time.Duration
}

// Batcher collects captured events and flushes them to the sender when the
// batch fills up or the flush timeout elapses, whichever comes first. This
// mirrors the storefront pixel's queueing behaviour.
type Batcher struct {
	sender *Sender
	config BatcherConfig
	log    *zap.Logger
}

// NewBatcher creates a new event batcher.
func NewBatcher(sender *Sender, config BatcherConfig, log *zap.Logger) *Batcher {
	return &Batcher{
		sender: sender,
		config: config,
		log:    log,
	}
}

// Run consumes captured events, batching and delivering them until the
// context is cancelled or the input channel closes. Any remainder is
// flushed best-effort on the way out, like the pixel's unload beacon.
func (b *Batcher) Run(ctx context.Context, in <-chan dto.ShopifyEvent) {
	ticker := time.NewTicker(b.config.FlushTimeout)
	defer ticker.Stop()

	batch := make([]dto.ShopifyEvent, 0, b.config.MaxBatchSize)

	for {
		select {
		case <-ctx.Done():
			b.log.Info("Batcher shutting down", zap.Int("pending", len(batch)))
			b.flushFinal(batch)
			return

		case event, ok := <-in:
			if !ok {
				b.log.Info("Event input closed", zap.Int("pending", len(batch)))
				b.flushFinal(batch)
				return
			}

			batch = append(batch, event)

			if len(batch) >= b.config.MaxBatchSize {
				b.flush(ctx, batch)
				batch = make([]dto.ShopifyEvent, 0, b.config.MaxBatchSize)
				ticker.Reset(b.config.FlushTimeout)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				b.flush(ctx, batch)
				batch = make([]dto.ShopifyEvent, 0, b.config.MaxBatchSize)
			}
		}
	}
}

// flush delivers a batch one event at a time; there is no bulk endpoint.
// Failures are logged and dropped, delivery is at-most-once per attempt
// budget.
func (b *Batcher) flush(ctx context.Context, batch []dto.ShopifyEvent) {
	delivered := 0
	for _, event := range batch {
		if err := b.sender.Send(ctx, event); err != nil {
			b.log.Error("Dropping undeliverable event",
				zap.String("event_name", event.Name),
				zap.Error(err))
			continue
		}
		delivered++
	}

	b.log.Info("Flushed batch",
		zap.Int("delivered", delivered),
		zap.Int("dropped", len(batch)-delivered))
}

// flushFinal sends the remainder with a short detached deadline so shutdown
// is not held hostage by a slow endpoint.
func (b *Batcher) flushFinal(batch []dto.ShopifyEvent) {
	if len(batch) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	b.flush(ctx, batch)
}
