package pixel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/rachitha15/PixelProbe/internal/dto"
)

// SenderConfig configures event delivery to the ingestion endpoint.
type SenderConfig struct {
	Endpoint      string
	ShopDomain    string
	RetryAttempts int
}

// Sender posts wrapped pixel events to the ingestion endpoint, retrying
// failed sends with exponential backoff up to the configured attempt count.
type Sender struct {
	client *http.Client
	config SenderConfig
	log    *zap.Logger
}

// NewSender creates a new event sender.
func NewSender(config SenderConfig, log *zap.Logger) *Sender {
	return &Sender{
		client: &http.Client{Timeout: 10 * time.Second},
		config: config,
		log:    log,
	}
}

// Send delivers one event, wrapped with the shop domain the way the
// storefront pixel does.
func (s *Sender) Send(ctx context.Context, event dto.ShopifyEvent) error {
	wrapper := dto.TrackEventRequest{
		EventData:  event,
		ShopDomain: s.config.ShopDomain,
	}

	body, err := json.Marshal(wrapper)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	attempt := 0
	operation := func() error {
		attempt++
		err := s.post(ctx, body)
		if err != nil {
			s.log.Warn("Event delivery failed",
				zap.Int("attempt", attempt),
				zap.String("event_name", event.Name),
				zap.Error(err))
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(s.config.RetryAttempts-1)),
		ctx,
	)

	if err := backoff.Retry(operation, policy); err != nil {
		return fmt.Errorf("all delivery attempts failed for %s: %w", event.Name, err)
	}
	return nil
}

func (s *Sender) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-shop-domain", s.config.ShopDomain)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		// Client errors will not improve on retry.
		if resp.StatusCode < http.StatusInternalServerError {
			return backoff.Permanent(err)
		}
		return err
	}
	return nil
}
