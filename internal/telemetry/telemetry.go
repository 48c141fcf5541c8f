package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	EventsIngested = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pixel_events_ingested_total",
		Help: "Total number of pixel events ingested, by event name",
	}, []string{"event_name"})
	EventsRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pixel_events_rejected_total",
		Help: "Total number of pixel events rejected by validation",
	})
	IngestLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pixel_ingest_duration_seconds",
		Help:    "Latency of event ingestion (store insert plus fan-out)",
		Buckets: prometheus.DefBuckets,
	})
	ConnectedClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ws_connected_clients",
		Help: "Number of currently connected websocket subscribers",
	})
	BroadcastFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ws_broadcast_failures_total",
		Help: "Total number of websocket sends that failed and dropped a client",
	})
)

func init() {
	prometheus.MustRegister(EventsIngested, EventsRejected, IngestLatency, ConnectedClients, BroadcastFailures)
}

// Serve exposes /metrics on its own listener so operational scrapes never
// contend with the API surface.
func Serve(addr string, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("Telemetry listener stopped", zap.Error(err))
		}
	}()
}
