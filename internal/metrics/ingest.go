package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingest Prometheus metrics.
var (
	IngestDocsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "propsearch",
			Name:      "ingest_documents_total",
			Help:      "Total documents written during bulk ingestion",
		},
		[]string{"index", "outcome"},
	)

	IngestChunkDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "propsearch",
			Name:      "ingest_chunk_duration_seconds",
			Help:      "Bulk write duration per chunk in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"index"},
	)

	IngestChunksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "propsearch",
			Name:      "ingest_chunks_total",
			Help:      "Total bulk write requests issued",
		},
		[]string{"index"},
	)

	GeocodeRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "propsearch",
			Name:      "geocode_requests_total",
			Help:      "Total geocoding lookups",
		},
		[]string{"result"},
	)
)

var ingestRegistered = false

// RegisterIngestMetrics registers ingest and geocode metrics explicitly (no init()).
// Safe to call once per process; the CLI calls it before a load or serve run.
func RegisterIngestMetrics() {
	if ingestRegistered {
		return
	}
	ingestRegistered = true
	prometheus.MustRegister(
		IngestDocsProcessed,
		IngestChunkDuration,
		IngestChunksTotal,
		GeocodeRequestsTotal,
	)
}
