package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fmswgis_api_calls_total",
			Help: "Total external API calls",
		},
		[]string{"source", "status"},
	)

	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fmswgis_api_latency_seconds",
			Help:    "External API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	ReadingsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fmswgis_readings_recorded_total",
			Help: "Total readings written to the store",
		},
		[]string{"kind"},
	)

	StaleReadingsReused = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fmswgis_stale_readings_reused_total",
			Help: "Times a stale reading was served because a fetch failed",
		},
		[]string{"kind"},
	)

	FloodRecordMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fmswgis_flood_record_mutations_total",
			Help: "Total flood record create, update and delete operations",
		},
		[]string{"action"},
	)
)
