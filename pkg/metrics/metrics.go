package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecordsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loggate_records_accepted_total",
		Help: "Number of log records that passed admission and were persisted",
	})
	RecordsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loggate_records_dropped_total",
		Help: "Number of log records rejected by admission, by reason",
	}, []string{"reason"})
	StorageFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loggate_storage_failures_total",
		Help: "Number of admission attempts that failed on the storage round-trip",
	})
	PayloadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "loggate_record_payload_bytes",
		Help:    "Serialized size of submitted log records",
		Buckets: []float64{256, 1_024, 4_096, 10_240, 20_480, 40_960},
	})
)

const (
	ReasonDuplicateOrNoise = "duplicate_or_noise"
	ReasonPayloadTooLarge  = "payload_too_large"
)
