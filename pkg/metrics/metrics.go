package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "heritage", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "heritage", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	StorageOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "heritage", Name: "storage_operations_total", Help: "Object storage calls by operation and result."},
		[]string{"op", "result"},
	)
	StorageLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "heritage", Name: "storage_operation_seconds", Help: "Object storage call latency.", Buckets: prometheus.DefBuckets},
		[]string{"op"},
	)
	MediaUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "heritage", Name: "media_uploads_total", Help: "Compressed media written to storage by kind."},
		[]string{"kind"},
	)
	MediaBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "heritage", Name: "media_stored_bytes_total", Help: "Bytes written to storage after compression by kind."},
		[]string{"kind"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(StorageOperations)
	reg.MustRegister(StorageLatency)
	reg.MustRegister(MediaUploads)
	reg.MustRegister(MediaBytes)
}
