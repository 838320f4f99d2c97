package storage

import (
	"context"
	"io"
	"time"

	"github.com/heritage-atlas/heritage-api/pkg/metrics"
)

type instrumented struct {
	next Storage
}

// Instrument records call counts and latency for every storage operation.
func Instrument(s Storage) Storage {
	return &instrumented{next: s}
}

func observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.StorageOperations.WithLabelValues(op, result).Inc()
	metrics.StorageLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (s *instrumented) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	start := time.Now()
	err := s.next.Put(ctx, key, r, size, contentType)
	observe("put", start, err)
	return err
}

func (s *instrumented) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	start := time.Now()
	u, err := s.next.PresignGet(ctx, key, expires)
	observe("presign", start, err)
	return u, err
}

func (s *instrumented) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.next.Delete(ctx, key)
	observe("delete", start, err)
	return err
}
