package storage

import (
	"context"
	"fmt"

	"github.com/heritage-atlas/heritage-api/internal/config"
)

// New builds the configured storage driver wrapped with metrics.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	var (
		s   Storage
		err error
	)
	switch cfg.Driver {
	case "minio":
		s, err = NewMinIOStorage(ctx, cfg)
	case "s3":
		s, err = NewS3Storage(ctx, cfg)
	case "memory":
		s = NewMemoryStorage(cfg.Bucket)
	default:
		err = fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s), nil
}
