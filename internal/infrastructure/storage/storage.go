// Package storage implementa ports.FileStorage sobre MinIO/S3 o sobre disco local.
package storage

import (
	"context"
	"fmt"

	"github.com/marianodev72/sitio98plus-sub001/internal/application/ports"
	"github.com/marianodev72/sitio98plus-sub001/pkg/config"
)

// New crea el almacenamiento indicado por STORAGE_DRIVER.
func New(ctx context.Context, cfg config.StorageConfig) (ports.FileStorage, error) {
	switch cfg.Driver {
	case "minio":
		return NewMinioStorage(ctx, cfg)
	case "local", "":
		return NewLocalStorage(cfg.LocalDir)
	default:
		return nil, fmt.Errorf("storage: driver %q no soportado", cfg.Driver)
	}
}
