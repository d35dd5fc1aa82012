package ports

import (
	"context"
	"io"
)

// FileStorage puerto de almacenamiento de adjuntos (MinIO/S3 o disco local).
// key es una ruta relativa generada por la aplicación, nunca el nombre que envía el usuario.
type FileStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
