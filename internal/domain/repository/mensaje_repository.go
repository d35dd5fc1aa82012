package repository

import (
	"context"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
)

// MensajeRepository puerto de persistencia de comunicaciones (append-only).
type MensajeRepository interface {
	Create(ctx context.Context, m *entity.Mensaje) error
	GetByID(ctx context.Context, id string) (*entity.Mensaje, error)
	ListByPermisionario(ctx context.Context, permisionarioID string, limit, offset int) ([]*entity.Mensaje, int, error)
	// ListByRol devuelve los mensajes enviados a o desde el rol indicado; rol vacío devuelve todos.
	ListByRol(ctx context.Context, rol string, limit, offset int) ([]*entity.Mensaje, int, error)
}
