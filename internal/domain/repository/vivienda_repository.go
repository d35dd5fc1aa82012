package repository

import (
	"context"
	"time"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
)

// ViviendaFilter criterios del listado de viviendas.
type ViviendaFilter struct {
	Barrio string
	Estado string
}

// ViviendaRepository puerto de persistencia de viviendas.
type ViviendaRepository interface {
	Create(ctx context.Context, v *entity.Vivienda) error
	// Upsert inserta o actualiza por código (importación masiva); no modifica titular ni estado.
	Upsert(ctx context.Context, v *entity.Vivienda) error
	GetByID(ctx context.Context, id string) (*entity.Vivienda, error)
	GetByTitular(ctx context.Context, userID string) (*entity.Vivienda, error)
	Update(ctx context.Context, v *entity.Vivienda) error
	List(ctx context.Context, filter ViviendaFilter, limit, offset int) ([]*entity.Vivienda, int, error)
	// AssignTitular asigna userID solo si la vivienda no tiene titular. domain.ErrConflict si ya lo tiene
	// o si el usuario ya es titular de otra vivienda.
	AssignTitular(ctx context.Context, id, userID string, now time.Time) error
	// Vacate libera la vivienda.
	Vacate(ctx context.Context, id string, now time.Time) error
}
