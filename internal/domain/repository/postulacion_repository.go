package repository

import (
	"context"
	"time"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
)

// PostulacionFilter criterios del listado de postulaciones.
type PostulacionFilter struct {
	UsuarioID string
	Estado    string
	Tipo      string
}

// PostulacionRepository puerto de persistencia de postulaciones (Anexo 01).
type PostulacionRepository interface {
	Create(ctx context.Context, p *entity.Postulacion) error
	GetByID(ctx context.Context, id string) (*entity.Postulacion, error)
	List(ctx context.Context, filter PostulacionFilter, limit, offset int) ([]*entity.Postulacion, int, error)
	// UpdateEstado cambia el estado solo si el persistido es from; domain.ErrConflict si no.
	UpdateEstado(ctx context.Context, id, from, to string, now time.Time) error
	ExistsPendiente(ctx context.Context, usuarioID, tipo string) (bool, error)
}
