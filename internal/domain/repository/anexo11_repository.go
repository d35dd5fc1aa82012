package repository

import (
	"context"
	"time"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
)

// Anexo11Filter acota el listado según el rol que consulta.
type Anexo11Filter struct {
	CreadoPor string // solo pedidos de este permisionario
	// InspectorID limita a pedidos INICIADO (sin asignar) o asignados a este inspector.
	InspectorID string
	Estado      entity.EstadoAnexo11
}

// Anexo11Transition describe una transición a aplicar con compare-and-swap sobre Estado.
type Anexo11Transition struct {
	ID           string
	From         entity.EstadoAnexo11
	To           entity.EstadoAnexo11
	Entry        entity.HistorialEntry
	InspectorID  string                      // se asigna si no está vacío
	Inspector    *entity.Anexo11Inspector    // se guarda si no es nil
	AdminGeneral *entity.Anexo11AdminGeneral // se guarda si no es nil
	Now          time.Time
}

// Anexo11Repository puerto de persistencia del flujo de mantenimiento.
type Anexo11Repository interface {
	Create(ctx context.Context, a *entity.Anexo11) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Anexo11, error)
	List(ctx context.Context, filter Anexo11Filter, limit, offset int) ([]*entity.Anexo11, int, error)
	// Transition actualiza estado y agrega una entrada al historial en una sola operación condicionada
	// a que el estado persistido siga siendo t.From. Devuelve domain.ErrConflict si no lo es.
	Transition(ctx context.Context, t Anexo11Transition) (*entity.Anexo11, error)
	// Annotate reemplaza las observaciones de la administración general sin tocar estado ni historial.
	Annotate(ctx context.Context, id string, obs entity.Anexo11AdminGeneral, now time.Time) (*entity.Anexo11, error)
}
