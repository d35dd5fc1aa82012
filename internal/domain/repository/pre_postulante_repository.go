package repository

import (
	"context"
	"time"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
)

// PrePostulanteRepository persiste los registros provisorios del alta en dos pasos.
type PrePostulanteRepository interface {
	// Upsert crea o reemplaza el registro del email (nuevo código, intentos en cero).
	// domain.ErrConflict si la matrícula ya tiene un registro con otro email.
	Upsert(ctx context.Context, p *entity.PrePostulante) error
	// DeleteByMatriculaExceptEmail elimina registros de la misma matrícula con otro email.
	DeleteByMatriculaExceptEmail(ctx context.Context, matricula, email string) error
	// GetByEmail devuelve el registro aunque esté vencido; (nil, nil) si no existe.
	GetByEmail(ctx context.Context, email string) (*entity.PrePostulante, error)
	// IncrementIntentos suma un intento fallido de forma atómica y devuelve el total.
	IncrementIntentos(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired purga los registros con expira_en <= now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
