package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/repository"
)

var _ repository.PrePostulanteRepository = (*PrePostulanteRepo)(nil)

// PrePostulanteRepo registros provisorios del alta en dos pasos.
type PrePostulanteRepo struct {
	q Querier
}

// NewPrePostulanteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPrePostulanteRepository(q Querier) *PrePostulanteRepo {
	return &PrePostulanteRepo{q: q}
}

// Upsert crea o reemplaza el registro del email; el código nuevo arranca con cero intentos.
func (r *PrePostulanteRepo) Upsert(ctx context.Context, p *entity.PrePostulante) error {
	query := `
		INSERT INTO pre_postulantes (id, nombre, apellido, matricula, grado, dni, email, password_hash,
			codigo, expira_en, verificado, intentos, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE, 0, $11)
		ON CONFLICT (email) DO UPDATE SET
			nombre = EXCLUDED.nombre, apellido = EXCLUDED.apellido, matricula = EXCLUDED.matricula,
			grado = EXCLUDED.grado, dni = EXCLUDED.dni, password_hash = EXCLUDED.password_hash,
			codigo = EXCLUDED.codigo, expira_en = EXCLUDED.expira_en, verificado = FALSE, intentos = 0
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		p.ID, p.Nombre, p.Apellido, p.Matricula, p.Grado, p.DNI, p.Email, p.PasswordHash,
		p.Codigo, p.ExpiraEn, p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) && violatedConstraint(err) == "pre_postulantes_matricula_uq" {
			return fmt.Errorf("%w: ya hay un registro en curso para la matrícula", domain.ErrConflict)
		}
		return fmt.Errorf("upsert pre_postulante: %w", err)
	}
	p.Intentos, p.Verificado = 0, false
	return nil
}

// DeleteByMatriculaExceptEmail elimina registros de la misma matrícula hechos con otro email.
func (r *PrePostulanteRepo) DeleteByMatriculaExceptEmail(ctx context.Context, matricula, email string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM pre_postulantes WHERE matricula = $1 AND email <> $2`, matricula, email)
	if err != nil {
		return fmt.Errorf("delete pre_postulante por matrícula: %w", err)
	}
	return nil
}

// GetByEmail devuelve el registro aunque esté vencido; el caso de uso decide qué hacer con él.
func (r *PrePostulanteRepo) GetByEmail(ctx context.Context, email string) (*entity.PrePostulante, error) {
	query := `
		SELECT id, nombre, apellido, matricula, grado, dni, email, password_hash, codigo, expira_en,
			verificado, intentos, created_at
		FROM pre_postulantes WHERE email = $1`
	var p entity.PrePostulante
	err := r.q.QueryRow(ctx, query, email).Scan(
		&p.ID, &p.Nombre, &p.Apellido, &p.Matricula, &p.Grado, &p.DNI, &p.Email, &p.PasswordHash,
		&p.Codigo, &p.ExpiraEn, &p.Verificado, &p.Intentos, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pre_postulante: %w", err)
	}
	return &p, nil
}

// IncrementIntentos suma un intento en la misma sentencia que lo lee.
func (r *PrePostulanteRepo) IncrementIntentos(ctx context.Context, id string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`UPDATE pre_postulantes SET intentos = intentos + 1 WHERE id = $1 RETURNING intentos`, id,
	).Scan(&n)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("incrementar intentos: %w", err)
	}
	return n, nil
}

// Delete elimina un registro por ID.
func (r *PrePostulanteRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM pre_postulantes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete pre_postulante: %w", err)
	}
	return nil
}

// DeleteExpired purga los registros vencidos.
func (r *PrePostulanteRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM pre_postulantes WHERE expira_en <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("purgar pre_postulantes: %w", err)
	}
	return tag.RowsAffected(), nil
}
