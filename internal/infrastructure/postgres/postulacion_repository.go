package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/repository"
)

var _ repository.PostulacionRepository = (*PostulacionRepo)(nil)

const postulacionColumns = `id, tipo, datos, preferencias, ingreso_mensual, estado, usuario_id, created_at, updated_at`

// PostulacionRepo postulaciones (Anexo 01). ingreso_mensual se duplica en NUMERIC para ordenar y filtrar.
type PostulacionRepo struct {
	q Querier
}

// NewPostulacionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPostulacionRepository(q Querier) *PostulacionRepo {
	return &PostulacionRepo{q: q}
}

// Create persiste una postulación. Una segunda PENDIENTE del mismo tipo → ErrDuplicate.
func (r *PostulacionRepo) Create(ctx context.Context, p *entity.Postulacion) error {
	query := `
		INSERT INTO postulaciones (id, tipo, datos, preferencias, ingreso_mensual, estado, usuario_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Tipo, p.Datos, p.Preferencias, p.Datos.IngresoMensual, p.Estado, p.UsuarioID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) && violatedConstraint(err) == "postulaciones_pendiente_uq" {
			return fmt.Errorf("%w: ya existe una postulación %s pendiente", domain.ErrDuplicate, p.Tipo)
		}
		return fmt.Errorf("insert postulacion: %w", err)
	}
	return nil
}

// GetByID obtiene una postulación por ID.
func (r *PostulacionRepo) GetByID(ctx context.Context, id string) (*entity.Postulacion, error) {
	if !validUUID(id) {
		return nil, nil
	}
	p, err := scanPostulacion(r.q.QueryRow(ctx, `SELECT `+postulacionColumns+` FROM postulaciones WHERE id = $1`, id))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get postulacion: %w", err)
	}
	return p, nil
}

// List lista postulaciones de la más nueva a la más vieja.
func (r *PostulacionRepo) List(ctx context.Context, f repository.PostulacionFilter, limit, offset int) ([]*entity.Postulacion, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	pos := 1
	for _, c := range []struct{ col, val string }{
		{"usuario_id", f.UsuarioID}, {"estado", f.Estado}, {"tipo", f.Tipo},
	} {
		if c.val == "" {
			continue
		}
		where = append(where, fmt.Sprintf("%s = $%d", c.col, pos))
		args = append(args, c.val)
		pos++
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM postulaciones WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count postulaciones: %w", err)
	}
	query := fmt.Sprintf(`SELECT %s FROM postulaciones WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		postulacionColumns, cond, pos, pos+1)
	rows, err := r.q.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list postulaciones: %w", err)
	}
	defer rows.Close()
	var list []*entity.Postulacion
	for rows.Next() {
		p, err := scanPostulacion(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan postulacion: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// UpdateEstado cambia el estado solo si el persistido sigue siendo from.
func (r *PostulacionRepo) UpdateEstado(ctx context.Context, id, from, to string, now time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE postulaciones SET estado = $3, updated_at = $4 WHERE id = $1 AND estado = $2`, id, from, to, now)
	if err != nil {
		return fmt.Errorf("update estado postulacion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: la postulación ya no está %s", domain.ErrConflict, from)
	}
	return nil
}

// ExistsPendiente indica si el usuario tiene una postulación PENDIENTE del tipo.
func (r *PostulacionRepo) ExistsPendiente(ctx context.Context, usuarioID, tipo string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM postulaciones WHERE usuario_id = $1 AND tipo = $2 AND estado = 'PENDIENTE')`,
		usuarioID, tipo).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("exists postulacion pendiente: %w", err)
	}
	return ok, nil
}

func scanPostulacion(row pgx.Row) (*entity.Postulacion, error) {
	var p entity.Postulacion
	err := row.Scan(
		&p.ID, &p.Tipo, &p.Datos, &p.Preferencias, &p.Datos.IngresoMensual, &p.Estado, &p.UsuarioID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
