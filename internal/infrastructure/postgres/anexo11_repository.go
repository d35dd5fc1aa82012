package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/repository"
)

var _ repository.Anexo11Repository = (*Anexo11Repo)(nil)

const anexo11Columns = `id, permisionario, inspector, admin_general, estado, historial, creado_por,
	COALESCE(inspector_id::text, ''), created_at, updated_at`

// Anexo11Repo pedidos de mantenimiento. Los bloques y el historial son JSONB.
type Anexo11Repo struct {
	q Querier
}

// NewAnexo11Repository construye el adaptador. Pasar pool o tx (Querier).
func NewAnexo11Repository(q Querier) *Anexo11Repo {
	return &Anexo11Repo{q: q}
}

// Create persiste un pedido nuevo.
func (r *Anexo11Repo) Create(ctx context.Context, a *entity.Anexo11) error {
	historial := a.Historial
	if historial == nil {
		historial = []entity.HistorialEntry{}
	}
	query := `
		INSERT INTO anexo11 (id, permisionario, inspector, admin_general, estado, historial, creado_por,
			inspector_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.Permisionario, a.Inspector, a.AdminGeneral, string(a.Estado), historial, a.CreadoPor,
		nullIfEmpty(a.InspectorID), a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert anexo11: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido por ID.
func (r *Anexo11Repo) GetByID(ctx context.Context, id string) (*entity.Anexo11, error) {
	if !validUUID(id) {
		return nil, nil
	}
	a, err := scanAnexo11(r.q.QueryRow(ctx, `SELECT `+anexo11Columns+` FROM anexo11 WHERE id = $1`, id))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get anexo11: %w", err)
	}
	return a, nil
}

// List lista pedidos según el filtro, del más nuevo al más viejo.
func (r *Anexo11Repo) List(ctx context.Context, f repository.Anexo11Filter, limit, offset int) ([]*entity.Anexo11, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	pos := 1
	if f.CreadoPor != "" {
		where = append(where, fmt.Sprintf("creado_por = $%d", pos))
		args = append(args, f.CreadoPor)
		pos++
	}
	if f.InspectorID != "" {
		where = append(where, fmt.Sprintf("(estado = 'INICIADO' OR inspector_id = $%d)", pos))
		args = append(args, f.InspectorID)
		pos++
	}
	if f.Estado != "" {
		where = append(where, fmt.Sprintf("estado = $%d", pos))
		args = append(args, string(f.Estado))
		pos++
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM anexo11 WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count anexo11: %w", err)
	}
	query := fmt.Sprintf(`SELECT %s FROM anexo11 WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		anexo11Columns, cond, pos, pos+1)
	rows, err := r.q.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list anexo11: %w", err)
	}
	defer rows.Close()
	var list []*entity.Anexo11
	for rows.Next() {
		a, err := scanAnexo11(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan anexo11: %w", err)
		}
		list = append(list, a)
	}
	return list, total, rows.Err()
}

// Transition aplica la transición en una sola sentencia condicionada al estado esperado:
// cambia estado, agrega la entrada al historial y guarda los bloques que correspondan.
// Si otra transición ganó la carrera no se actualiza ninguna fila y se devuelve ErrConflict.
func (r *Anexo11Repo) Transition(ctx context.Context, t repository.Anexo11Transition) (*entity.Anexo11, error) {
	query := `
		UPDATE anexo11 SET
			estado        = $3,
			historial     = historial || jsonb_build_array($4::jsonb),
			inspector_id  = COALESCE($5::uuid, inspector_id),
			inspector     = COALESCE($6::jsonb, inspector),
			admin_general = COALESCE($7::jsonb, admin_general),
			updated_at    = $8
		WHERE id = $1 AND estado = $2
		RETURNING ` + anexo11Columns
	a, err := scanAnexo11(r.q.QueryRow(ctx, query,
		t.ID, string(t.From), string(t.To), t.Entry, nullIfEmpty(t.InspectorID), t.Inspector, t.AdminGeneral, t.Now,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: el pedido ya no está en %s", domain.ErrConflict, t.From)
		}
		return nil, fmt.Errorf("transición anexo11: %w", err)
	}
	return a, nil
}

// Annotate reemplaza las observaciones de la administración general.
func (r *Anexo11Repo) Annotate(ctx context.Context, id string, obs entity.Anexo11AdminGeneral, now time.Time) (*entity.Anexo11, error) {
	query := `UPDATE anexo11 SET admin_general = $2, updated_at = $3 WHERE id = $1 RETURNING ` + anexo11Columns
	a, err := scanAnexo11(r.q.QueryRow(ctx, query, id, obs, now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("anotar anexo11: %w", err)
	}
	return a, nil
}

func scanAnexo11(row pgx.Row) (*entity.Anexo11, error) {
	var (
		a      entity.Anexo11
		estado string
	)
	err := row.Scan(
		&a.ID, &a.Permisionario, &a.Inspector, &a.AdminGeneral, &estado, &a.Historial, &a.CreadoPor,
		&a.InspectorID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Estado = entity.EstadoAnexo11(estado)
	return &a, nil
}
