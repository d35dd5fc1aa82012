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

var _ repository.ViviendaRepository = (*ViviendaRepo)(nil)

const viviendaColumns = `id, codigo, barrio, unidad, edificio, piso, departamento, dormitorios, capacidad, estado,
	COALESCE(titular_id::text, ''), medidor_luz, medidor_agua, medidor_gas, created_at, updated_at`

// ViviendaRepo viviendas fiscales. Un titular por vivienda (update condicional) y una vivienda
// por titular (índice único parcial viviendas_titular_uq).
type ViviendaRepo struct {
	q Querier
}

// NewViviendaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewViviendaRepository(q Querier) *ViviendaRepo {
	return &ViviendaRepo{q: q}
}

// Create persiste una vivienda. Código repetido → ErrDuplicate.
func (r *ViviendaRepo) Create(ctx context.Context, v *entity.Vivienda) error {
	query := `
		INSERT INTO viviendas (id, codigo, barrio, unidad, edificio, piso, departamento, dormitorios, capacidad,
			estado, titular_id, medidor_luz, medidor_agua, medidor_gas, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		v.ID, v.Codigo, v.Barrio, v.Unidad, v.Edificio, v.Piso, v.Departamento, v.Dormitorios, v.Capacidad,
		v.Estado, nullIfEmpty(v.TitularID), v.MedidorLuz, v.MedidorAgua, v.MedidorGas, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: código %s", domain.ErrDuplicate, v.Codigo)
		}
		return fmt.Errorf("insert vivienda: %w", err)
	}
	return nil
}

// Upsert inserta o actualiza por código sin tocar titular ni estado.
func (r *ViviendaRepo) Upsert(ctx context.Context, v *entity.Vivienda) error {
	query := `
		INSERT INTO viviendas (id, codigo, barrio, unidad, edificio, piso, departamento, dormitorios, capacidad,
			estado, medidor_luz, medidor_agua, medidor_gas, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (codigo) DO UPDATE SET
			barrio = EXCLUDED.barrio, unidad = EXCLUDED.unidad, edificio = EXCLUDED.edificio, piso = EXCLUDED.piso,
			departamento = EXCLUDED.departamento, dormitorios = EXCLUDED.dormitorios, capacidad = EXCLUDED.capacidad,
			medidor_luz = EXCLUDED.medidor_luz, medidor_agua = EXCLUDED.medidor_agua, medidor_gas = EXCLUDED.medidor_gas,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		v.ID, v.Codigo, v.Barrio, v.Unidad, v.Edificio, v.Piso, v.Departamento, v.Dormitorios, v.Capacidad,
		v.Estado, v.MedidorLuz, v.MedidorAgua, v.MedidorGas, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert vivienda %s: %w", v.Codigo, err)
	}
	return nil
}

// GetByID obtiene una vivienda por ID.
func (r *ViviendaRepo) GetByID(ctx context.Context, id string) (*entity.Vivienda, error) {
	return r.findOne(ctx, `SELECT `+viviendaColumns+` FROM viviendas WHERE id = $1`, id)
}

// GetByTitular obtiene la vivienda asignada al usuario.
func (r *ViviendaRepo) GetByTitular(ctx context.Context, userID string) (*entity.Vivienda, error) {
	return r.findOne(ctx, `SELECT `+viviendaColumns+` FROM viviendas WHERE titular_id = $1`, userID)
}

func (r *ViviendaRepo) findOne(ctx context.Context, query string, arg any) (*entity.Vivienda, error) {
	v, err := scanVivienda(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vivienda: %w", err)
	}
	return v, nil
}

// Update actualiza los datos descriptivos; titular y estado tienen sus propias operaciones.
func (r *ViviendaRepo) Update(ctx context.Context, v *entity.Vivienda) error {
	query := `
		UPDATE viviendas SET barrio = $2, unidad = $3, edificio = $4, piso = $5, departamento = $6,
			dormitorios = $7, capacidad = $8, medidor_luz = $9, medidor_agua = $10, medidor_gas = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		v.ID, v.Barrio, v.Unidad, v.Edificio, v.Piso, v.Departamento,
		v.Dormitorios, v.Capacidad, v.MedidorLuz, v.MedidorAgua, v.MedidorGas, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update vivienda: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista viviendas ordenadas por código.
func (r *ViviendaRepo) List(ctx context.Context, f repository.ViviendaFilter, limit, offset int) ([]*entity.Vivienda, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	pos := 1
	if f.Barrio != "" {
		where = append(where, fmt.Sprintf("barrio ILIKE $%d", pos))
		args = append(args, escapeLike(f.Barrio))
		pos++
	}
	if f.Estado != "" {
		where = append(where, fmt.Sprintf("estado = $%d", pos))
		args = append(args, f.Estado)
		pos++
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM viviendas WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count viviendas: %w", err)
	}
	query := fmt.Sprintf(`SELECT %s FROM viviendas WHERE %s ORDER BY codigo LIMIT $%d OFFSET $%d`,
		viviendaColumns, cond, pos, pos+1)
	rows, err := r.q.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list viviendas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Vivienda
	for rows.Next() {
		v, err := scanVivienda(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan vivienda: %w", err)
		}
		list = append(list, v)
	}
	return list, total, rows.Err()
}

// AssignTitular asigna el titular solo si la vivienda está libre.
func (r *ViviendaRepo) AssignTitular(ctx context.Context, id, userID string, now time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE viviendas SET titular_id = $2, estado = 'OCUPADA', updated_at = $3
		WHERE id = $1 AND titular_id IS NULL`, id, userID, now)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el usuario ya es titular de otra vivienda", domain.ErrConflict)
		}
		return fmt.Errorf("asignar titular: %w", err)
	}
	if tag.RowsAffected() == 0 {
		v, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if v == nil {
			return domain.ErrNotFound
		}
		return fmt.Errorf("%w: la vivienda %s ya tiene titular", domain.ErrConflict, v.Codigo)
	}
	return nil
}

// Vacate libera la vivienda.
func (r *ViviendaRepo) Vacate(ctx context.Context, id string, now time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE viviendas SET titular_id = NULL, estado = 'DISPONIBLE', updated_at = $2 WHERE id = $1`, id, now)
	if err != nil {
		return fmt.Errorf("liberar vivienda: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanVivienda(row pgx.Row) (*entity.Vivienda, error) {
	var v entity.Vivienda
	err := row.Scan(
		&v.ID, &v.Codigo, &v.Barrio, &v.Unidad, &v.Edificio, &v.Piso, &v.Departamento, &v.Dormitorios,
		&v.Capacidad, &v.Estado, &v.TitularID, &v.MedidorLuz, &v.MedidorAgua, &v.MedidorGas,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
