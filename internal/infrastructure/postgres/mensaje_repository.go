package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/repository"
)

var _ repository.MensajeRepository = (*MensajeRepo)(nil)

const mensajeColumns = `id, permisionario_id, remitente_id, remitente_rol, destinatario_rol, asunto, cuerpo, adjuntos, created_at`

// MensajeRepo comunicaciones append-only: no hay Update ni Delete.
type MensajeRepo struct {
	q Querier
}

// NewMensajeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMensajeRepository(q Querier) *MensajeRepo {
	return &MensajeRepo{q: q}
}

// Create persiste un mensaje con sus adjuntos.
func (r *MensajeRepo) Create(ctx context.Context, m *entity.Mensaje) error {
	adjuntos := m.Adjuntos
	if adjuntos == nil {
		adjuntos = []entity.Adjunto{}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO mensajes (id, permisionario_id, remitente_id, remitente_rol, destinatario_rol, asunto, cuerpo, adjuntos, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.PermisionarioID, m.RemitenteID, m.RemitenteRol, m.DestinatarioRol, m.Asunto, m.Cuerpo, adjuntos, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert mensaje: %w", err)
	}
	return nil
}

// GetByID obtiene un mensaje por ID.
func (r *MensajeRepo) GetByID(ctx context.Context, id string) (*entity.Mensaje, error) {
	if !validUUID(id) {
		return nil, nil
	}
	m, err := scanMensaje(r.q.QueryRow(ctx, `SELECT `+mensajeColumns+` FROM mensajes WHERE id = $1`, id))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get mensaje: %w", err)
	}
	return m, nil
}

// ListByPermisionario devuelve el hilo de un permisionario en orden cronológico.
func (r *MensajeRepo) ListByPermisionario(ctx context.Context, permisionarioID string, limit, offset int) ([]*entity.Mensaje, int, error) {
	return r.list(ctx, `permisionario_id = $1`, permisionarioID, limit, offset)
}

// ListByRol devuelve los mensajes enviados a o desde el rol; rol vacío devuelve todos.
func (r *MensajeRepo) ListByRol(ctx context.Context, rol string, limit, offset int) ([]*entity.Mensaje, int, error) {
	return r.list(ctx, `($1 = '' OR destinatario_rol = $1 OR remitente_rol = $1)`, rol, limit, offset)
}

func (r *MensajeRepo) list(ctx context.Context, cond string, arg any, limit, offset int) ([]*entity.Mensaje, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM mensajes WHERE `+cond, arg).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count mensajes: %w", err)
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+mensajeColumns+` FROM mensajes WHERE `+cond+` ORDER BY created_at LIMIT $2 OFFSET $3`,
		arg, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list mensajes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Mensaje
	for rows.Next() {
		m, err := scanMensaje(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan mensaje: %w", err)
		}
		list = append(list, m)
	}
	return list, total, rows.Err()
}

func scanMensaje(row pgx.Row) (*entity.Mensaje, error) {
	var m entity.Mensaje
	err := row.Scan(
		&m.ID, &m.PermisionarioID, &m.RemitenteID, &m.RemitenteRol, &m.DestinatarioRol,
		&m.Asunto, &m.Cuerpo, &m.Adjuntos, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
