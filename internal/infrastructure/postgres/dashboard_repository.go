package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas de solo lectura para el tablero de administración.
type DashboardRepo struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository construye el adaptador. Usa el pool porque las consultas corren en paralelo.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepo {
	return &DashboardRepo{pool: pool}
}

func (r *DashboardRepo) CountUsersByRol(ctx context.Context) (map[string]int, error) {
	m, err := countBy(ctx, r.pool, `SELECT rol, COUNT(*) FROM users GROUP BY rol`)
	if err != nil {
		return nil, fmt.Errorf("usuarios por rol: %w", err)
	}
	return m, nil
}

func (r *DashboardRepo) CountViviendasByEstado(ctx context.Context) (map[string]int, error) {
	m, err := countBy(ctx, r.pool, `SELECT estado, COUNT(*) FROM viviendas GROUP BY estado`)
	if err != nil {
		return nil, fmt.Errorf("viviendas por estado: %w", err)
	}
	return m, nil
}

func (r *DashboardRepo) CountPostulacionesByEstado(ctx context.Context) (map[string]int, error) {
	m, err := countBy(ctx, r.pool, `SELECT estado, COUNT(*) FROM postulaciones GROUP BY estado`)
	if err != nil {
		return nil, fmt.Errorf("postulaciones por estado: %w", err)
	}
	return m, nil
}

func (r *DashboardRepo) CountAnexo11ByEstado(ctx context.Context) (map[string]int, error) {
	m, err := countBy(ctx, r.pool, `SELECT estado, COUNT(*) FROM anexo11 GROUP BY estado`)
	if err != nil {
		return nil, fmt.Errorf("anexo 11 por estado: %w", err)
	}
	return m, nil
}
