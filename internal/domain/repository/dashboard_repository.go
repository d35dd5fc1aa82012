package repository

import "context"

// DashboardRepository consultas read-only para el tablero de administración.
// Cada método devuelve conteos agrupados por la clave indicada.
type DashboardRepository interface {
	CountUsersByRol(ctx context.Context) (map[string]int, error)
	CountViviendasByEstado(ctx context.Context) (map[string]int, error)
	CountPostulacionesByEstado(ctx context.Context) (map[string]int, error)
	CountAnexo11ByEstado(ctx context.Context) (map[string]int, error)
}
