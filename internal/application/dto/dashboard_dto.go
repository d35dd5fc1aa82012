package dto

import "time"

// DashboardSummaryDTO respuesta de GET /api/admin/dashboard.
// Cada mapa agrupa conteos por rol o estado; las claves ausentes valen cero.
type DashboardSummaryDTO struct {
	UsuariosPorRol          map[string]int `json:"usuarios_por_rol"`
	ViviendasPorEstado      map[string]int `json:"viviendas_por_estado"`
	PostulacionesPorEstado  map[string]int `json:"postulaciones_por_estado"`
	Anexo11PorEstado        map[string]int `json:"anexo11_por_estado"`
	TotalUsuarios           int            `json:"total_usuarios"`
	PostulacionesPendientes int            `json:"postulaciones_pendientes"`
	Anexo11Abiertos         int            `json:"anexo11_abiertos"` // todo lo que no está FINALIZADO
	GeneradoEn              time.Time      `json:"generado_en"`
}
