package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/marianodev72/sitio98plus-sub001/internal/application/analytics"
)

// DashboardHandler tablero de administración.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve los conteos por rol y por estado.
// GET /api/admin/dashboard
//
// Respuesta: DashboardSummaryDTO (usuarios_por_rol, viviendas_por_estado,
// postulaciones_por_estado, anexo11_por_estado y totales).
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
