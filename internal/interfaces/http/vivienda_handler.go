package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/marianodev72/sitio98plus-sub001/internal/application/dto"
	"github.com/marianodev72/sitio98plus-sub001/internal/application/usecase"
)

// ViviendaHandler administración de viviendas.
type ViviendaHandler struct {
	uc *usecase.ViviendaUseCase
}

func NewViviendaHandler(uc *usecase.ViviendaUseCase) *ViviendaHandler {
	return &ViviendaHandler{uc: uc}
}

// List godoc
// @Summary      Listar viviendas
// @Tags         viviendas
// @Security     Bearer
// @Produce      json
// @Param        barrio  query  string  false  "Barrio"
// @Param        estado  query  string  false  "DISPONIBLE | OCUPADA"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.ListResponse[dto.ViviendaResponse]
// @Router       /api/viviendas/admin/list [get]
func (h *ViviendaHandler) List(c *fiber.Ctx) error {
	var f dto.ViviendaListFilter
	if err := c.QueryParser(&f); err != nil {
		return invalidBody(err)
	}
	page, err := pageFrom(c)
	if err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetPrincipal(c), f, page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener vivienda
// @Tags         viviendas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la vivienda"
// @Success      200  {object}  dto.ViviendaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/viviendas/admin/{id} [get]
func (h *ViviendaHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), GetPrincipal(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear vivienda
// @Tags         viviendas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateViviendaRequest  true  "Datos de la vivienda"
// @Success      201   {object}  dto.ViviendaResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/viviendas/admin [post]
func (h *ViviendaHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateViviendaRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(err)
	}
	out, err := h.uc.Create(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar vivienda
// @Tags         viviendas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la vivienda"
// @Param        body  body  dto.UpdateViviendaRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ViviendaResponse
// @Router       /api/viviendas/admin/{id} [put]
func (h *ViviendaHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateViviendaRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(err)
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetPrincipal(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// AssignTitular godoc
// @Summary      Asignar titular
// @Tags         viviendas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la vivienda"
// @Param        body  body  dto.AssignTitularRequest  true  "Usuario titular"
// @Success      200   {object}  dto.ViviendaResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/viviendas/admin/{id}/titular [post]
func (h *ViviendaHandler) AssignTitular(c *fiber.Ctx) error {
	var in dto.AssignTitularRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(err)
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.AssignTitular(c.UserContext(), GetPrincipal(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Vacate godoc
// @Summary      Desocupar vivienda
// @Tags         viviendas
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la vivienda"
// @Success      200  {object}  dto.ViviendaResponse
// @Router       /api/viviendas/admin/{id}/titular [delete]
func (h *ViviendaHandler) Vacate(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Vacate(c.UserContext(), GetPrincipal(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
