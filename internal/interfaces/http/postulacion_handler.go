package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/marianodev72/sitio98plus-sub001/internal/application/dto"
	"github.com/marianodev72/sitio98plus-sub001/internal/application/usecase"
)

// PostulacionHandler postulaciones (Anexo 01).
type PostulacionHandler struct {
	uc *usecase.PostulacionUseCase
}

func NewPostulacionHandler(uc *usecase.PostulacionUseCase) *PostulacionHandler {
	return &PostulacionHandler{uc: uc}
}

// Create godoc
// @Summary      Crear postulación (POSTULANTE)
// @Tags         postulaciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePostulacionRequest  true  "Anexo 01"
// @Success      201   {object}  dto.PostulacionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/postulaciones [post]
func (h *PostulacionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePostulacionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(err)
	}
	out, err := h.uc.Create(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar postulaciones (propias o todas según el rol)
// @Tags         postulaciones
// @Security     Bearer
// @Produce      json
// @Param        estado  query  string  false  "Estado"
// @Param        tipo    query  string  false  "Tipo"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.ListResponse[dto.PostulacionResponse]
// @Router       /api/postulaciones [get]
func (h *PostulacionHandler) List(c *fiber.Ctx) error {
	var f dto.PostulacionListFilter
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
// @Summary      Obtener postulación
// @Tags         postulaciones
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la postulación"
// @Success      200  {object}  dto.PostulacionResponse
// @Router       /api/postulaciones/{id} [get]
func (h *PostulacionHandler) Get(c *fiber.Ctx) error {
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

// Decide godoc
// @Summary      Aprobar o rechazar una postulación pendiente
// @Tags         postulaciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la postulación"
// @Param        body  body  dto.DecidePostulacionRequest  true  "APROBADO | RECHAZADO"
// @Success      200   {object}  dto.PostulacionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/postulaciones/{id}/estado [patch]
func (h *PostulacionHandler) Decide(c *fiber.Ctx) error {
	var in dto.DecidePostulacionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(err)
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Decide(c.UserContext(), GetPrincipal(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Anexo 01 imprimible
// @Tags         postulaciones
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la postulación"
// @Success      200  {file}  binary
// @Router       /api/postulaciones/{id}/pdf [get]
func (h *PostulacionHandler) PDF(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	b, err := h.uc.PDF(c.UserContext(), GetPrincipal(c), id)
	if err != nil {
		return err
	}
	return sendPDF(c, "anexo01-"+id+".pdf", b)
}
