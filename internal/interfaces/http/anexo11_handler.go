package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/marianodev72/sitio98plus-sub001/internal/application/anexo11"
	"github.com/marianodev72/sitio98plus-sub001/internal/application/dto"
)

// Anexo11Handler pedidos de mantenimiento.
type Anexo11Handler struct {
	uc *anexo11.UseCase
}

func NewAnexo11Handler(uc *anexo11.UseCase) *Anexo11Handler {
	return &Anexo11Handler{uc: uc}
}

// Create godoc
// @Summary      Crear pedido de mantenimiento (PERMISIONARIO)
// @Tags         anexo11
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAnexo11Request  true  "Bloque del permisionario"
// @Success      201   {object}  dto.Anexo11Response
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/anexo11 [post]
func (h *Anexo11Handler) Create(c *fiber.Ctx) error {
	var in dto.CreateAnexo11Request
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
// @Summary      Listar pedidos según el rol
// @Tags         anexo11
// @Security     Bearer
// @Produce      json
// @Param        estado  query  string  false  "Estado"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.ListResponse[dto.Anexo11Response]
// @Router       /api/anexo11 [get]
func (h *Anexo11Handler) List(c *fiber.Ctx) error {
	var f dto.Anexo11ListFilter
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
// @Summary      Obtener pedido
// @Tags         anexo11
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.Anexo11Response
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/anexo11/{id} [get]
func (h *Anexo11Handler) Get(c *fiber.Ctx) error {
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

// Transition godoc
// @Summary      Avanzar el estado del pedido
// @Description  Solo el sucesor inmediato es válido. estado_actual, si se envía, debe coincidir con el persistido.
// @Tags         anexo11
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del pedido"
// @Param        body  body  dto.TransitionRequest  true  "Transición"
// @Success      200   {object}  dto.Anexo11Response
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/anexo11/{id}/transicion [post]
func (h *Anexo11Handler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(err)
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Transition(c.UserContext(), GetPrincipal(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Annotate godoc
// @Summary      Observaciones de la administración general
// @Tags         anexo11
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del pedido"
// @Param        body  body  dto.AnnotateRequest  true  "Observaciones"
// @Success      200   {object}  dto.Anexo11Response
// @Router       /api/anexo11/{id}/observaciones [patch]
func (h *Anexo11Handler) Annotate(c *fiber.Ctx) error {
	var in dto.AnnotateRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(err)
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Annotate(c.UserContext(), GetPrincipal(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Versión imprimible del pedido
// @Tags         anexo11
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}  binary
// @Router       /api/anexo11/{id}/pdf [get]
func (h *Anexo11Handler) PDF(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	b, err := h.uc.PDF(c.UserContext(), GetPrincipal(c), id)
	if err != nil {
		return err
	}
	return sendPDF(c, "anexo11-"+id+".pdf", b)
}
