package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/marianodev72/sitio98plus-sub001/internal/application/dto"
	"github.com/marianodev72/sitio98plus-sub001/internal/application/usecase"
)

// UserHandler administración de usuarios y datos propios del permisionario.
type UserHandler struct {
	uc *usecase.UserUseCase
}

func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List godoc
// @Summary      Listar usuarios (ADMIN)
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        rol     query  string  false  "Rol"
// @Param        estado  query  string  false  "Estado"
// @Param        q       query  string  false  "Búsqueda por nombre, apellido, email o matrícula"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.ListResponse[dto.UserResponse]
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/users/admin [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	var f dto.UserListFilter
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

// UpdateRoleEstado godoc
// @Summary      Cambiar rol y/o estado de un usuario (ADMIN)
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del usuario"
// @Param        body  body  dto.UpdateRoleEstadoRequest  true  "rol y/o estado"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/users/admin/{id}/role-estado [patch]
func (h *UserHandler) UpdateRoleEstado(c *fiber.Ctx) error {
	var in dto.UpdateRoleEstadoRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(err)
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.UpdateRoleEstado(c.UserContext(), GetPrincipal(c), id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetMisDatos godoc
// @Summary      Datos propios y vivienda asignada
// @Tags         permisionario
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MisDatosResponse
// @Router       /api/permisionario/mis-datos [get]
func (h *UserHandler) GetMisDatos(c *fiber.Ctx) error {
	out, err := h.uc.GetMisDatos(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// UpdateMisDatos godoc
// @Summary      Actualizar datos propios
// @Tags         permisionario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateMisDatosRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.MisDatosResponse
// @Router       /api/permisionario/mis-datos [put]
func (h *UserHandler) UpdateMisDatos(c *fiber.Ctx) error {
	var in dto.UpdateMisDatosRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(err)
	}
	out, err := h.uc.UpdateMisDatos(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
