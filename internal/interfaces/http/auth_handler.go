package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/marianodev72/sitio98plus-sub001/internal/application/auth"
	"github.com/marianodev72/sitio98plus-sub001/internal/application/dto"
)

// AuthHandler maneja el alta de postulantes, login y perfil propio.
type AuthHandler struct {
	auth     *auth.AuthUseCase
	registro *auth.RegistrationUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(a *auth.AuthUseCase, r *auth.RegistrationUseCase) *AuthHandler {
	return &AuthHandler{auth: a, registro: r}
}

// RegisterInit godoc
// @Summary      Alta de postulante (paso 1): envía el código por email
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterInitRequest  true  "Datos del postulante"
// @Success      202   {object}  dto.RegisterInitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users/register-init [post]
func (h *AuthHandler) RegisterInit(c *fiber.Ctx) error {
	var in dto.RegisterInitRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(err)
	}
	out, err := h.registro.RegisterInit(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(out)
}

// RegisterVerify godoc
// @Summary      Alta de postulante (paso 2): verifica el código y crea el usuario
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterVerifyRequest  true  "email y código"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      410   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/users/register-verify [post]
func (h *AuthHandler) RegisterVerify(c *fiber.Ctx) error {
	var in dto.RegisterVerifyRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(err)
	}
	out, err := h.registro.RegisterVerify(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/users/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(err)
	}
	out, err := h.auth.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Me godoc
// @Summary      Usuario autenticado
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/users/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.auth.Me(c.UserContext(), GetPrincipal(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
