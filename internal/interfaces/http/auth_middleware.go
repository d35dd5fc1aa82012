package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/authz"
	"github.com/marianodev72/sitio98plus-sub001/pkg/jwt"
)

// LocalPrincipal clave de c.Locals con el *authz.Principal autenticado.
const LocalPrincipal = "principal"

// TokenVerifier valida el bearer token. Lo implementan *jwt.Verifier y *jwt.Signer.
type TokenVerifier interface {
	Parse(token string) (*jwt.Claims, error)
}

// AuthMiddleware valida el Bearer Token y deja el Principal en c.Locals.
// No consulta la base: rol y matrícula viajan en el token.
func AuthMiddleware(v TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return unauthorized("header Authorization requerido")
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized("formato: Bearer <token>")
		}
		token := strings.TrimSpace(parts[1])
		if token == "" {
			return unauthorized("token vacío")
		}
		claims, err := v.Parse(token)
		if err != nil {
			return unauthorized("token inválido o expirado")
		}
		role, ok := authz.ParseRole(claims.Rol)
		if !ok {
			return unauthorized("rol desconocido en el token")
		}
		c.Locals(LocalPrincipal, &authz.Principal{
			UserID:    claims.Subject,
			Role:      role,
			Matricula: claims.Matricula,
			Email:     claims.Email,
		})
		return c.Next()
	}
}

// RequireAccess aplica el guard de autorización antes del handler. Va después de AuthMiddleware.
func RequireAccess(res authz.Resource, act authz.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := authz.Authorize(GetPrincipal(c), res, act); err != nil {
			return err
		}
		return c.Next()
	}
}

// GetPrincipal devuelve el Principal cargado por AuthMiddleware, o nil.
func GetPrincipal(c *fiber.Ctx) *authz.Principal {
	p, _ := c.Locals(LocalPrincipal).(*authz.Principal)
	return p
}

func unauthorized(msg string) error {
	return &wrapped{base: domain.ErrUnauthorized, msg: msg}
}

// wrapped error de dominio con mensaje propio para el cliente.
type wrapped struct {
	base error
	msg  string
}

func (w *wrapped) Error() string { return w.msg }
func (w *wrapped) Unwrap() error { return w.base }
