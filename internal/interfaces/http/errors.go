package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/marianodev72/sitio98plus-sub001/internal/application/dto"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
	"github.com/marianodev72/sitio98plus-sub001/pkg/logger"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// errorTable único lugar donde un error de dominio se traduce a HTTP. El orden importa:
// gana la primera coincidencia de errors.Is.
var errorTable = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrCodeMismatch, fiber.StatusBadRequest, "CODE_MISMATCH"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrNotAuthorized, fiber.StatusForbidden, "NOT_AUTHORIZED"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrExpired, fiber.StatusGone, "EXPIRED"},
	{domain.ErrFileTooLarge, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
	{domain.ErrUnsupportedFileType, fiber.StatusUnprocessableEntity, "UNSUPPORTED_FILE_TYPE"},
	{domain.ErrTooManyAttempts, fiber.StatusTooManyRequests, "TOO_MANY_ATTEMPTS"},
}

// fiberCodes errores propios de Fiber (ruta inexistente, body demasiado grande, etc.).
var fiberCodes = map[int]string{
	fiber.StatusBadRequest:            "VALIDATION",
	fiber.StatusUnauthorized:          "UNAUTHORIZED",
	fiber.StatusForbidden:             "FORBIDDEN",
	fiber.StatusNotFound:              "NOT_FOUND",
	fiber.StatusMethodNotAllowed:      "METHOD_NOT_ALLOWED",
	fiber.StatusRequestEntityTooLarge: "FILE_TOO_LARGE",
	fiber.StatusTooManyRequests:       "RATE_LIMITED",
}

// statusFor devuelve el status HTTP y el código estable para err.
func statusFor(err error) (int, string, bool) {
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			return m.status, m.code, true
		}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if code, ok := fiberCodes[fe.Code]; ok {
			return fe.Code, code, true
		}
	}
	return fiber.StatusInternalServerError, "INTERNAL", false
}

// NewErrorHandler arma el ErrorHandler de Fiber. Fuera de development los errores
// internos se informan con un mensaje opaco y el detalle queda en el log.
func NewErrorHandler(dev bool, log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, code, known := statusFor(err)
		msg := err.Error()
		if !known {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("request_id", requestID(c)).
				Msg("error interno")
			if !dev {
				msg = "error interno del servidor"
			}
		}
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
	}
}

// invalidBody error para cuerpos que no se pueden decodificar.
func invalidBody(err error) error {
	return fmt.Errorf("%w: cuerpo inválido: %v", domain.ErrInvalidInput, err)
}
