package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/marianodev72/sitio98plus-sub001/internal/application/dto"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
)

// paramID lee :id y exige un UUID; cualquier otra cosa no llega a la base.
func paramID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if err := uuid.Validate(id); err != nil {
		return "", fmt.Errorf("%w: id %q inválido", domain.ErrInvalidInput, id)
	}
	return id, nil
}

// pageFrom lee limit/offset del query string; los límites los aplica el caso de uso.
func pageFrom(c *fiber.Ctx) (dto.PageRequest, error) {
	var p dto.PageRequest
	if err := c.QueryParser(&p); err != nil {
		return p, invalidBody(err)
	}
	return p, nil
}

// sendPDF responde un documento para descargar.
func sendPDF(c *fiber.Ctx, name string, b []byte) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(b)
}
