package http

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"

	"github.com/marianodev72/sitio98plus-sub001/internal/application/comunicacion"
	"github.com/marianodev72/sitio98plus-sub001/internal/application/dto"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
)

// campo multipart con los adjuntos
const adjuntosField = "adjuntos"

// ComunicacionHandler mensajes entre permisionarios y personal.
type ComunicacionHandler struct {
	uc *comunicacion.UseCase
}

func NewComunicacionHandler(uc *comunicacion.UseCase) *ComunicacionHandler {
	return &ComunicacionHandler{uc: uc}
}

// Send godoc
// @Summary      Enviar mensaje con adjuntos opcionales
// @Description  El permisionario escribe a un rol de personal; el personal responde en el hilo de permisionario_id.
// @Tags         comunicaciones
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        destinatario_rol  formData  string  false  "Rol destinatario (permisionario)"
// @Param        permisionario_id  formData  string  false  "Hilo a responder (personal)"
// @Param        asunto            formData  string  true   "Asunto"
// @Param        cuerpo            formData  string  true   "Cuerpo"
// @Param        adjuntos          formData  file    false  "Adjuntos"
// @Success      201  {object}  dto.MensajeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      413  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/permisionario/comunicaciones [post]
func (h *ComunicacionHandler) Send(c *fiber.Ctx) error {
	var in dto.SendMensajeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(err)
	}

	var files []*multipart.FileHeader
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return invalidBody(err)
		}
		files = form.File[adjuntosField]
	}

	uploads := make([]comunicacion.Upload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return fmt.Errorf("abrir adjunto %q: %w", fh.Filename, err)
		}
		defer f.Close()

		ct, err := contentType(fh, f)
		if err != nil {
			return err
		}
		uploads = append(uploads, comunicacion.Upload{
			Nombre:      fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
			Reader:      f,
		})
	}

	out, err := h.uc.Send(c.UserContext(), GetPrincipal(c), in, uploads)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// contentType usa el header de la parte; si falta o es genérico, lo detecta por contenido.
func contentType(fh *multipart.FileHeader, f multipart.File) (string, error) {
	declared := strings.TrimSpace(fh.Header.Get(fiber.HeaderContentType))
	if declared != "" && !strings.HasPrefix(declared, fiber.MIMEOctetStream) {
		return declared, nil
	}
	m, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("detectar tipo de %q: %w", fh.Filename, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rebobinar %q: %w", fh.Filename, err)
	}
	return m.String(), nil
}

// List godoc
// @Summary      Listar mensajes (hilo propio o bandeja del rol)
// @Tags         comunicaciones
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.ListResponse[dto.MensajeResponse]
// @Router       /api/permisionario/comunicaciones [get]
func (h *ComunicacionHandler) List(c *fiber.Ctx) error {
	page, err := pageFrom(c)
	if err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetPrincipal(c), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Attachment godoc
// @Summary      Descargar un adjunto
// @Tags         comunicaciones
// @Security     Bearer
// @Produce      octet-stream
// @Param        id   path  string  true  "ID del mensaje"
// @Param        idx  path  int     true  "Índice del adjunto"
// @Success      200  {file}  binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/permisionario/comunicaciones/{id}/adjuntos/{idx} [get]
func (h *ComunicacionHandler) Attachment(c *fiber.Ctx) error {
	idx, err := c.ParamsInt("idx")
	if err != nil {
		return fmt.Errorf("%w: índice de adjunto inválido", domain.ErrInvalidInput)
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	rc, adj, err := h.uc.Attachment(c.UserContext(), GetPrincipal(c), id, idx)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, adj.ContentType)
	c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": adj.NombreOriginal}))
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	return c.SendStream(rc, int(adj.Tamano))
}
