package dto

import "time"

// SendMensajeRequest campos de texto del multipart POST /api/permisionario/comunicaciones.
// PermisionarioID solo lo usa el personal al responder en el hilo de un permisionario.
type SendMensajeRequest struct {
	DestinatarioRol string `form:"destinatario_rol"`
	PermisionarioID string `form:"permisionario_id" validate:"omitempty,uuid"`
	Asunto          string `form:"asunto" validate:"required,max=200"`
	Cuerpo          string `form:"cuerpo" validate:"required,max=5000"`
}

// AdjuntoResponse metadatos de un adjunto; la ruta interna no se expone.
type AdjuntoResponse struct {
	Indice         int    `json:"indice"`
	NombreOriginal string `json:"nombre_original"`
	ContentType    string `json:"content_type"`
	Tamano         int64  `json:"tamano"`
}

// MensajeResponse salida de un mensaje.
type MensajeResponse struct {
	ID              string            `json:"id"`
	PermisionarioID string            `json:"permisionario_id"`
	RemitenteID     string            `json:"remitente_id"`
	RemitenteRol    string            `json:"remitente_rol"`
	DestinatarioRol string            `json:"destinatario_rol"`
	Asunto          string            `json:"asunto"`
	Cuerpo          string            `json:"cuerpo"`
	Adjuntos        []AdjuntoResponse `json:"adjuntos"`
	CreatedAt       time.Time         `json:"created_at"`
}
