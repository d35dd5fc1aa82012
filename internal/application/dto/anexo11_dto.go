package dto

import "time"

// Anexo11PermisionarioDTO bloque del permisionario.
type Anexo11PermisionarioDTO struct {
	Unidad    string `json:"unidad" validate:"required,max=60"`
	Barrio    string `json:"barrio" validate:"required,max=100"`
	Domicilio string `json:"domicilio" validate:"required,max=200"`
	Telefono  string `json:"telefono" validate:"omitempty,max=30"`
	Solicita  string `json:"solicita" validate:"required,oneof=CAMBIO REPARACION VERIFICACION PROVISION"`
	Detalle   string `json:"detalle" validate:"required,max=2000"`
}

// Anexo11InspectorDTO informe del inspector.
type Anexo11InspectorDTO struct {
	Trabajo   string `json:"trabajo" validate:"required,max=2000"`
	Urgente   bool   `json:"urgente"`
	ConCargoA string `json:"con_cargo_a" validate:"required,oneof=PERMISIONARIO VIVIENDAS"`
	Razon     string `json:"razon" validate:"required,oneof=SEGURIDAD PRESERVACION PRESENTACION"`
}

// CreateAnexo11Request POST /api/anexo11.
type CreateAnexo11Request struct {
	Permisionario Anexo11PermisionarioDTO `json:"permisionario"`
}

// TransitionRequest POST /api/anexo11/:id/transicion.
type TransitionRequest struct {
	EstadoActual  string               `json:"estado_actual"`
	EstadoDestino string               `json:"estado_destino" validate:"required"`
	Comentario    string               `json:"comentario" validate:"omitempty,max=1000"`
	Inspector     *Anexo11InspectorDTO `json:"inspector" validate:"omitempty"`
	Observaciones *string              `json:"observaciones" validate:"omitempty,max=2000"`
}

// AnnotateRequest PATCH /api/anexo11/:id/observaciones.
type AnnotateRequest struct {
	Observaciones string `json:"observaciones" validate:"required,max=2000"`
}

// Anexo11ListFilter filtros del listado.
type Anexo11ListFilter struct {
	Estado string `query:"estado"`
}

// HistorialEntryDTO entrada del historial.
type HistorialEntryDTO struct {
	Fecha       time.Time `json:"fecha"`
	ActorNombre string    `json:"actor_nombre"`
	ActorRol    string    `json:"actor_rol"`
	Accion      string    `json:"accion"`
	Comentario  string    `json:"comentario,omitempty"`
}

// Anexo11Response documento completo.
type Anexo11Response struct {
	ID            string                  `json:"id"`
	Permisionario Anexo11PermisionarioDTO `json:"permisionario"`
	Inspector     *Anexo11InspectorDTO    `json:"inspector,omitempty"`
	AdminGeneral  *Anexo11AdminGeneralDTO `json:"admin_general,omitempty"`
	Estado        string                  `json:"estado"`
	Historial     []HistorialEntryDTO     `json:"historial"`
	CreadoPor     string                  `json:"creado_por"`
	InspectorID   string                  `json:"inspector_id,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// Anexo11AdminGeneralDTO observaciones de la administración general.
type Anexo11AdminGeneralDTO struct {
	Observaciones string `json:"observaciones"`
}
