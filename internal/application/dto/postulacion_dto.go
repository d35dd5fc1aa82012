package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// FamiliarDTO integrante del grupo familiar.
type FamiliarDTO struct {
	Nombre       string `json:"nombre" validate:"required,max=150"`
	Parentesco   string `json:"parentesco" validate:"required,max=40"`
	DNI          string `json:"dni" validate:"omitempty,numeric,max=10"`
	Edad         int    `json:"edad" validate:"min=0,max=120"`
	AfiliadoDIBA bool   `json:"afiliado_diba"`
}

// MascotaDTO mascota declarada.
type MascotaDTO struct {
	Especie  string `json:"especie" validate:"required,max=40"`
	Cantidad int    `json:"cantidad" validate:"min=1,max=20"`
}

// DeclaracionesDTO declaraciones juradas; ambas deben aceptarse.
type DeclaracionesDTO struct {
	DeclaraVeracidad bool `json:"declara_veracidad" validate:"eq=true"`
	AceptaReglamento bool `json:"acepta_reglamento" validate:"eq=true"`
}

// DatosPostulanteDTO datos del Anexo 01.
type DatosPostulanteDTO struct {
	Nombre         string           `json:"nombre" validate:"required,max=100"`
	Apellido       string           `json:"apellido" validate:"required,max=100"`
	DNI            string           `json:"dni" validate:"required,numeric,min=6,max=10"`
	Matricula      string           `json:"matricula" validate:"required,max=30"`
	Grado          string           `json:"grado" validate:"omitempty,max=60"`
	Destino        string           `json:"destino" validate:"omitempty,max=100"`
	Telefono       string           `json:"telefono" validate:"omitempty,max=30"`
	EstadoCivil    string           `json:"estado_civil" validate:"omitempty,max=30"`
	IngresoMensual decimal.Decimal  `json:"ingreso_mensual"`
	GrupoFamiliar  []FamiliarDTO    `json:"grupo_familiar" validate:"omitempty,max=20,dive"`
	Mascotas       []MascotaDTO     `json:"mascotas" validate:"omitempty,max=10,dive"`
	Declaraciones  DeclaracionesDTO `json:"declaraciones"`
}

// PreferenciasDTO preferencias no vinculantes.
type PreferenciasDTO struct {
	Barrios        []string `json:"barrios" validate:"omitempty,max=10,dive,max=100"`
	DormitoriosMin int      `json:"dormitorios_min" validate:"min=0,max=20"`
	Observaciones  string   `json:"observaciones" validate:"omitempty,max=1000"`
}

// CreatePostulacionRequest POST /api/postulaciones.
type CreatePostulacionRequest struct {
	Tipo         string             `json:"tipo" validate:"required,oneof=VIVIENDA ALOJAMIENTO"`
	Datos        DatosPostulanteDTO `json:"datos"`
	Preferencias PreferenciasDTO    `json:"preferencias"`
}

// DecidePostulacionRequest PATCH /api/postulaciones/:id/estado.
type DecidePostulacionRequest struct {
	Estado string `json:"estado" validate:"required,oneof=APROBADO RECHAZADO"`
}

// PostulacionListFilter filtros del listado.
type PostulacionListFilter struct {
	Estado string `query:"estado" validate:"omitempty,oneof=PENDIENTE APROBADO RECHAZADO"`
	Tipo   string `query:"tipo" validate:"omitempty,oneof=VIVIENDA ALOJAMIENTO"`
}

// PostulacionResponse salida de una postulación.
type PostulacionResponse struct {
	ID           string             `json:"id"`
	Tipo         string             `json:"tipo"`
	Datos        DatosPostulanteDTO `json:"datos"`
	Preferencias PreferenciasDTO    `json:"preferencias"`
	Estado       string             `json:"estado"`
	UsuarioID    string             `json:"usuario_id"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}
