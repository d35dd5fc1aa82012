package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos y estados de Postulacion (Anexo 01).
const (
	PostulacionVivienda    = "VIVIENDA"
	PostulacionAlojamiento = "ALOJAMIENTO"

	PostulacionPendiente = "PENDIENTE"
	PostulacionAprobada  = "APROBADO"
	PostulacionRechazada = "RECHAZADO"
)

// Postulacion es la solicitud de vivienda de un postulante.
// Datos y Preferencias se persisten como JSONB; IngresoMensual además como NUMERIC para ordenar.
type Postulacion struct {
	ID           string
	Tipo         string
	Datos        DatosPostulante
	Preferencias Preferencias
	Estado       string
	UsuarioID    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DatosPostulante datos personales y del grupo familiar declarados en el Anexo 01.
type DatosPostulante struct {
	Nombre         string          `json:"nombre"`
	Apellido       string          `json:"apellido"`
	DNI            string          `json:"dni"`
	Matricula      string          `json:"matricula"`
	Grado          string          `json:"grado"`
	Destino        string          `json:"destino,omitempty"`
	Telefono       string          `json:"telefono,omitempty"`
	EstadoCivil    string          `json:"estado_civil,omitempty"`
	IngresoMensual decimal.Decimal `json:"ingreso_mensual"`
	GrupoFamiliar  []Familiar      `json:"grupo_familiar"`
	Mascotas       []Mascota       `json:"mascotas"`
	Declaraciones  Declaraciones   `json:"declaraciones"`
}

// Familiar integrante del grupo familiar conviviente.
type Familiar struct {
	Nombre       string `json:"nombre"`
	Parentesco   string `json:"parentesco"`
	DNI          string `json:"dni"`
	Edad         int    `json:"edad"`
	AfiliadoDIBA bool   `json:"afiliado_diba"`
}

// Mascota declarada por el postulante.
type Mascota struct {
	Especie  string `json:"especie"`
	Cantidad int    `json:"cantidad"`
}

// Declaraciones juradas del formulario.
type Declaraciones struct {
	DeclaraVeracidad bool `json:"declara_veracidad"`
	AceptaReglamento bool `json:"acepta_reglamento"`
}

// Preferencias no vinculantes del postulante.
type Preferencias struct {
	Barrios        []string `json:"barrios"`
	DormitoriosMin int      `json:"dormitorios_min"`
	Observaciones  string   `json:"observaciones,omitempty"`
}
