package entity

import "time"

// EstadoAnexo11 es el estado del flujo de un pedido de mantenimiento.
type EstadoAnexo11 string

const (
	Anexo11Iniciado             EstadoAnexo11 = "INICIADO"
	Anexo11EnInspeccion         EstadoAnexo11 = "EN_INSPECCION"
	Anexo11PendienteConformidad EstadoAnexo11 = "PENDIENTE_CONFORMIDAD"
	Anexo11Finalizado           EstadoAnexo11 = "FINALIZADO"
)

// Valores cerrados de los campos enumerados del Anexo 11.
const (
	SolicitaCambio       = "CAMBIO"
	SolicitaReparacion   = "REPARACION"
	SolicitaVerificacion = "VERIFICACION"
	SolicitaProvision    = "PROVISION"

	ConCargoAPermisionario = "PERMISIONARIO"
	ConCargoAViviendas     = "VIVIENDAS"

	RazonSeguridad    = "SEGURIDAD"
	RazonPreservacion = "PRESERVACION"
	RazonPresentacion = "PRESENTACION"
)

// Anexo11 es el pedido de mantenimiento que inicia un permisionario.
// Permisionario, Inspector, AdminGeneral e Historial se persisten como JSONB.
type Anexo11 struct {
	ID            string
	Permisionario Anexo11Permisionario
	Inspector     *Anexo11Inspector
	AdminGeneral  *Anexo11AdminGeneral
	Estado        EstadoAnexo11
	Historial     []HistorialEntry
	CreadoPor     string
	InspectorID   string // inspector que tomó el pedido; vacío mientras está INICIADO
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Anexo11Permisionario bloque que completa el permisionario al crear el pedido.
type Anexo11Permisionario struct {
	Unidad    string `json:"unidad"`
	Barrio    string `json:"barrio"`
	Domicilio string `json:"domicilio"`
	Telefono  string `json:"telefono,omitempty"`
	Solicita  string `json:"solicita"`
	Detalle   string `json:"detalle"`
}

// Anexo11Inspector bloque del informe de inspección.
type Anexo11Inspector struct {
	Trabajo   string `json:"trabajo"`
	Urgente   bool   `json:"urgente"`
	ConCargoA string `json:"con_cargo_a"`
	Razon     string `json:"razon"`
}

// Anexo11AdminGeneral observaciones de la administración general.
type Anexo11AdminGeneral struct {
	Observaciones string `json:"observaciones"`
}

// HistorialEntry registro inmutable de una transición.
type HistorialEntry struct {
	Fecha       time.Time `json:"fecha"`
	ActorNombre string    `json:"actor_nombre"`
	ActorRol    string    `json:"actor_rol"`
	Accion      string    `json:"accion"`
	Comentario  string    `json:"comentario,omitempty"`
}

// ValidSolicita indica si s es un valor aceptado para Permisionario.Solicita.
func ValidSolicita(s string) bool {
	switch s {
	case SolicitaCambio, SolicitaReparacion, SolicitaVerificacion, SolicitaProvision:
		return true
	}
	return false
}

// ValidConCargoA indica si s es un valor aceptado para Inspector.ConCargoA.
func ValidConCargoA(s string) bool {
	return s == ConCargoAPermisionario || s == ConCargoAViviendas
}

// ValidRazon indica si s es un valor aceptado para Inspector.Razon.
func ValidRazon(s string) bool {
	switch s {
	case RazonSeguridad, RazonPreservacion, RazonPresentacion:
		return true
	}
	return false
}
