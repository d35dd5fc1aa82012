package entity

import "time"

// Estados operativos de una vivienda.
const (
	ViviendaDisponible = "DISPONIBLE"
	ViviendaOcupada    = "OCUPADA"
)

// Vivienda es una unidad habitacional fiscal.
// A lo sumo un titular por vivienda y una vivienda por titular (garantizado en PostgreSQL).
type Vivienda struct {
	ID           string
	Codigo       string
	Barrio       string
	Unidad       string
	Edificio     string
	Piso         string
	Departamento string
	Dormitorios  int
	Capacidad    int
	Estado       string
	TitularID    string // vacío si está disponible
	MedidorLuz   string
	MedidorAgua  string
	MedidorGas   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
