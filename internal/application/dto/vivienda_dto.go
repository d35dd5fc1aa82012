package dto

import "time"

// CreateViviendaRequest alta de vivienda.
type CreateViviendaRequest struct {
	Codigo       string `json:"codigo" validate:"required,max=40"`
	Barrio       string `json:"barrio" validate:"required,max=100"`
	Unidad       string `json:"unidad" validate:"omitempty,max=60"`
	Edificio     string `json:"edificio" validate:"omitempty,max=60"`
	Piso         string `json:"piso" validate:"omitempty,max=10"`
	Departamento string `json:"departamento" validate:"omitempty,max=10"`
	Dormitorios  int    `json:"dormitorios" validate:"min=0,max=20"`
	Capacidad    int    `json:"capacidad" validate:"min=0,max=50"`
	MedidorLuz   string `json:"medidor_luz" validate:"omitempty,max=40"`
	MedidorAgua  string `json:"medidor_agua" validate:"omitempty,max=40"`
	MedidorGas   string `json:"medidor_gas" validate:"omitempty,max=40"`
}

// UpdateViviendaRequest actualización parcial; titular y estado se cambian por sus endpoints.
type UpdateViviendaRequest struct {
	Barrio       *string `json:"barrio" validate:"omitempty,min=1,max=100"`
	Unidad       *string `json:"unidad" validate:"omitempty,max=60"`
	Edificio     *string `json:"edificio" validate:"omitempty,max=60"`
	Piso         *string `json:"piso" validate:"omitempty,max=10"`
	Departamento *string `json:"departamento" validate:"omitempty,max=10"`
	Dormitorios  *int    `json:"dormitorios" validate:"omitempty,min=0,max=20"`
	Capacidad    *int    `json:"capacidad" validate:"omitempty,min=0,max=50"`
	MedidorLuz   *string `json:"medidor_luz" validate:"omitempty,max=40"`
	MedidorAgua  *string `json:"medidor_agua" validate:"omitempty,max=40"`
	MedidorGas   *string `json:"medidor_gas" validate:"omitempty,max=40"`
}

// AssignTitularRequest POST /api/viviendas/admin/:id/titular.
type AssignTitularRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// ViviendaListFilter filtros del listado.
type ViviendaListFilter struct {
	Barrio string `query:"barrio"`
	Estado string `query:"estado" validate:"omitempty,oneof=DISPONIBLE OCUPADA"`
}

// ViviendaResponse salida de una vivienda.
type ViviendaResponse struct {
	ID           string    `json:"id"`
	Codigo       string    `json:"codigo"`
	Barrio       string    `json:"barrio"`
	Unidad       string    `json:"unidad,omitempty"`
	Edificio     string    `json:"edificio,omitempty"`
	Piso         string    `json:"piso,omitempty"`
	Departamento string    `json:"departamento,omitempty"`
	Dormitorios  int       `json:"dormitorios"`
	Capacidad    int       `json:"capacidad"`
	Estado       string    `json:"estado"`
	TitularID    string    `json:"titular_id,omitempty"`
	MedidorLuz   string    `json:"medidor_luz,omitempty"`
	MedidorAgua  string    `json:"medidor_agua,omitempty"`
	MedidorGas   string    `json:"medidor_gas,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
