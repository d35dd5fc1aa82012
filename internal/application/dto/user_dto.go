package dto

import "time"

// RegisterInitRequest paso 1 del alta de postulantes.
type RegisterInitRequest struct {
	Nombre    string `json:"nombre" validate:"required,max=100"`
	Apellido  string `json:"apellido" validate:"required,max=100"`
	Matricula string `json:"matricula" validate:"required,max=30"`
	Grado     string `json:"grado" validate:"omitempty,max=60"`
	DNI       string `json:"dni" validate:"required,numeric,min=6,max=10"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

// RegisterInitResponse confirma el envío del código; no expone el código.
type RegisterInitResponse struct {
	Email    string    `json:"email"`
	ExpiraEn time.Time `json:"expira_en"`
}

// RegisterVerifyRequest paso 2 del alta.
type RegisterVerifyRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Codigo string `json:"codigo" validate:"required,len=6,numeric"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Nombre          string    `json:"nombre"`
	Apellido        string    `json:"apellido"`
	Email           string    `json:"email"`
	Rol             string    `json:"rol"`
	Estado          string    `json:"estado"`
	Matricula       string    `json:"matricula,omitempty"`
	Grado           string    `json:"grado,omitempty"`
	DNI             string    `json:"dni,omitempty"`
	Telefono        string    `json:"telefono,omitempty"`
	EmailVerificado bool      `json:"email_verificado"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserListFilter filtros de GET /api/users/admin.
type UserListFilter struct {
	Rol    string `query:"rol"`
	Estado string `query:"estado"`
	Q      string `query:"q"`
}

// UpdateRoleEstadoRequest cambio de rol y/o estado desde administración. Al menos uno es obligatorio.
type UpdateRoleEstadoRequest struct {
	Rol    *string `json:"rol"`
	Estado *string `json:"estado" validate:"omitempty,oneof=ACTIVO INACTIVO PENDIENTE APROBADO RECHAZADO"`
}

// UpdateMisDatosRequest datos que el permisionario puede editar de sí mismo.
type UpdateMisDatosRequest struct {
	Nombre   *string `json:"nombre" validate:"omitempty,min=1,max=100"`
	Apellido *string `json:"apellido" validate:"omitempty,min=1,max=100"`
	Telefono *string `json:"telefono" validate:"omitempty,max=30"`
	Grado    *string `json:"grado" validate:"omitempty,max=60"`
}

// MisDatosResponse usuario y vivienda asignada (si tiene).
type MisDatosResponse struct {
	User     UserResponse      `json:"user"`
	Vivienda *ViviendaResponse `json:"vivienda"`
}
