package entity

import "time"

// Estados válidos para User.
const (
	UserEstadoActivo    = "ACTIVO"
	UserEstadoInactivo  = "INACTIVO"
	UserEstadoPendiente = "PENDIENTE"
	UserEstadoAprobado  = "APROBADO"
	UserEstadoRechazado = "RECHAZADO"
)

// UserEstados enumera los estados aceptados por el panel de administración.
var UserEstados = []string{
	UserEstadoActivo, UserEstadoInactivo, UserEstadoPendiente, UserEstadoAprobado, UserEstadoRechazado,
}

// User representa a una persona que interactúa con el portal.
// Rol es uno de authz.AllRoles; se guarda como string para no acoplar la entidad al guard.
type User struct {
	ID              string
	Username        string
	Nombre          string
	Apellido        string
	Email           string
	PasswordHash    string // bcrypt
	Rol             string
	Estado          string
	Matricula       string
	Grado           string
	DNI             string
	Telefono        string
	EmailVerificado bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CanLogin indica si el estado permite iniciar sesión.
func (u *User) CanLogin() bool {
	return u.Estado != UserEstadoInactivo && u.Estado != UserEstadoRechazado
}

// NombreCompleto devuelve "Nombre Apellido" o el username si faltan datos.
func (u *User) NombreCompleto() string {
	switch {
	case u.Nombre != "" && u.Apellido != "":
		return u.Nombre + " " + u.Apellido
	case u.Nombre != "":
		return u.Nombre
	default:
		return u.Username
	}
}
