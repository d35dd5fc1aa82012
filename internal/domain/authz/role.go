// Package authz contiene la tabla única de permisos por rol y el guard que la aplica.
package authz

import "strings"

// Role es el rol de un usuario. El conjunto es cerrado: cualquier valor fuera de AllRoles es inválido.
type Role string

const (
	RoleAdmin            Role = "ADMIN"
	RoleAdminGeneral     Role = "ADMIN_GENERAL"
	RoleInspector        Role = "INSPECTOR"
	RoleJefeBarrio       Role = "JEFE_BARRIO"
	RoleAdministracion   Role = "ADMINISTRACION"
	RoleEncargado        Role = "ENCARGADO"
	RoleEncargadoGeneral Role = "ENCARGADO_GENERAL"
	RolePermisionario    Role = "PERMISIONARIO"
	RoleAlojado          Role = "ALOJADO"
	RolePostulante       Role = "POSTULANTE"
)

// AllRoles enumera los roles válidos en orden estable.
var AllRoles = []Role{
	RoleAdmin, RoleAdminGeneral, RoleInspector, RoleJefeBarrio, RoleAdministracion,
	RoleEncargado, RoleEncargadoGeneral, RolePermisionario, RoleAlojado, RolePostulante,
}

// StaffRoles son los roles que atienden comunicaciones de permisionarios.
var StaffRoles = []Role{
	RoleInspector, RoleAdminGeneral, RoleAdministracion, RoleJefeBarrio, RoleEncargado, RoleEncargadoGeneral,
}

// ParseRole normaliza s y devuelve el rol si pertenece a la enumeración.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllRoles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

// Valid indica si r pertenece a la enumeración.
func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// IsStaff indica si r es un rol de personal que atiende comunicaciones.
func (r Role) IsStaff() bool {
	for _, s := range StaffRoles {
		if r == s {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }
