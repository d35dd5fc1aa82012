package authz

import (
	"fmt"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
)

// Resource es el tipo de recurso protegido.
type Resource string

// Action es la operación solicitada sobre un recurso.
type Action string

const (
	ResourceAnexo11        Resource = "anexo11"
	ResourceUsers          Resource = "users"
	ResourceMisDatos       Resource = "mis_datos"
	ResourceComunicaciones Resource = "comunicaciones"
	ResourceViviendas      Resource = "viviendas"
	ResourcePostulaciones  Resource = "postulaciones"
	ResourceDashboard      Resource = "dashboard"
)

const (
	ActionCreate    Action = "create"
	ActionRead      Action = "read"
	ActionReadOwn   Action = "read_own"
	ActionReadAll   Action = "read_all"
	ActionReadSelf  Action = "read_self"
	ActionUpdateOwn Action = "update_own"
	ActionAnnotate  Action = "annotate"
	ActionAdmin     Action = "admin"
	ActionStaff     Action = "staff"
	ActionManage    Action = "manage"
	ActionDecide    Action = "decide"
)

// Principal es la identidad autenticada extraída del bearer token.
type Principal struct {
	UserID    string
	Role      Role
	Matricula string
	Email     string
	Nombre    string
}

type permiso struct {
	res Resource
	act Action
}

// policy es la tabla autoritativa: (recurso, acción) → roles permitidos.
// ADMIN no figura porque pasa siempre.
var policy = map[permiso][]Role{
	{ResourceAnexo11, ActionCreate}:   {RolePermisionario},
	{ResourceAnexo11, ActionReadOwn}:  {RolePermisionario},
	{ResourceAnexo11, ActionReadAll}:  {RoleInspector, RoleAdminGeneral},
	{ResourceAnexo11, ActionAnnotate}: {RoleAdminGeneral},

	{ResourceUsers, ActionAdmin}:    {},
	{ResourceUsers, ActionReadSelf}: AllRoles,

	{ResourceMisDatos, ActionReadOwn}:   {RolePermisionario, RoleAlojado},
	{ResourceMisDatos, ActionUpdateOwn}: {RolePermisionario, RoleAlojado},

	{ResourceComunicaciones, ActionCreate}:  {RolePermisionario},
	{ResourceComunicaciones, ActionReadOwn}: {RolePermisionario},
	{ResourceComunicaciones, ActionStaff}:   StaffRoles,

	{ResourceViviendas, ActionRead}:   {RoleAdministracion, RoleEncargadoGeneral, RoleEncargado, RoleJefeBarrio, RoleAdminGeneral},
	{ResourceViviendas, ActionManage}: {RoleAdministracion, RoleEncargadoGeneral},

	{ResourcePostulaciones, ActionCreate}:  {RolePostulante},
	{ResourcePostulaciones, ActionReadOwn}: {RolePostulante},
	{ResourcePostulaciones, ActionReadAll}: {RoleAdministracion, RoleAdminGeneral},
	{ResourcePostulaciones, ActionDecide}:  {RoleAdministracion, RoleAdminGeneral},

	{ResourceDashboard, ActionRead}: {RoleAdminGeneral, RoleAdministracion},
}

// transiciones asigna a cada arista del Anexo 11 los roles que pueden tomarla.
var transiciones = map[[2]entity.EstadoAnexo11][]Role{
	{entity.Anexo11Iniciado, entity.Anexo11EnInspeccion}:             {RoleInspector},
	{entity.Anexo11EnInspeccion, entity.Anexo11PendienteConformidad}: {RoleInspector},
	{entity.Anexo11PendienteConformidad, entity.Anexo11Finalizado}:   {RoleAdminGeneral},
}

// Allowed devuelve los roles que la tabla habilita para (res, act), sin contar ADMIN.
func Allowed(res Resource, act Action) []Role {
	return policy[permiso{res, act}]
}

// Authorize decide si p puede ejecutar act sobre res. No modifica estado.
func Authorize(p *Principal, res Resource, act Action) error {
	if p == nil || p.UserID == "" || !p.Role.Valid() {
		return domain.ErrUnauthorized
	}
	if p.Role == RoleAdmin {
		return nil
	}
	roles, ok := policy[permiso{res, act}]
	if !ok || !contains(roles, p.Role) {
		return fmt.Errorf("%w: rol %s sin permiso %s sobre %s", domain.ErrForbidden, p.Role, act, res)
	}
	return nil
}

// AuthorizeOwner aplica Authorize y además exige que p sea el dueño del recurso.
func AuthorizeOwner(p *Principal, res Resource, act Action, ownerID string) error {
	if err := Authorize(p, res, act); err != nil {
		return err
	}
	if p.Role == RoleAdmin {
		return nil
	}
	if ownerID == "" || ownerID != p.UserID {
		return fmt.Errorf("%w: el recurso pertenece a otro usuario", domain.ErrForbidden)
	}
	return nil
}

// AuthorizeTransition decide si p puede tomar la arista from→to del Anexo 11.
func AuthorizeTransition(p *Principal, from, to entity.EstadoAnexo11) error {
	if p == nil || p.UserID == "" || !p.Role.Valid() {
		return domain.ErrUnauthorized
	}
	if p.Role == RoleAdmin {
		return nil
	}
	roles := transiciones[[2]entity.EstadoAnexo11{from, to}]
	if !contains(roles, p.Role) {
		return fmt.Errorf("%w: rol %s no puede pasar de %s a %s", domain.ErrForbidden, p.Role, from, to)
	}
	return nil
}

func contains(roles []Role, r Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}
