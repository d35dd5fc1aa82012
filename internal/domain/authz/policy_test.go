package authz_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/authz"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
)

func principal(role authz.Role) *authz.Principal {
	return &authz.Principal{UserID: "u-" + string(role), Role: role}
}

func TestParseRole(t *testing.T) {
	r, ok := authz.ParseRole(" inspector ")
	assert.True(t, ok)
	assert.Equal(t, authz.RoleInspector, r)

	_, ok = authz.ParseRole("SUPERUSUARIO")
	assert.False(t, ok)
}

func TestAuthorize_TablaAnexo11(t *testing.T) {
	casos := []struct {
		role    authz.Role
		act     authz.Action
		permite bool
	}{
		{authz.RolePermisionario, authz.ActionCreate, true},
		{authz.RolePermisionario, authz.ActionReadOwn, true},
		{authz.RolePermisionario, authz.ActionReadAll, false},
		{authz.RoleInspector, authz.ActionCreate, false},
		{authz.RoleInspector, authz.ActionReadAll, true},
		{authz.RoleAdminGeneral, authz.ActionReadAll, true},
		{authz.RoleAdminGeneral, authz.ActionAnnotate, true},
		{authz.RoleInspector, authz.ActionAnnotate, false},
		{authz.RolePostulante, authz.ActionReadOwn, false},
		{authz.RoleAdmin, authz.ActionCreate, true},
		{authz.RoleAdmin, authz.ActionAnnotate, true},
	}
	for _, c := range casos {
		err := authz.Authorize(principal(c.role), authz.ResourceAnexo11, c.act)
		if c.permite {
			assert.NoError(t, err, "%s/%s", c.role, c.act)
		} else {
			assert.True(t, errors.Is(err, domain.ErrForbidden), "%s/%s debe ser Forbidden", c.role, c.act)
		}
	}
}

func TestAuthorize_SinPrincipal_Unauthorized(t *testing.T) {
	assert.ErrorIs(t, authz.Authorize(nil, authz.ResourceUsers, authz.ActionReadSelf), domain.ErrUnauthorized)
	assert.ErrorIs(t, authz.Authorize(&authz.Principal{UserID: "x", Role: "OTRO"}, authz.ResourceUsers, authz.ActionReadSelf), domain.ErrUnauthorized)
}

func TestAuthorize_UsersAdminSoloAdmin(t *testing.T) {
	for _, r := range authz.AllRoles {
		err := authz.Authorize(principal(r), authz.ResourceUsers, authz.ActionAdmin)
		if r == authz.RoleAdmin {
			assert.NoError(t, err)
		} else {
			assert.ErrorIs(t, err, domain.ErrForbidden, "rol %s", r)
		}
	}
}

func TestAuthorizeOwner(t *testing.T) {
	p := principal(authz.RolePermisionario)
	assert.NoError(t, authz.AuthorizeOwner(p, authz.ResourceMisDatos, authz.ActionReadOwn, p.UserID))
	assert.ErrorIs(t, authz.AuthorizeOwner(p, authz.ResourceMisDatos, authz.ActionReadOwn, "otro"), domain.ErrForbidden)
	assert.ErrorIs(t, authz.AuthorizeOwner(p, authz.ResourceMisDatos, authz.ActionReadOwn, ""), domain.ErrForbidden)
	assert.NoError(t, authz.AuthorizeOwner(principal(authz.RoleAdmin), authz.ResourceMisDatos, authz.ActionReadOwn, "otro"))
}

func TestAuthorizeTransition_PorArista(t *testing.T) {
	ini, insp, pend, fin := entity.Anexo11Iniciado, entity.Anexo11EnInspeccion, entity.Anexo11PendienteConformidad, entity.Anexo11Finalizado

	assert.NoError(t, authz.AuthorizeTransition(principal(authz.RoleInspector), ini, insp))
	assert.NoError(t, authz.AuthorizeTransition(principal(authz.RoleInspector), insp, pend))
	assert.ErrorIs(t, authz.AuthorizeTransition(principal(authz.RoleInspector), pend, fin), domain.ErrForbidden)

	assert.NoError(t, authz.AuthorizeTransition(principal(authz.RoleAdminGeneral), pend, fin))
	assert.ErrorIs(t, authz.AuthorizeTransition(principal(authz.RoleAdminGeneral), ini, insp), domain.ErrForbidden)

	assert.ErrorIs(t, authz.AuthorizeTransition(principal(authz.RolePermisionario), ini, insp), domain.ErrForbidden)
	assert.NoError(t, authz.AuthorizeTransition(principal(authz.RoleAdmin), pend, fin))
}
