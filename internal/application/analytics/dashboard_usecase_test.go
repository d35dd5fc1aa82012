package analytics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marianodev72/sitio98plus-sub001/internal/application/analytics"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/authz"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
	"github.com/marianodev72/sitio98plus-sub001/internal/testutil/memstore"
)

var adminGeneral = &authz.Principal{UserID: "ag", Role: authz.RoleAdminGeneral}

func TestGetSummary_Conteos(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	require.NoError(t, s.Create(ctx, &entity.User{ID: "u1", Email: "a@x.com", Rol: "PERMISIONARIO"}))
	require.NoError(t, s.Create(ctx, &entity.User{ID: "u2", Email: "b@x.com", Rol: "PERMISIONARIO"}))
	require.NoError(t, s.Create(ctx, &entity.User{ID: "u3", Email: "c@x.com", Rol: "POSTULANTE"}))
	require.NoError(t, s.Viviendas.Create(ctx, &entity.Vivienda{ID: "v1", Codigo: "A-1", Estado: entity.ViviendaDisponible}))
	require.NoError(t, s.Viviendas.Create(ctx, &entity.Vivienda{ID: "v2", Codigo: "A-2", Estado: entity.ViviendaOcupada}))
	require.NoError(t, s.Postulaciones.Create(ctx, &entity.Postulacion{ID: "p1", Tipo: entity.PostulacionVivienda, Estado: entity.PostulacionPendiente, UsuarioID: "u3"}))
	require.NoError(t, s.Anexo11.Create(ctx, &entity.Anexo11{ID: "a1", Estado: entity.Anexo11Iniciado}))
	require.NoError(t, s.Anexo11.Create(ctx, &entity.Anexo11{ID: "a2", Estado: entity.Anexo11Finalizado}))
	require.NoError(t, s.Anexo11.Create(ctx, &entity.Anexo11{ID: "a3", Estado: entity.Anexo11EnInspeccion}))

	out, err := analytics.NewDashboardUseCase(s).GetSummary(ctx, adminGeneral)
	require.NoError(t, err)

	assert.Equal(t, 3, out.TotalUsuarios)
	assert.Equal(t, 2, out.UsuariosPorRol["PERMISIONARIO"])
	assert.Equal(t, 1, out.ViviendasPorEstado[entity.ViviendaOcupada])
	assert.Equal(t, 1, out.PostulacionesPendientes)
	assert.Equal(t, 2, out.Anexo11Abiertos)
	assert.False(t, out.GeneradoEn.IsZero())
}

func TestGetSummary_SinDatosDevuelveMapasVacios(t *testing.T) {
	out, err := analytics.NewDashboardUseCase(memstore.New()).GetSummary(context.Background(), adminGeneral)
	require.NoError(t, err)
	assert.NotNil(t, out.ViviendasPorEstado)
	assert.Zero(t, out.TotalUsuarios)
}

func TestGetSummary_RolSinPermiso(t *testing.T) {
	uc := analytics.NewDashboardUseCase(memstore.New())
	_, err := uc.GetSummary(context.Background(), &authz.Principal{UserID: "x", Role: authz.RoleInspector})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.GetSummary(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

type failingRepo struct{ *memstore.Store }

func (failingRepo) CountAnexo11ByEstado(context.Context) (map[string]int, error) {
	return nil, errors.New("timeout")
}

func TestGetSummary_PropagaError(t *testing.T) {
	_, err := analytics.NewDashboardUseCase(failingRepo{memstore.New()}).GetSummary(context.Background(), adminGeneral)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anexo 11")
}
