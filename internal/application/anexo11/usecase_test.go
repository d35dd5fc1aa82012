package anexo11_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marianodev72/sitio98plus-sub001/internal/application/anexo11"
	"github.com/marianodev72/sitio98plus-sub001/internal/application/dto"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/authz"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
	"github.com/marianodev72/sitio98plus-sub001/internal/testutil/memstore"
)

var (
	permisionario = &authz.Principal{UserID: "perm-1", Role: authz.RolePermisionario, Nombre: "Juan Pérez"}
	otroPerm      = &authz.Principal{UserID: "perm-2", Role: authz.RolePermisionario}
	inspector     = &authz.Principal{UserID: "insp-1", Role: authz.RoleInspector, Nombre: "Inspector Uno"}
	inspector2    = &authz.Principal{UserID: "insp-2", Role: authz.RoleInspector, Nombre: "Inspector Dos"}
	adminGeneral  = &authz.Principal{UserID: "ag-1", Role: authz.RoleAdminGeneral, Nombre: "Adm. General"}
	postulante    = &authz.Principal{UserID: "post-1", Role: authz.RolePostulante}
)

type recorder struct {
	mu       sync.Mutex
	acciones []string
}

func (r *recorder) RecordTransition(accion string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.acciones = append(r.acciones, accion)
}

func newUseCase() (*anexo11.UseCase, *memstore.Store, *recorder) {
	s := memstore.New()
	rec := &recorder{}
	return anexo11.NewUseCase(s.Anexo11, s, memstore.PDF{}, rec), s, rec
}

func createRequest() dto.CreateAnexo11Request {
	return dto.CreateAnexo11Request{Permisionario: dto.Anexo11PermisionarioDTO{
		Unidad: "U-12", Barrio: "Barrio Norte", Domicilio: "Calle 1 123",
		Solicita: entity.SolicitaReparacion, Detalle: "pérdida en el baño",
	}}
}

func informe() *dto.Anexo11InspectorDTO {
	return &dto.Anexo11InspectorDTO{
		Trabajo: "cambio de flexible", Urgente: true,
		ConCargoA: entity.ConCargoAViviendas, Razon: entity.RazonPreservacion,
	}
}

func TestCreate_EstadoInicialYHistorialVacio(t *testing.T) {
	uc, _, _ := newUseCase()
	out, err := uc.Create(context.Background(), permisionario, createRequest())
	require.NoError(t, err)

	assert.Equal(t, "INICIADO", out.Estado)
	assert.Empty(t, out.Historial)
	assert.Equal(t, "perm-1", out.CreadoPor)
	assert.Equal(t, "REPARACION", out.Permisionario.Solicita)
}

func TestCreate_RolesNoPermitidos(t *testing.T) {
	uc, _, _ := newUseCase()
	for _, p := range []*authz.Principal{inspector, adminGeneral, postulante} {
		_, err := uc.Create(context.Background(), p, createRequest())
		assert.ErrorIs(t, err, domain.ErrForbidden, "rol %s", p.Role)
	}
	_, err := uc.Create(context.Background(), nil, createRequest())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCreate_SolicitaFueraDeEnum(t *testing.T) {
	uc, _, _ := newUseCase()
	in := createRequest()
	in.Permisionario.Solicita = "DEMOLICION"
	_, err := uc.Create(context.Background(), permisionario, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Crear y leer devuelve los mismos campos del permisionario.
func TestCreateGet_RoundTrip(t *testing.T) {
	uc, _, _ := newUseCase()
	ctx := context.Background()
	created, err := uc.Create(ctx, permisionario, createRequest())
	require.NoError(t, err)

	got, err := uc.Get(ctx, permisionario, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Permisionario, got.Permisionario)
	assert.Equal(t, created.Estado, got.Estado)
}

func TestGet_Visibilidad(t *testing.T) {
	uc, _, _ := newUseCase()
	ctx := context.Background()
	a, err := uc.Create(ctx, permisionario, createRequest())
	require.NoError(t, err)

	_, err = uc.Get(ctx, otroPerm, a.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "otro permisionario no ve pedidos ajenos")

	_, err = uc.Get(ctx, inspector2, a.ID)
	assert.NoError(t, err, "un pedido INICIADO está en el pool de todos los inspectores")

	_, err = uc.Transition(ctx, inspector, a.ID, dto.TransitionRequest{EstadoDestino: "EN_INSPECCION"})
	require.NoError(t, err)

	_, err = uc.Get(ctx, inspector2, a.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "asignado a otro inspector")

	_, err = uc.Get(ctx, adminGeneral, a.ID)
	assert.NoError(t, err)

	_, err = uc.Get(ctx, postulante, a.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Get(ctx, adminGeneral, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFlujoCompleto_HistorialEnOrden(t *testing.T) {
	uc, _, rec := newUseCase()
	ctx := context.Background()
	a, err := uc.Create(ctx, permisionario, createRequest())
	require.NoError(t, err)

	out, err := uc.Transition(ctx, inspector, a.ID, dto.TransitionRequest{EstadoActual: "INICIADO", EstadoDestino: "EN_INSPECCION", Comentario: "tomo el pedido"})
	require.NoError(t, err)
	assert.Equal(t, "insp-1", out.InspectorID)

	out, err = uc.Transition(ctx, inspector, a.ID, dto.TransitionRequest{EstadoDestino: "PENDIENTE_CONFORMIDAD", Inspector: informe()})
	require.NoError(t, err)
	require.NotNil(t, out.Inspector)
	assert.Equal(t, "VIVIENDAS", out.Inspector.ConCargoA)

	obs := "trabajo conforme"
	out, err = uc.Transition(ctx, adminGeneral, a.ID, dto.TransitionRequest{EstadoDestino: "FINALIZADO", Observaciones: &obs})
	require.NoError(t, err)

	assert.Equal(t, "FINALIZADO", out.Estado)
	require.Len(t, out.Historial, 3)
	assert.Equal(t, "INICIADO→EN_INSPECCION", out.Historial[0].Accion)
	assert.Equal(t, "Inspector Uno", out.Historial[0].ActorNombre)
	assert.Equal(t, "INSPECTOR", out.Historial[0].ActorRol)
	assert.Equal(t, "tomo el pedido", out.Historial[0].Comentario)
	assert.Equal(t, "EN_INSPECCION→PENDIENTE_CONFORMIDAD", out.Historial[1].Accion)
	assert.Equal(t, "PENDIENTE_CONFORMIDAD→FINALIZADO", out.Historial[2].Accion)
	assert.Equal(t, "ADMIN_GENERAL", out.Historial[2].ActorRol)
	assert.False(t, out.Historial[1].Fecha.Before(out.Historial[0].Fecha))
	require.NotNil(t, out.AdminGeneral)
	assert.Equal(t, "trabajo conforme", out.AdminGeneral.Observaciones)
	assert.Len(t, rec.acciones, 3)

	_, err = uc.Transition(ctx, adminGeneral, a.ID, dto.TransitionRequest{EstadoDestino: "INICIADO"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "FINALIZADO es terminal")
}

func TestTransition_SaltoOIlegal(t *testing.T) {
	uc, _, _ := newUseCase()
	ctx := context.Background()
	a, err := uc.Create(ctx, permisionario, createRequest())
	require.NoError(t, err)

	for _, destino := range []string{"PENDIENTE_CONFORMIDAD", "FINALIZADO", "INICIADO", "CUALQUIERA"} {
		_, err := uc.Transition(ctx, inspector, a.ID, dto.TransitionRequest{EstadoDestino: destino})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "destino %s", destino)
	}
}

func TestTransition_RolPorArista(t *testing.T) {
	uc, _, _ := newUseCase()
	ctx := context.Background()
	a, err := uc.Create(ctx, permisionario, createRequest())
	require.NoError(t, err)

	_, err = uc.Transition(ctx, permisionario, a.ID, dto.TransitionRequest{EstadoDestino: "EN_INSPECCION"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Transition(ctx, adminGeneral, a.ID, dto.TransitionRequest{EstadoDestino: "EN_INSPECCION"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Transition(ctx, inspector, a.ID, dto.TransitionRequest{EstadoDestino: "EN_INSPECCION"})
	require.NoError(t, err)
	_, err = uc.Transition(ctx, inspector, a.ID, dto.TransitionRequest{EstadoDestino: "PENDIENTE_CONFORMIDAD", Inspector: informe()})
	require.NoError(t, err)

	_, err = uc.Transition(ctx, inspector, a.ID, dto.TransitionRequest{EstadoDestino: "FINALIZADO"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "solo ADMIN_GENERAL finaliza")
}

func TestTransition_InformeObligatorio(t *testing.T) {
	uc, _, _ := newUseCase()
	ctx := context.Background()
	a, err := uc.Create(ctx, permisionario, createRequest())
	require.NoError(t, err)
	_, err = uc.Transition(ctx, inspector, a.ID, dto.TransitionRequest{EstadoDestino: "EN_INSPECCION"})
	require.NoError(t, err)

	_, err = uc.Transition(ctx, inspector, a.ID, dto.TransitionRequest{EstadoDestino: "PENDIENTE_CONFORMIDAD"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	malo := informe()
	malo.Razon = "ESTETICA"
	_, err = uc.Transition(ctx, inspector, a.ID, dto.TransitionRequest{EstadoDestino: "PENDIENTE_CONFORMIDAD", Inspector: malo})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := uc.Get(ctx, inspector, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "EN_INSPECCION", got.Estado)
	assert.Len(t, got.Historial, 1, "un rechazo no agrega historial")
}

func TestTransition_EstadoActualDesactualizado(t *testing.T) {
	uc, _, _ := newUseCase()
	ctx := context.Background()
	a, err := uc.Create(ctx, permisionario, createRequest())
	require.NoError(t, err)
	_, err = uc.Transition(ctx, inspector, a.ID, dto.TransitionRequest{EstadoDestino: "EN_INSPECCION"})
	require.NoError(t, err)

	_, err = uc.Transition(ctx, inspector, a.ID, dto.TransitionRequest{
		EstadoActual: "INICIADO", EstadoDestino: "PENDIENTE_CONFORMIDAD", Inspector: informe(),
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// Dos inspectores toman el mismo pedido a la vez: exactamente uno gana.
func TestTransition_ConcurrenteUnSoloExito(t *testing.T) {
	for i := 0; i < 20; i++ {
		uc, s, _ := newUseCase()
		ctx := context.Background()
		a, err := uc.Create(ctx, permisionario, createRequest())
		require.NoError(t, err)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for j, p := range []*authz.Principal{inspector, inspector2} {
			wg.Add(1)
			go func(j int, p *authz.Principal) {
				defer wg.Done()
				_, errs[j] = uc.Transition(ctx, p, a.ID, dto.TransitionRequest{EstadoDestino: "EN_INSPECCION"})
			}(j, p)
		}
		wg.Wait()

		exitos := 0
		for _, err := range errs {
			if err == nil {
				exitos++
				continue
			}
			assert.True(t,
				errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrInvalidTransition) || errors.Is(err, domain.ErrForbidden),
				"error inesperado: %v", err)
		}
		assert.Equal(t, 1, exitos)

		stored, err := s.Anexo11.GetByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Len(t, stored.Historial, 1, "una sola entrada de historial")
	}
}

func TestAnnotate_NoTocaEstadoNiHistorial(t *testing.T) {
	uc, _, _ := newUseCase()
	ctx := context.Background()
	a, err := uc.Create(ctx, permisionario, createRequest())
	require.NoError(t, err)

	out, err := uc.Annotate(ctx, adminGeneral, a.ID, dto.AnnotateRequest{Observaciones: "revisar en 30 días"})
	require.NoError(t, err)
	assert.Equal(t, "INICIADO", out.Estado)
	assert.Empty(t, out.Historial)
	assert.Equal(t, "revisar en 30 días", out.AdminGeneral.Observaciones)

	_, err = uc.Annotate(ctx, inspector, a.ID, dto.AnnotateRequest{Observaciones: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Annotate(ctx, adminGeneral, "no-existe", dto.AnnotateRequest{Observaciones: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_Alcance(t *testing.T) {
	uc, _, _ := newUseCase()
	ctx := context.Background()
	a1, err := uc.Create(ctx, permisionario, createRequest())
	require.NoError(t, err)
	_, err = uc.Create(ctx, permisionario, createRequest())
	require.NoError(t, err)
	_, err = uc.Create(ctx, otroPerm, createRequest())
	require.NoError(t, err)
	_, err = uc.Transition(ctx, inspector2, a1.ID, dto.TransitionRequest{EstadoDestino: "EN_INSPECCION"})
	require.NoError(t, err)

	page := dto.PageRequest{}
	own, err := uc.List(ctx, permisionario, dto.Anexo11ListFilter{}, page)
	require.NoError(t, err)
	assert.Equal(t, 2, own.Page.Total)

	pool, err := uc.List(ctx, inspector, dto.Anexo11ListFilter{}, page)
	require.NoError(t, err)
	assert.Equal(t, 2, pool.Page.Total, "solo los INICIADO; el otro está asignado a insp-2")

	asignados, err := uc.List(ctx, inspector2, dto.Anexo11ListFilter{Estado: "EN_INSPECCION"}, page)
	require.NoError(t, err)
	assert.Equal(t, 1, asignados.Page.Total)

	all, err := uc.List(ctx, adminGeneral, dto.Anexo11ListFilter{}, page)
	require.NoError(t, err)
	assert.Equal(t, 3, all.Page.Total)
	assert.Equal(t, dto.DefaultLimit, all.Page.Limit)

	_, err = uc.List(ctx, postulante, dto.Anexo11ListFilter{}, page)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.List(ctx, adminGeneral, dto.Anexo11ListFilter{Estado: "X"}, page)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPDF(t *testing.T) {
	uc, _, _ := newUseCase()
	ctx := context.Background()
	a, err := uc.Create(ctx, permisionario, createRequest())
	require.NoError(t, err)

	b, err := uc.PDF(ctx, permisionario, a.ID)
	require.NoError(t, err)
	assert.Contains(t, string(b), a.ID)

	_, err = uc.PDF(ctx, otroPerm, a.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
