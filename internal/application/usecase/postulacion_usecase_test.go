package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marianodev72/sitio98plus-sub001/internal/application/dto"
	"github.com/marianodev72/sitio98plus-sub001/internal/application/usecase"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/authz"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
	"github.com/marianodev72/sitio98plus-sub001/internal/testutil/memstore"
)

var (
	postulante     = &authz.Principal{UserID: "post-1", Role: authz.RolePostulante}
	otroPostulante = &authz.Principal{UserID: "post-2", Role: authz.RolePostulante}
)

func solicitud(tipo string) dto.CreatePostulacionRequest {
	return dto.CreatePostulacionRequest{
		Tipo: tipo,
		Datos: dto.DatosPostulanteDTO{
			Nombre: "Luis", Apellido: "Sosa", DNI: "30111222", Matricula: "M-1234",
			IngresoMensual: decimal.RequireFromString("850000.50"),
			GrupoFamiliar:  []dto.FamiliarDTO{{Nombre: "Marta Sosa", Parentesco: "CONYUGE", Edad: 34}},
			Mascotas:       []dto.MascotaDTO{{Especie: "perro", Cantidad: 1}},
			Declaraciones:  dto.DeclaracionesDTO{DeclaraVeracidad: true, AceptaReglamento: true},
		},
		Preferencias: dto.PreferenciasDTO{Barrios: []string{"Norte"}, DormitoriosMin: 2},
	}
}

func newPostulaciones() (*usecase.PostulacionUseCase, *memstore.Store) {
	s := memstore.New()
	return usecase.NewPostulacionUseCase(s.Postulaciones, memstore.PDF{}), s
}

func TestPostulacionCreate_IdaYVuelta(t *testing.T) {
	uc, _ := newPostulaciones()
	ctx := context.Background()

	out, err := uc.Create(ctx, postulante, solicitud(entity.PostulacionVivienda))
	require.NoError(t, err)
	assert.Equal(t, entity.PostulacionPendiente, out.Estado)
	assert.Equal(t, "post-1", out.UsuarioID)

	got, err := uc.Get(ctx, postulante, out.ID)
	require.NoError(t, err)
	assert.True(t, got.Datos.IngresoMensual.Equal(decimal.RequireFromString("850000.5")))
	require.Len(t, got.Datos.GrupoFamiliar, 1)
	assert.Equal(t, "CONYUGE", got.Datos.GrupoFamiliar[0].Parentesco)
	assert.Equal(t, []string{"Norte"}, got.Preferencias.Barrios)
}

func TestPostulacionCreate_UnaPendientePorTipo(t *testing.T) {
	uc, _ := newPostulaciones()
	ctx := context.Background()
	_, err := uc.Create(ctx, postulante, solicitud(entity.PostulacionVivienda))
	require.NoError(t, err)

	_, err = uc.Create(ctx, postulante, solicitud(entity.PostulacionVivienda))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, postulante, solicitud(entity.PostulacionAlojamiento))
	assert.NoError(t, err)
}

func TestPostulacionCreate_Validaciones(t *testing.T) {
	uc, _ := newPostulaciones()
	ctx := context.Background()

	sinDeclaracion := solicitud(entity.PostulacionVivienda)
	sinDeclaracion.Datos.Declaraciones.AceptaReglamento = false
	_, err := uc.Create(ctx, postulante, sinDeclaracion)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	negativo := solicitud(entity.PostulacionVivienda)
	negativo.Datos.IngresoMensual = decimal.NewFromInt(-1)
	_, err = uc.Create(ctx, postulante, negativo)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, postulante, solicitud("CASA"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, permisionario, solicitud(entity.PostulacionVivienda))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPostulacionListYGet_Alcance(t *testing.T) {
	uc, _ := newPostulaciones()
	ctx := context.Background()
	mia, err := uc.Create(ctx, postulante, solicitud(entity.PostulacionVivienda))
	require.NoError(t, err)
	_, err = uc.Create(ctx, otroPostulante, solicitud(entity.PostulacionVivienda))
	require.NoError(t, err)

	propias, err := uc.List(ctx, postulante, dto.PostulacionListFilter{}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, propias.Page.Total)

	todas, err := uc.List(ctx, administracion, dto.PostulacionListFilter{Estado: "PENDIENTE"}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, todas.Page.Total)

	_, err = uc.Get(ctx, otroPostulante, mia.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Get(ctx, administracion, mia.ID)
	assert.NoError(t, err)
	_, err = uc.List(ctx, jefeBarrio, dto.PostulacionListFilter{}, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPostulacionDecide_SoloDesdePendiente(t *testing.T) {
	uc, _ := newPostulaciones()
	ctx := context.Background()
	p, err := uc.Create(ctx, postulante, solicitud(entity.PostulacionVivienda))
	require.NoError(t, err)

	_, err = uc.Decide(ctx, postulante, p.ID, dto.DecidePostulacionRequest{Estado: "APROBADO"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Decide(ctx, administracion, p.ID, dto.DecidePostulacionRequest{Estado: "PENDIENTE"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := uc.Decide(ctx, administracion, p.ID, dto.DecidePostulacionRequest{Estado: "APROBADO"})
	require.NoError(t, err)
	assert.Equal(t, entity.PostulacionAprobada, out.Estado)

	_, err = uc.Decide(ctx, administracion, p.ID, dto.DecidePostulacionRequest{Estado: "RECHAZADO"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Aprobada la anterior, puede volver a postular al mismo tipo.
	_, err = uc.Create(ctx, postulante, solicitud(entity.PostulacionVivienda))
	assert.NoError(t, err)
}

func TestPostulacionPDF(t *testing.T) {
	uc, _ := newPostulaciones()
	ctx := context.Background()
	p, err := uc.Create(ctx, postulante, solicitud(entity.PostulacionVivienda))
	require.NoError(t, err)

	b, err := uc.PDF(ctx, postulante, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-anexo01-"+p.ID, string(b))

	_, err = uc.PDF(ctx, otroPostulante, p.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
