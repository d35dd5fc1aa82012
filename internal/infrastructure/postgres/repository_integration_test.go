package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/repository"
	"github.com/marianodev72/sitio98plus-sub001/pkg/config"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("integración con PostgreSQL omitida en modo -short")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("portal"),
		tcpostgres.WithUsername("portal"),
		tcpostgres.WithPassword("portal"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("no se pudo iniciar PostgreSQL (¿Docker disponible?): %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminar contenedor: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	version, err := Migrate(pool)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	return pool
}

func insertUser(t *testing.T, pool *pgxpool.Pool, rol string) *entity.User {
	t.Helper()
	now := time.Now().UTC()
	u := &entity.User{
		ID: uuid.New().String(), Email: uuid.NewString()[:8] + "@Portal.test", PasswordHash: "x",
		Rol: rol, Estado: entity.UserEstadoActivo, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, NewUserRepository(pool).Create(context.Background(), u))
	return u
}

func TestUserRepo_EmailUnicoSinMayusculas(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(pool)
	u := insertUser(t, pool, "PERMISIONARIO")

	got, err := repo.GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	dup := *u
	dup.ID = uuid.New().String()
	assert.ErrorIs(t, repo.Create(ctx, &dup), domain.ErrEmailAlreadyExists)

	missing, err := repo.GetByID(ctx, uuid.New().String())
	require.NoError(t, err)
	assert.Nil(t, missing)

	malformed, err := repo.GetByID(ctx, "no-es-uuid")
	require.NoError(t, err)
	assert.Nil(t, malformed)
}

func TestGetByID_IDMalformadoEsInexistente(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	a, err := NewAnexo11Repository(pool).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, a)
	v, err := NewViviendaRepository(pool).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, v)
	p, err := NewPostulacionRepository(pool).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, p)
	m, err := NewMensajeRepository(pool).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, m)
}

// Dos inspectores intentan tomar el mismo pedido a la vez: exactamente uno gana
// y el historial queda con una sola entrada.
func TestAnexo11Repo_TransicionConcurrente(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewAnexo11Repository(pool)
	perm := insertUser(t, pool, "PERMISIONARIO")
	inspectores := []*entity.User{insertUser(t, pool, "INSPECTOR"), insertUser(t, pool, "INSPECTOR")}

	now := time.Now().UTC()
	a := &entity.Anexo11{
		ID:            uuid.New().String(),
		Permisionario: entity.Anexo11Permisionario{Unidad: "U1", Barrio: "Norte", Domicilio: "Calle 1", Solicita: entity.SolicitaReparacion, Detalle: "pérdida"},
		Estado:        entity.Anexo11Iniciado,
		CreadoPor:     perm.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, repo.Create(ctx, a))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		conflict int
	)
	for _, insp := range inspectores {
		wg.Add(1)
		go func(inspID string) {
			defer wg.Done()
			_, err := repo.Transition(ctx, repository.Anexo11Transition{
				ID: a.ID, From: entity.Anexo11Iniciado, To: entity.Anexo11EnInspeccion, InspectorID: inspID,
				Entry: entity.HistorialEntry{Fecha: now, ActorNombre: inspID, ActorRol: "INSPECTOR", Accion: "INICIADO→EN_INSPECCION"},
				Now:   now,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrConflict):
				conflict++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}(insp.ID)
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflict)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.Anexo11EnInspeccion, got.Estado)
	require.Len(t, got.Historial, 1)
	assert.Equal(t, got.InspectorID, got.Historial[0].ActorNombre)
	assert.Nil(t, got.Inspector)

	bloque := &entity.Anexo11Inspector{Trabajo: "cambiar cañería", Urgente: true, ConCargoA: entity.ConCargoAViviendas, Razon: entity.RazonPreservacion}
	got, err = repo.Transition(ctx, repository.Anexo11Transition{
		ID: a.ID, From: entity.Anexo11EnInspeccion, To: entity.Anexo11PendienteConformidad, Inspector: bloque,
		Entry: entity.HistorialEntry{Fecha: now, ActorNombre: "insp", ActorRol: "INSPECTOR", Accion: "EN_INSPECCION→PENDIENTE_CONFORMIDAD"},
		Now:   now,
	})
	require.NoError(t, err)
	require.NotNil(t, got.Inspector)
	assert.Equal(t, *bloque, *got.Inspector)
	assert.Len(t, got.Historial, 2)
	assert.NotEmpty(t, got.InspectorID, "la segunda arista no borra el inspector asignado")
}

func TestViviendaRepo_UnTitularPorViviendaYUnaViviendaPorTitular(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewViviendaRepository(pool)
	a, b := insertUser(t, pool, "PERMISIONARIO"), insertUser(t, pool, "PERMISIONARIO")

	now := time.Now().UTC()
	v1 := &entity.Vivienda{ID: uuid.New().String(), Codigo: "N-1", Barrio: "Norte", Estado: entity.ViviendaDisponible, CreatedAt: now, UpdatedAt: now}
	v2 := &entity.Vivienda{ID: uuid.New().String(), Codigo: "N-2", Barrio: "Norte", Estado: entity.ViviendaDisponible, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, v1))
	require.NoError(t, repo.Create(ctx, v2))
	assert.ErrorIs(t, repo.Create(ctx, &entity.Vivienda{ID: uuid.New().String(), Codigo: "N-1", Barrio: "Sur", Estado: entity.ViviendaDisponible, CreatedAt: now, UpdatedAt: now}), domain.ErrDuplicate)

	require.NoError(t, repo.AssignTitular(ctx, v1.ID, a.ID, now))
	assert.ErrorIs(t, repo.AssignTitular(ctx, v1.ID, b.ID, now), domain.ErrConflict)
	assert.ErrorIs(t, repo.AssignTitular(ctx, v2.ID, a.ID, now), domain.ErrConflict)

	got, err := repo.GetByTitular(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "N-1", got.Codigo)
	assert.Equal(t, entity.ViviendaOcupada, got.Estado)

	// El upsert de importación no pisa titular ni estado.
	require.NoError(t, repo.Upsert(ctx, &entity.Vivienda{ID: uuid.New().String(), Codigo: "N-1", Barrio: "Norte", Dormitorios: 3, Estado: entity.ViviendaDisponible, CreatedAt: now, UpdatedAt: now}))
	got, err = repo.GetByID(ctx, v1.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Dormitorios)
	assert.Equal(t, a.ID, got.TitularID)

	require.NoError(t, repo.Vacate(ctx, v1.ID, now))
	require.NoError(t, repo.AssignTitular(ctx, v2.ID, a.ID, now))
}

func TestPostulacionRepo_PendienteUnicaEIngresoDecimal(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewPostulacionRepository(pool)
	u := insertUser(t, pool, "POSTULANTE")

	now := time.Now().UTC()
	nueva := func() *entity.Postulacion {
		return &entity.Postulacion{
			ID: uuid.New().String(), Tipo: entity.PostulacionVivienda, Estado: entity.PostulacionPendiente, UsuarioID: u.ID,
			Datos:     entity.DatosPostulante{Nombre: "Luis", IngresoMensual: decimal.RequireFromString("1234.56"), GrupoFamiliar: []entity.Familiar{}, Mascotas: []entity.Mascota{}},
			CreatedAt: now, UpdatedAt: now,
		}
	}
	p := nueva()
	require.NoError(t, repo.Create(ctx, p))
	assert.ErrorIs(t, repo.Create(ctx, nueva()), domain.ErrDuplicate)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Datos.IngresoMensual.Equal(decimal.RequireFromString("1234.56")))

	require.NoError(t, repo.UpdateEstado(ctx, p.ID, entity.PostulacionPendiente, entity.PostulacionAprobada, now))
	assert.ErrorIs(t, repo.UpdateEstado(ctx, p.ID, entity.PostulacionPendiente, entity.PostulacionRechazada, now), domain.ErrConflict)
	require.NoError(t, repo.Create(ctx, nueva()))
}

func TestPrePostulanteRepo_UpsertReiniciaIntentosYPurga(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewPrePostulanteRepository(pool)
	now := time.Now().UTC()

	rec := &entity.PrePostulante{
		ID: uuid.New().String(), Nombre: "Ana", Apellido: "Paz", Matricula: "M-1", DNI: "30111222",
		Email: "ana@portal.test", PasswordHash: "h", Codigo: "123456", ExpiraEn: now.Add(15 * time.Minute), CreatedAt: now,
	}
	require.NoError(t, repo.Upsert(ctx, rec))
	n, err := repo.IncrementIntentos(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	again := *rec
	again.ID = uuid.New().String()
	again.Codigo = "654321"
	require.NoError(t, repo.Upsert(ctx, &again))
	assert.Equal(t, rec.ID, again.ID, "el upsert conserva el id del registro existente")

	got, err := repo.GetByEmail(ctx, rec.Email)
	require.NoError(t, err)
	assert.Equal(t, "654321", got.Codigo)
	assert.Zero(t, got.Intentos)

	purged, err := repo.DeleteExpired(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestPrePostulanteRepo_UnRegistroPorMatricula(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewPrePostulanteRepository(pool)
	now := time.Now().UTC()
	rec := func(email string) *entity.PrePostulante {
		return &entity.PrePostulante{
			ID: uuid.New().String(), Nombre: "Ana", Apellido: "Paz", Matricula: "M-9", DNI: "30111222",
			Email: email, PasswordHash: "h", Codigo: "123456", ExpiraEn: now.Add(15 * time.Minute), CreatedAt: now,
		}
	}

	require.NoError(t, repo.Upsert(ctx, rec("a@portal.test")))
	assert.ErrorIs(t, repo.Upsert(ctx, rec("b@portal.test")), domain.ErrConflict)

	// Altas simultáneas con la misma matrícula: nunca quedan dos registros vivos.
	runner := NewTxRunner(pool)
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := fmt.Sprintf("c%d@portal.test", i)
			errs[i] = runner.RunRegistro(ctx, func(pre repository.PrePostulanteRepository, _ repository.UserRepository) error {
				if err := pre.DeleteByMatriculaExceptEmail(ctx, "M-9", email); err != nil {
					return err
				}
				return pre.Upsert(ctx, rec(email))
			})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrConflict)
	}
	assert.GreaterOrEqual(t, ok, 1)

	var n int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM pre_postulantes WHERE matricula = 'M-9'`).Scan(&n))
	assert.Equal(t, 1, n)
}
