package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
)

func TestAnexo11PDF_GeneraDocumento(t *testing.T) {
	g := NewMarotoPDFGenerator("")
	ahora := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	a := &entity.Anexo11{
		ID:     "5f2b8c1e-0000-4000-8000-000000000001",
		Estado: entity.Anexo11PendienteConformidad,
		Permisionario: entity.Anexo11Permisionario{
			Unidad: "Base Naval", Barrio: "Barrio Norte", Domicilio: "Casa 12",
			Solicita: entity.SolicitaReparacion, Detalle: "Pérdida en el baño",
		},
		Inspector: &entity.Anexo11Inspector{
			Trabajo: "Cambio de flexible", Urgente: true,
			ConCargoA: entity.ConCargoAViviendas, Razon: entity.RazonPreservacion,
		},
		Historial: []entity.HistorialEntry{
			{Fecha: ahora, ActorNombre: "Ana Pérez", ActorRol: "INSPECTOR", Accion: "INICIADO→EN_INSPECCION"},
			{Fecha: ahora.Add(time.Hour), ActorNombre: "Ana Pérez", ActorRol: "INSPECTOR", Accion: "EN_INSPECCION→PENDIENTE_CONFORMIDAD", Comentario: "ok"},
		},
		CreatedAt: ahora,
	}

	out, err := g.Anexo11PDF(context.Background(), a)
	require.NoError(t, err)
	assert.True(t, len(out) > 100)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestAnexo01PDF_GeneraDocumento(t *testing.T) {
	g := NewMarotoPDFGenerator("Dirección de Viviendas")
	p := &entity.Postulacion{
		ID:     "5f2b8c1e-0000-4000-8000-000000000002",
		Tipo:   entity.PostulacionVivienda,
		Estado: entity.PostulacionPendiente,
		Datos: entity.DatosPostulante{
			Nombre: "Juan", Apellido: "Gómez", DNI: "30111222", Matricula: "M-100",
			IngresoMensual: decimal.RequireFromString("850000.5"),
			GrupoFamiliar:  []entity.Familiar{{Nombre: "Laura", Parentesco: "Cónyuge", Edad: 34}},
			Mascotas:       []entity.Mascota{{Especie: "perro", Cantidad: 1}},
			Declaraciones:  entity.Declaraciones{DeclaraVeracidad: true, AceptaReglamento: true},
		},
		Preferencias: entity.Preferencias{Barrios: []string{"Norte"}, DormitoriosMin: 2},
		CreatedAt:    time.Now(),
	}

	out, err := g.Anexo01PDF(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "1.234.567,50", formatMoney(decimal.RequireFromString("1234567.5")))
	assert.Equal(t, "999,00", formatMoney(decimal.NewFromInt(999)))
	assert.Equal(t, "0,00", formatMoney(decimal.Zero))
	assert.Equal(t, "-1.000,00", formatMoney(decimal.NewFromInt(-1000)))
}

func TestShortIDYPrintable(t *testing.T) {
	assert.Equal(t, "5F2B8C1E", shortID("5f2b8c1e-0000"))
	assert.Equal(t, "AB", shortID("ab"))
	assert.Equal(t, "A -> B", printable("A→B"))
}
