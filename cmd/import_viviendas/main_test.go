package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
	"github.com/marianodev72/sitio98plus-sub001/internal/testutil/memstore"
)

func TestParse_ColumnasEnCualquierOrden(t *testing.T) {
	raw := []byte("barrio;Codigo;dormitorios;capacidad\nCentro;a-101;3;5\n;;;\nNorte;B-7;;\n")
	rows, err := parse(raw, time.Now())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A-101", rows[0].Codigo)
	assert.Equal(t, "Centro", rows[0].Barrio)
	assert.Equal(t, 3, rows[0].Dormitorios)
	assert.Equal(t, 5, rows[0].Capacidad)
	assert.Equal(t, entity.ViviendaDisponible, rows[1].Estado)
	assert.Zero(t, rows[1].Dormitorios)
}

func TestParse_Latin1(t *testing.T) {
	// "Peñaloza" en ISO-8859-1
	raw := []byte("codigo,barrio\nC-1,Pe\xf1aloza\n")
	rows, err := parse(raw, time.Now())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Peñaloza", rows[0].Barrio)
}

func TestParse_Errores(t *testing.T) {
	casos := map[string]string{
		"vacío":          "",
		"sin barrio":     "codigo,unidad\nA,B\n",
		"repetido":       "codigo,barrio\nA,X\na,Y\n",
		"dormitorios":    "codigo,barrio,dormitorios\nA,X,tres\n",
		"falta obligado": "codigo,barrio\n,X\n",
	}
	for nombre, raw := range casos {
		_, err := parse([]byte(raw), time.Now())
		assert.Error(t, err, nombre)
	}
}

func TestLoad_UpsertConservaTitular(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, s.Viviendas.Create(ctx, &entity.Vivienda{
		ID: "00000000-0000-4000-8000-000000000010", Codigo: "A-101", Barrio: "Viejo",
		Estado: entity.ViviendaOcupada, TitularID: "00000000-0000-4000-8000-000000000001",
	}))

	rows, err := parse([]byte("codigo,barrio\nA-101,Centro\nB-2,Norte\n"), now)
	require.NoError(t, err)
	n, err := load(ctx, s.Viviendas, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	v, err := s.Viviendas.GetByID(ctx, "00000000-0000-4000-8000-000000000010")
	require.NoError(t, err)
	assert.Equal(t, "Centro", v.Barrio)
	assert.Equal(t, entity.ViviendaOcupada, v.Estado)
	assert.Equal(t, "00000000-0000-4000-8000-000000000001", v.TitularID)
}
