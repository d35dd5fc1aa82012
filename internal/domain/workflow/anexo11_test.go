package workflow_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/workflow"
)

var estados = []entity.EstadoAnexo11{
	entity.Anexo11Iniciado,
	entity.Anexo11EnInspeccion,
	entity.Anexo11PendienteConformidad,
	entity.Anexo11Finalizado,
}

func TestNext_SecuenciaCompleta(t *testing.T) {
	e := entity.Anexo11Iniciado
	var recorrido []entity.EstadoAnexo11
	for {
		recorrido = append(recorrido, e)
		next, ok := workflow.Next(e)
		if !ok {
			break
		}
		e = next
	}
	assert.Equal(t, estados, recorrido)
	assert.True(t, workflow.IsTerminal(e))
}

func TestNext_EstadoDesconocido(t *testing.T) {
	_, ok := workflow.Next("CUALQUIERA")
	assert.False(t, ok)
	assert.False(t, workflow.Valid("CUALQUIERA"))
}

// Solo el sucesor inmediato es legal: cualquier otro par (salto, retroceso, mismo estado) falla.
func TestValidateTransition_TodosLosPares(t *testing.T) {
	for i, from := range estados {
		for j, to := range estados {
			err := workflow.ValidateTransition(from, to)
			if j == i+1 {
				assert.NoError(t, err, "%s → %s debe ser legal", from, to)
				continue
			}
			require.Error(t, err, "%s → %s debe ser ilegal", from, to)
			assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
		}
	}
}

func TestAccion_AristasLegales(t *testing.T) {
	assert.Equal(t, "INICIADO→EN_INSPECCION", workflow.Accion(entity.Anexo11Iniciado, entity.Anexo11EnInspeccion))
	assert.True(t, workflow.IsLegalAccion("EN_INSPECCION→PENDIENTE_CONFORMIDAD"))
	assert.True(t, workflow.IsLegalAccion("PENDIENTE_CONFORMIDAD→FINALIZADO"))
	assert.False(t, workflow.IsLegalAccion("INICIADO→FINALIZADO"))
	assert.False(t, workflow.IsLegalAccion("FINALIZADO→INICIADO"))
}
