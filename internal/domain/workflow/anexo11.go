// Package workflow define la máquina de estados del Anexo 11:
// INICIADO → EN_INSPECCION → PENDIENTE_CONFORMIDAD → FINALIZADO, sin saltos ni retrocesos.
package workflow

import (
	"fmt"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
)

// secuencia es el único orden legal de estados.
var secuencia = []entity.EstadoAnexo11{
	entity.Anexo11Iniciado,
	entity.Anexo11EnInspeccion,
	entity.Anexo11PendienteConformidad,
	entity.Anexo11Finalizado,
}

// Valid indica si e es un estado conocido.
func Valid(e entity.EstadoAnexo11) bool {
	return indexOf(e) >= 0
}

// Next devuelve el sucesor inmediato de e. ok es false si e es terminal o desconocido.
func Next(e entity.EstadoAnexo11) (entity.EstadoAnexo11, bool) {
	i := indexOf(e)
	if i < 0 || i == len(secuencia)-1 {
		return "", false
	}
	return secuencia[i+1], true
}

// IsTerminal indica si e no admite más transiciones.
func IsTerminal(e entity.EstadoAnexo11) bool {
	return e == entity.Anexo11Finalizado
}

// ValidateTransition exige que to sea exactamente el sucesor de from.
func ValidateTransition(from, to entity.EstadoAnexo11) error {
	next, ok := Next(from)
	if !ok || next != to {
		return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, from, to)
	}
	return nil
}

// Accion es el texto que se registra en el historial para la arista from→to.
func Accion(from, to entity.EstadoAnexo11) string {
	return string(from) + "→" + string(to)
}

// IsLegalAccion indica si accion corresponde a una arista del grafo.
func IsLegalAccion(accion string) bool {
	for i := 0; i < len(secuencia)-1; i++ {
		if Accion(secuencia[i], secuencia[i+1]) == accion {
			return true
		}
	}
	return false
}

func indexOf(e entity.EstadoAnexo11) int {
	for i, s := range secuencia {
		if s == e {
			return i
		}
	}
	return -1
}
