// Package analytics contiene los casos de uso del tablero de administración.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/marianodev72/sitio98plus-sub001/internal/application/dto"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/authz"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/repository"
)

// DashboardUseCase arma el resumen de conteos del portal.
//
// Fuente de datos: DashboardRepository (consultas read-only).
type DashboardUseCase struct {
	repo repository.DashboardRepository
	now  func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cuatro consultas en paralelo:
//  1. usuarios por rol
//  2. viviendas por estado
//  3. postulaciones por estado
//  4. Anexo 11 por estado
func (uc *DashboardUseCase) GetSummary(ctx context.Context, p *authz.Principal) (*dto.DashboardSummaryDTO, error) {
	if err := authz.Authorize(p, authz.ResourceDashboard, authz.ActionRead); err != nil {
		return nil, err
	}

	type countResult struct {
		counts map[string]int
		err    error
	}
	run := func(fn func(context.Context) (map[string]int, error)) <-chan countResult {
		ch := make(chan countResult, 1)
		go func() {
			m, err := fn(ctx)
			ch <- countResult{m, err}
		}()
		return ch
	}

	usersCh := run(uc.repo.CountUsersByRol)
	viviendasCh := run(uc.repo.CountViviendasByEstado)
	postCh := run(uc.repo.CountPostulacionesByEstado)
	anexoCh := run(uc.repo.CountAnexo11ByEstado)

	users, viviendas, post, anexo := <-usersCh, <-viviendasCh, <-postCh, <-anexoCh

	if users.err != nil {
		return nil, fmt.Errorf("dashboard: usuarios: %w", users.err)
	}
	if viviendas.err != nil {
		return nil, fmt.Errorf("dashboard: viviendas: %w", viviendas.err)
	}
	if post.err != nil {
		return nil, fmt.Errorf("dashboard: postulaciones: %w", post.err)
	}
	if anexo.err != nil {
		return nil, fmt.Errorf("dashboard: anexo 11: %w", anexo.err)
	}

	out := &dto.DashboardSummaryDTO{
		UsuariosPorRol:          nonNil(users.counts),
		ViviendasPorEstado:      nonNil(viviendas.counts),
		PostulacionesPorEstado:  nonNil(post.counts),
		Anexo11PorEstado:        nonNil(anexo.counts),
		PostulacionesPendientes: post.counts[entity.PostulacionPendiente],
		GeneradoEn:              uc.now(),
	}
	for _, n := range out.UsuariosPorRol {
		out.TotalUsuarios += n
	}
	for estado, n := range out.Anexo11PorEstado {
		if estado != string(entity.Anexo11Finalizado) {
			out.Anexo11Abiertos += n
		}
	}
	return out, nil
}

func nonNil(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}
