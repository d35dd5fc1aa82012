package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marianodev72/sitio98plus-sub001/internal/application/dto"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/authz"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/repository"
)

// ViviendaUseCase administración de viviendas fiscales.
type ViviendaUseCase struct {
	repo  repository.ViviendaRepository
	users repository.UserRepository
	now   func() time.Time
}

// NewViviendaUseCase construye el caso de uso.
func NewViviendaUseCase(repo repository.ViviendaRepository, users repository.UserRepository) *ViviendaUseCase {
	return &ViviendaUseCase{repo: repo, users: users, now: time.Now}
}

// List lista viviendas con filtros por barrio y estado.
func (uc *ViviendaUseCase) List(ctx context.Context, p *authz.Principal, f dto.ViviendaListFilter, page dto.PageRequest) (*dto.ListResponse[dto.ViviendaResponse], error) {
	if err := authz.Authorize(p, authz.ResourceViviendas, authz.ActionRead); err != nil {
		return nil, err
	}
	if err := dto.Validate(f); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, repository.ViviendaFilter{Barrio: strings.TrimSpace(f.Barrio), Estado: f.Estado}, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ViviendaResponse, 0, len(list))
	for _, v := range list {
		items = append(items, *dto.ToViviendaResponse(v))
	}
	return dto.NewListResponse(items, page, total), nil
}

// Get obtiene una vivienda por ID.
func (uc *ViviendaUseCase) Get(ctx context.Context, p *authz.Principal, id string) (*dto.ViviendaResponse, error) {
	if err := authz.Authorize(p, authz.ResourceViviendas, authz.ActionRead); err != nil {
		return nil, err
	}
	v, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ToViviendaResponse(v), nil
}

// Create da de alta una vivienda disponible. Código repetido → ErrDuplicate.
func (uc *ViviendaUseCase) Create(ctx context.Context, p *authz.Principal, in dto.CreateViviendaRequest) (*dto.ViviendaResponse, error) {
	if err := authz.Authorize(p, authz.ResourceViviendas, authz.ActionManage); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := uc.now()
	v := &entity.Vivienda{
		ID:           uuid.New().String(),
		Codigo:       strings.ToUpper(strings.TrimSpace(in.Codigo)),
		Barrio:       strings.TrimSpace(in.Barrio),
		Unidad:       in.Unidad,
		Edificio:     in.Edificio,
		Piso:         in.Piso,
		Departamento: in.Departamento,
		Dormitorios:  in.Dormitorios,
		Capacidad:    in.Capacidad,
		Estado:       entity.ViviendaDisponible,
		MedidorLuz:   in.MedidorLuz,
		MedidorAgua:  in.MedidorAgua,
		MedidorGas:   in.MedidorGas,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return dto.ToViviendaResponse(v), nil
}

// Update aplica una actualización parcial. Titular y estado no se tocan.
func (uc *ViviendaUseCase) Update(ctx context.Context, p *authz.Principal, id string, in dto.UpdateViviendaRequest) (*dto.ViviendaResponse, error) {
	if err := authz.Authorize(p, authz.ResourceViviendas, authz.ActionManage); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	v, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setStr(&v.Barrio, in.Barrio)
	setStr(&v.Unidad, in.Unidad)
	setStr(&v.Edificio, in.Edificio)
	setStr(&v.Piso, in.Piso)
	setStr(&v.Departamento, in.Departamento)
	setStr(&v.MedidorLuz, in.MedidorLuz)
	setStr(&v.MedidorAgua, in.MedidorAgua)
	setStr(&v.MedidorGas, in.MedidorGas)
	if in.Dormitorios != nil {
		v.Dormitorios = *in.Dormitorios
	}
	if in.Capacidad != nil {
		v.Capacidad = *in.Capacidad
	}
	v.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return uc.Get(ctx, p, id)
}

// AssignTitular asigna un titular a una vivienda disponible.
// ErrConflict si la vivienda está ocupada o el usuario ya es titular de otra.
func (uc *ViviendaUseCase) AssignTitular(ctx context.Context, p *authz.Principal, id string, in dto.AssignTitularRequest) (*dto.ViviendaResponse, error) {
	if err := authz.Authorize(p, authz.ResourceViviendas, authz.ActionManage); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if _, err := uc.load(ctx, id); err != nil {
		return nil, err
	}
	u, err := uc.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := uc.repo.AssignTitular(ctx, id, u.ID, uc.now()); err != nil {
		return nil, err
	}
	return uc.Get(ctx, p, id)
}

// Vacate libera la vivienda.
func (uc *ViviendaUseCase) Vacate(ctx context.Context, p *authz.Principal, id string) (*dto.ViviendaResponse, error) {
	if err := authz.Authorize(p, authz.ResourceViviendas, authz.ActionManage); err != nil {
		return nil, err
	}
	if _, err := uc.load(ctx, id); err != nil {
		return nil, err
	}
	if err := uc.repo.Vacate(ctx, id, uc.now()); err != nil {
		return nil, err
	}
	return uc.Get(ctx, p, id)
}

func (uc *ViviendaUseCase) load(ctx context.Context, id string) (*entity.Vivienda, error) {
	v, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w: vivienda %s", domain.ErrNotFound, id)
	}
	return v, nil
}
