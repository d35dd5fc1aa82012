package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/marianodev72/sitio98plus-sub001/internal/application/dto"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/authz"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios: panel de administración y mis datos.
type UserUseCase struct {
	repo      repository.UserRepository
	viviendas repository.ViviendaRepository
	now       func() time.Time
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(repo repository.UserRepository, viviendas repository.ViviendaRepository) *UserUseCase {
	return &UserUseCase{repo: repo, viviendas: viviendas, now: time.Now}
}

// List devuelve usuarios filtrados y paginados. Solo ADMIN.
func (uc *UserUseCase) List(ctx context.Context, p *authz.Principal, f dto.UserListFilter, page dto.PageRequest) (*dto.ListResponse[dto.UserResponse], error) {
	if err := authz.Authorize(p, authz.ResourceUsers, authz.ActionAdmin); err != nil {
		return nil, err
	}
	page.DefaultPage()
	filter := repository.UserFilter{Estado: strings.ToUpper(strings.TrimSpace(f.Estado)), Query: strings.TrimSpace(f.Q)}
	if f.Rol != "" {
		r, ok := authz.ParseRole(f.Rol)
		if !ok {
			return nil, fmt.Errorf("%w: rol %q desconocido", domain.ErrInvalidInput, f.Rol)
		}
		filter.Rol = string(r)
	}
	users, total, err := uc.repo.List(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, *dto.ToUserResponse(u))
	}
	return dto.NewListResponse(items, page, total), nil
}

// UpdateRoleEstado cambia rol y/o estado de un usuario. Solo ADMIN.
func (uc *UserUseCase) UpdateRoleEstado(ctx context.Context, p *authz.Principal, id string, in dto.UpdateRoleEstadoRequest) (*dto.UserResponse, error) {
	if err := authz.Authorize(p, authz.ResourceUsers, authz.ActionAdmin); err != nil {
		return nil, err
	}
	if in.Rol == nil && in.Estado == nil {
		return nil, fmt.Errorf("%w: indicar rol o estado", domain.ErrInvalidInput)
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	if in.Rol != nil {
		r, ok := authz.ParseRole(*in.Rol)
		if !ok {
			return nil, fmt.Errorf("%w: rol %q desconocido", domain.ErrInvalidInput, *in.Rol)
		}
		u.Rol = string(r)
	}
	if in.Estado != nil {
		u.Estado = *in.Estado
	}
	u.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return dto.ToUserResponse(u), nil
}

// GetMisDatos devuelve el usuario autenticado y la vivienda de la que es titular, si tiene.
func (uc *UserUseCase) GetMisDatos(ctx context.Context, p *authz.Principal) (*dto.MisDatosResponse, error) {
	if err := authz.Authorize(p, authz.ResourceMisDatos, authz.ActionReadOwn); err != nil {
		return nil, err
	}
	u, err := uc.repo.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	v, err := uc.viviendas.GetByTitular(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &dto.MisDatosResponse{User: *dto.ToUserResponse(u), Vivienda: dto.ToViviendaResponse(v)}, nil
}

// UpdateMisDatos actualiza los datos editables del propio usuario.
func (uc *UserUseCase) UpdateMisDatos(ctx context.Context, p *authz.Principal, in dto.UpdateMisDatosRequest) (*dto.MisDatosResponse, error) {
	if err := authz.Authorize(p, authz.ResourceMisDatos, authz.ActionUpdateOwn); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	u, err := uc.repo.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&u.Nombre, in.Nombre)
	set(&u.Apellido, in.Apellido)
	set(&u.Telefono, in.Telefono)
	set(&u.Grado, in.Grado)
	u.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return uc.GetMisDatos(ctx, p)
}
