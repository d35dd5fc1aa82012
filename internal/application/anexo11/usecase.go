// Package anexo11 contiene los casos de uso del pedido de mantenimiento (Anexo 11):
// alta por el permisionario, inspección y conformidad final de la administración general.
package anexo11

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marianodev72/sitio98plus-sub001/internal/application/dto"
	"github.com/marianodev72/sitio98plus-sub001/internal/application/ports"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/authz"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/repository"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/workflow"
)

// TransitionRecorder recibe cada transición aplicada (métricas). Puede ser nil.
type TransitionRecorder interface {
	RecordTransition(accion string)
}

// UseCase orquesta el flujo del Anexo 11.
type UseCase struct {
	repo     repository.Anexo11Repository
	users    repository.UserRepository
	pdf      ports.PDFGenerator
	recorder TransitionRecorder
	now      func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.Anexo11Repository, users repository.UserRepository, pdf ports.PDFGenerator, recorder TransitionRecorder) *UseCase {
	return &UseCase{repo: repo, users: users, pdf: pdf, recorder: recorder, now: time.Now}
}

// Create registra un pedido nuevo en estado INICIADO y con historial vacío.
func (uc *UseCase) Create(ctx context.Context, p *authz.Principal, in dto.CreateAnexo11Request) (*dto.Anexo11Response, error) {
	if err := authz.Authorize(p, authz.ResourceAnexo11, authz.ActionCreate); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	pe := in.Permisionario
	now := uc.now()
	a := &entity.Anexo11{
		ID: uuid.New().String(),
		Permisionario: entity.Anexo11Permisionario{
			Unidad:    strings.TrimSpace(pe.Unidad),
			Barrio:    strings.TrimSpace(pe.Barrio),
			Domicilio: strings.TrimSpace(pe.Domicilio),
			Telefono:  strings.TrimSpace(pe.Telefono),
			Solicita:  pe.Solicita,
			Detalle:   strings.TrimSpace(pe.Detalle),
		},
		Estado:    entity.Anexo11Iniciado,
		Historial: []entity.HistorialEntry{},
		CreadoPor: p.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return dto.ToAnexo11Response(a), nil
}

// Get devuelve el pedido si p puede verlo.
func (uc *UseCase) Get(ctx context.Context, p *authz.Principal, id string) (*dto.Anexo11Response, error) {
	a, err := uc.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return dto.ToAnexo11Response(a), nil
}

// List devuelve los pedidos visibles para p: propios (permisionario), pool INICIADO más asignados (inspector) o todos.
func (uc *UseCase) List(ctx context.Context, p *authz.Principal, in dto.Anexo11ListFilter, page dto.PageRequest) (*dto.ListResponse[dto.Anexo11Response], error) {
	filter, err := scopeFor(p)
	if err != nil {
		return nil, err
	}
	if in.Estado != "" {
		if !workflow.Valid(entity.EstadoAnexo11(in.Estado)) {
			return nil, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, in.Estado)
		}
		filter.Estado = entity.EstadoAnexo11(in.Estado)
	}
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.Anexo11Response, 0, len(list))
	for _, a := range list {
		items = append(items, *dto.ToAnexo11Response(a))
	}
	return dto.NewListResponse(items, page, total), nil
}

// Transition avanza el pedido un paso. La verificación del estado persistido y la escritura
// son una única operación condicional en el repositorio: de dos transiciones concurrentes
// desde el mismo estado, solo una se aplica.
func (uc *UseCase) Transition(ctx context.Context, p *authz.Principal, id string, in dto.TransitionRequest) (*dto.Anexo11Response, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	a, err := uc.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	from, to := a.Estado, entity.EstadoAnexo11(in.EstadoDestino)
	if err := workflow.ValidateTransition(from, to); err != nil {
		return nil, err
	}
	if in.EstadoActual != "" && entity.EstadoAnexo11(in.EstadoActual) != from {
		return nil, fmt.Errorf("%w: el pedido está en %s, no en %s", domain.ErrConflict, from, in.EstadoActual)
	}
	if err := authz.AuthorizeTransition(p, from, to); err != nil {
		return nil, err
	}

	now := uc.now()
	t := repository.Anexo11Transition{
		ID:   a.ID,
		From: from,
		To:   to,
		Entry: entity.HistorialEntry{
			Fecha:       now,
			ActorNombre: uc.actorNombre(ctx, p),
			ActorRol:    string(p.Role),
			Accion:      workflow.Accion(from, to),
			Comentario:  strings.TrimSpace(in.Comentario),
		},
		Now: now,
	}
	switch to {
	case entity.Anexo11EnInspeccion:
		t.InspectorID = p.UserID
	case entity.Anexo11PendienteConformidad:
		if p.Role != authz.RoleAdmin && a.InspectorID != p.UserID {
			return nil, fmt.Errorf("%w: el pedido está asignado a otro inspector", domain.ErrForbidden)
		}
		if in.Inspector == nil {
			return nil, fmt.Errorf("%w: el informe del inspector es obligatorio", domain.ErrInvalidInput)
		}
		t.Inspector = &entity.Anexo11Inspector{
			Trabajo:   strings.TrimSpace(in.Inspector.Trabajo),
			Urgente:   in.Inspector.Urgente,
			ConCargoA: in.Inspector.ConCargoA,
			Razon:     in.Inspector.Razon,
		}
		if !entity.ValidConCargoA(t.Inspector.ConCargoA) || !entity.ValidRazon(t.Inspector.Razon) {
			return nil, fmt.Errorf("%w: con_cargo_a o razón fuera de los valores permitidos", domain.ErrInvalidInput)
		}
	case entity.Anexo11Finalizado:
		if in.Observaciones != nil {
			t.AdminGeneral = &entity.Anexo11AdminGeneral{Observaciones: strings.TrimSpace(*in.Observaciones)}
		}
	}

	updated, err := uc.repo.Transition(ctx, t)
	if err != nil {
		return nil, err
	}
	if uc.recorder != nil {
		uc.recorder.RecordTransition(t.Entry.Accion)
	}
	return dto.ToAnexo11Response(updated), nil
}

// Annotate reemplaza las observaciones de la administración general en cualquier estado.
// No modifica estado ni historial.
func (uc *UseCase) Annotate(ctx context.Context, p *authz.Principal, id string, in dto.AnnotateRequest) (*dto.Anexo11Response, error) {
	if err := authz.Authorize(p, authz.ResourceAnexo11, authz.ActionAnnotate); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	updated, err := uc.repo.Annotate(ctx, id, entity.Anexo11AdminGeneral{Observaciones: strings.TrimSpace(in.Observaciones)}, uc.now())
	if err != nil {
		return nil, err
	}
	return dto.ToAnexo11Response(updated), nil
}

// PDF genera la versión imprimible del pedido.
func (uc *UseCase) PDF(ctx context.Context, p *authz.Principal, id string) ([]byte, error) {
	a, err := uc.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return uc.pdf.Anexo11PDF(ctx, a)
}

// load obtiene el pedido y aplica las reglas de visibilidad por rol.
func (uc *UseCase) load(ctx context.Context, p *authz.Principal, id string) (*entity.Anexo11, error) {
	if _, err := scopeFor(p); err != nil {
		return nil, err
	}
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if !canRead(p, a) {
		return nil, fmt.Errorf("%w: sin acceso al pedido", domain.ErrForbidden)
	}
	return a, nil
}

// scopeFor traduce el rol en el filtro de visibilidad; ErrForbidden si el rol no lee pedidos.
func scopeFor(p *authz.Principal) (repository.Anexo11Filter, error) {
	if err := authz.Authorize(p, authz.ResourceAnexo11, authz.ActionReadAll); err == nil {
		if p.Role == authz.RoleInspector {
			return repository.Anexo11Filter{InspectorID: p.UserID}, nil
		}
		return repository.Anexo11Filter{}, nil
	}
	if err := authz.Authorize(p, authz.ResourceAnexo11, authz.ActionReadOwn); err != nil {
		return repository.Anexo11Filter{}, err
	}
	return repository.Anexo11Filter{CreadoPor: p.UserID}, nil
}

func canRead(p *authz.Principal, a *entity.Anexo11) bool {
	f, err := scopeFor(p)
	if err != nil {
		return false
	}
	switch {
	case f.CreadoPor != "":
		return a.CreadoPor == f.CreadoPor
	case f.InspectorID != "":
		return a.Estado == entity.Anexo11Iniciado || a.InspectorID == f.InspectorID
	default:
		return true
	}
}

func (uc *UseCase) actorNombre(ctx context.Context, p *authz.Principal) string {
	if p.Nombre != "" {
		return p.Nombre
	}
	if uc.users != nil {
		if u, err := uc.users.GetByID(ctx, p.UserID); err == nil && u != nil {
			return u.NombreCompleto()
		}
	}
	if p.Email != "" {
		return p.Email
	}
	return p.UserID
}
