package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marianodev72/sitio98plus-sub001/internal/application/dto"
	"github.com/marianodev72/sitio98plus-sub001/internal/application/ports"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/authz"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/repository"
)

// PostulacionUseCase postulaciones de vivienda (Anexo 01).
type PostulacionUseCase struct {
	repo repository.PostulacionRepository
	pdf  ports.PDFGenerator
	now  func() time.Time
}

// NewPostulacionUseCase construye el caso de uso.
func NewPostulacionUseCase(repo repository.PostulacionRepository, pdf ports.PDFGenerator) *PostulacionUseCase {
	return &PostulacionUseCase{repo: repo, pdf: pdf, now: time.Now}
}

// Create registra una postulación PENDIENTE. Un postulante tiene a lo sumo una pendiente por tipo.
func (uc *PostulacionUseCase) Create(ctx context.Context, p *authz.Principal, in dto.CreatePostulacionRequest) (*dto.PostulacionResponse, error) {
	if err := authz.Authorize(p, authz.ResourcePostulaciones, authz.ActionCreate); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Datos.IngresoMensual.IsNegative() {
		return nil, fmt.Errorf("%w: datos.ingreso_mensual no puede ser negativo", domain.ErrInvalidInput)
	}
	dup, err := uc.repo.ExistsPendiente(ctx, p.UserID, in.Tipo)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, fmt.Errorf("%w: ya existe una postulación %s pendiente", domain.ErrDuplicate, in.Tipo)
	}

	now := uc.now()
	post := &entity.Postulacion{
		ID:           uuid.New().String(),
		Tipo:         in.Tipo,
		Datos:        toDatos(in.Datos),
		Preferencias: entity.Preferencias(in.Preferencias),
		Estado:       entity.PostulacionPendiente,
		UsuarioID:    p.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if post.Preferencias.Barrios == nil {
		post.Preferencias.Barrios = []string{}
	}
	if err := uc.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return dto.ToPostulacionResponse(post), nil
}

// List devuelve las postulaciones propias (postulante) o todas (roles de administración).
func (uc *PostulacionUseCase) List(ctx context.Context, p *authz.Principal, f dto.PostulacionListFilter, page dto.PageRequest) (*dto.ListResponse[dto.PostulacionResponse], error) {
	if err := dto.Validate(f); err != nil {
		return nil, err
	}
	filter := repository.PostulacionFilter{Estado: f.Estado, Tipo: f.Tipo}
	if err := authz.Authorize(p, authz.ResourcePostulaciones, authz.ActionReadAll); err != nil {
		if ownErr := authz.Authorize(p, authz.ResourcePostulaciones, authz.ActionReadOwn); ownErr != nil {
			return nil, ownErr
		}
		filter.UsuarioID = p.UserID
	}
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PostulacionResponse, 0, len(list))
	for _, x := range list {
		items = append(items, *dto.ToPostulacionResponse(x))
	}
	return dto.NewListResponse(items, page, total), nil
}

// Get devuelve una postulación al dueño o a los roles de administración.
func (uc *PostulacionUseCase) Get(ctx context.Context, p *authz.Principal, id string) (*dto.PostulacionResponse, error) {
	post, err := uc.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return dto.ToPostulacionResponse(post), nil
}

// Decide aprueba o rechaza una postulación PENDIENTE.
func (uc *PostulacionUseCase) Decide(ctx context.Context, p *authz.Principal, id string, in dto.DecidePostulacionRequest) (*dto.PostulacionResponse, error) {
	if err := authz.Authorize(p, authz.ResourcePostulaciones, authz.ActionDecide); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	post, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("%w: postulación %s", domain.ErrNotFound, id)
	}
	if post.Estado != entity.PostulacionPendiente {
		return nil, fmt.Errorf("%w: la postulación ya está %s", domain.ErrInvalidTransition, post.Estado)
	}
	now := uc.now()
	if err := uc.repo.UpdateEstado(ctx, id, entity.PostulacionPendiente, in.Estado, now); err != nil {
		return nil, err
	}
	post.Estado, post.UpdatedAt = in.Estado, now
	return dto.ToPostulacionResponse(post), nil
}

// PDF genera el Anexo 01 imprimible.
func (uc *PostulacionUseCase) PDF(ctx context.Context, p *authz.Principal, id string) ([]byte, error) {
	post, err := uc.load(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return uc.pdf.Anexo01PDF(ctx, post)
}

func (uc *PostulacionUseCase) load(ctx context.Context, p *authz.Principal, id string) (*entity.Postulacion, error) {
	all := authz.Authorize(p, authz.ResourcePostulaciones, authz.ActionReadAll) == nil
	if !all {
		if err := authz.Authorize(p, authz.ResourcePostulaciones, authz.ActionReadOwn); err != nil {
			return nil, err
		}
	}
	post, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("%w: postulación %s", domain.ErrNotFound, id)
	}
	if !all && post.UsuarioID != p.UserID {
		return nil, fmt.Errorf("%w: la postulación pertenece a otro usuario", domain.ErrForbidden)
	}
	return post, nil
}

func toDatos(d dto.DatosPostulanteDTO) entity.DatosPostulante {
	out := entity.DatosPostulante{
		Nombre: d.Nombre, Apellido: d.Apellido, DNI: d.DNI, Matricula: d.Matricula, Grado: d.Grado,
		Destino: d.Destino, Telefono: d.Telefono, EstadoCivil: d.EstadoCivil, IngresoMensual: d.IngresoMensual,
		GrupoFamiliar: make([]entity.Familiar, 0, len(d.GrupoFamiliar)),
		Mascotas:      make([]entity.Mascota, 0, len(d.Mascotas)),
		Declaraciones: entity.Declaraciones(d.Declaraciones),
	}
	for _, f := range d.GrupoFamiliar {
		out.GrupoFamiliar = append(out.GrupoFamiliar, entity.Familiar(f))
	}
	for _, m := range d.Mascotas {
		out.Mascotas = append(out.Mascotas, entity.Mascota(m))
	}
	return out
}
