// Package comunicacion implementa la mensajería entre permisionarios y el personal, con adjuntos.
package comunicacion

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marianodev72/sitio98plus-sub001/internal/application/dto"
	"github.com/marianodev72/sitio98plus-sub001/internal/application/ports"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/adjunto"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/authz"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/repository"
)

// Upload archivo recibido en el multipart, ya con su content type resuelto.
type Upload struct {
	Nombre      string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// UseCase casos de uso de comunicaciones.
type UseCase struct {
	repo    repository.MensajeRepository
	users   repository.UserRepository
	storage ports.FileStorage
	policy  adjunto.Policy
	now     func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.MensajeRepository, users repository.UserRepository, storage ports.FileStorage, policy adjunto.Policy) *UseCase {
	return &UseCase{repo: repo, users: users, storage: storage, policy: policy, now: time.Now}
}

// Send publica un mensaje. El permisionario escribe a un rol de personal en su propio hilo;
// el personal responde en el hilo del permisionario indicado. Todos los adjuntos se validan
// antes de guardar el primero.
func (uc *UseCase) Send(ctx context.Context, p *authz.Principal, in dto.SendMensajeRequest, uploads []Upload) (*dto.MensajeResponse, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	m := &entity.Mensaje{
		ID:          uuid.New().String(),
		RemitenteID: p.UserID,
		Asunto:      strings.TrimSpace(in.Asunto),
		Cuerpo:      strings.TrimSpace(in.Cuerpo),
		CreatedAt:   uc.now(),
	}
	if err := uc.route(ctx, p, in, m); err != nil {
		return nil, err
	}

	if err := adjunto.ValidateCount(len(uploads), uc.policy); err != nil {
		return nil, err
	}
	for _, u := range uploads {
		if err := adjunto.Validate(u.Nombre, u.ContentType, u.Size, uc.policy); err != nil {
			return nil, err
		}
	}

	stored := make([]string, 0, len(uploads))
	for i, u := range uploads {
		nombre := adjunto.NombreSeguro(u.Nombre)
		key := fmt.Sprintf("comunicaciones/%s/%s/%d-%s", m.PermisionarioID, m.ID, i, nombre)
		if err := uc.storage.Put(ctx, key, u.Reader, u.Size, u.ContentType); err != nil {
			uc.cleanup(ctx, stored)
			return nil, fmt.Errorf("guardar adjunto %q: %w", nombre, err)
		}
		stored = append(stored, key)
		m.Adjuntos = append(m.Adjuntos, entity.Adjunto{
			NombreOriginal: nombre,
			Ruta:           key,
			ContentType:    u.ContentType,
			Tamano:         u.Size,
		})
	}

	if err := uc.repo.Create(ctx, m); err != nil {
		uc.cleanup(ctx, stored)
		return nil, err
	}
	return dto.ToMensajeResponse(m), nil
}

// route completa hilo, rol remitente y rol destinatario según quién envía.
func (uc *UseCase) route(ctx context.Context, p *authz.Principal, in dto.SendMensajeRequest, m *entity.Mensaje) error {
	if p.Role == authz.RolePermisionario {
		if err := authz.Authorize(p, authz.ResourceComunicaciones, authz.ActionCreate); err != nil {
			return err
		}
		dest, ok := authz.ParseRole(in.DestinatarioRol)
		if !ok || !dest.IsStaff() {
			return fmt.Errorf("%w: destinatario_rol debe ser un rol de personal", domain.ErrInvalidInput)
		}
		m.PermisionarioID = p.UserID
		m.RemitenteRol = string(p.Role)
		m.DestinatarioRol = string(dest)
		return nil
	}

	if err := authz.Authorize(p, authz.ResourceComunicaciones, authz.ActionStaff); err != nil {
		return err
	}
	if in.PermisionarioID == "" {
		return fmt.Errorf("%w: permisionario_id es obligatorio al responder", domain.ErrInvalidInput)
	}
	dest, err := uc.users.GetByID(ctx, in.PermisionarioID)
	if err != nil {
		return err
	}
	if dest == nil || dest.Rol != string(authz.RolePermisionario) {
		return fmt.Errorf("%w: permisionario %s", domain.ErrNotFound, in.PermisionarioID)
	}
	m.PermisionarioID = dest.ID
	m.RemitenteRol = string(p.Role)
	m.DestinatarioRol = string(authz.RolePermisionario)
	return nil
}

func (uc *UseCase) cleanup(ctx context.Context, keys []string) {
	for _, k := range keys {
		_ = uc.storage.Delete(ctx, k)
	}
}

// List devuelve el hilo propio (permisionario) o los mensajes hacia/desde el rol del personal.
func (uc *UseCase) List(ctx context.Context, p *authz.Principal, page dto.PageRequest) (*dto.ListResponse[dto.MensajeResponse], error) {
	page.DefaultPage()
	var (
		list  []*entity.Mensaje
		total int
		err   error
	)
	switch {
	case p != nil && p.Role == authz.RolePermisionario:
		if err := authz.Authorize(p, authz.ResourceComunicaciones, authz.ActionReadOwn); err != nil {
			return nil, err
		}
		list, total, err = uc.repo.ListByPermisionario(ctx, p.UserID, page.Limit, page.Offset)
	case p != nil && p.Role == authz.RoleAdmin:
		list, total, err = uc.repo.ListByRol(ctx, "", page.Limit, page.Offset)
	default:
		if err := authz.Authorize(p, authz.ResourceComunicaciones, authz.ActionStaff); err != nil {
			return nil, err
		}
		list, total, err = uc.repo.ListByRol(ctx, string(p.Role), page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.MensajeResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *dto.ToMensajeResponse(m))
	}
	return dto.NewListResponse(items, page, total), nil
}

// Attachment abre el adjunto idx del mensaje. Solo lo descargan las partes del mensaje.
// El llamador debe cerrar el reader.
func (uc *UseCase) Attachment(ctx context.Context, p *authz.Principal, mensajeID string, idx int) (io.ReadCloser, *entity.Adjunto, error) {
	if p == nil || !p.Role.Valid() {
		return nil, nil, domain.ErrUnauthorized
	}
	m, err := uc.repo.GetByID(ctx, mensajeID)
	if err != nil {
		return nil, nil, err
	}
	if m == nil {
		return nil, nil, domain.ErrNotFound
	}
	if !isParty(p, m) {
		return nil, nil, fmt.Errorf("%w: el mensaje pertenece a otro hilo", domain.ErrForbidden)
	}
	if idx < 0 || idx >= len(m.Adjuntos) {
		return nil, nil, fmt.Errorf("%w: adjunto %d", domain.ErrNotFound, idx)
	}
	a := m.Adjuntos[idx]
	rc, err := uc.storage.Get(ctx, a.Ruta)
	if err != nil {
		return nil, nil, err
	}
	return rc, &a, nil
}

func isParty(p *authz.Principal, m *entity.Mensaje) bool {
	switch {
	case p.Role == authz.RoleAdmin:
		return true
	case p.Role == authz.RolePermisionario:
		return m.PermisionarioID == p.UserID
	case p.Role.IsStaff():
		r := string(p.Role)
		return m.DestinatarioRol == r || m.RemitenteRol == r
	default:
		return false
	}
}
