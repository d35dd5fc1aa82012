// Package memstore implementa los repositorios en memoria para tests de casos de uso y handlers.
// Respeta las mismas garantías que PostgreSQL: unicidad, compare-and-swap de estados y (nil, nil) si no existe.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/repository"
)

var (
	_ repository.UserRepository          = (*Store)(nil)
	_ repository.PrePostulanteRepository = (*PreStore)(nil)
	_ repository.Anexo11Repository       = (*Anexo11Store)(nil)
	_ repository.ViviendaRepository      = (*ViviendaStore)(nil)
	_ repository.PostulacionRepository   = (*PostulacionStore)(nil)
	_ repository.MensajeRepository       = (*MensajeStore)(nil)
	_ repository.DashboardRepository     = (*Store)(nil)
)

// Store agrupa todas las colecciones bajo un único mutex.
type Store struct {
	mu            sync.Mutex
	users         map[string]*entity.User
	pre           map[string]*entity.PrePostulante
	anexos        map[string]*entity.Anexo11
	viviendas     map[string]*entity.Vivienda
	postulaciones map[string]*entity.Postulacion
	mensajes      map[string]*entity.Mensaje

	Pre           *PreStore
	Anexo11       *Anexo11Store
	Viviendas     *ViviendaStore
	Postulaciones *PostulacionStore
	Mensajes      *MensajeStore
}

// New crea un store vacío.
func New() *Store {
	s := &Store{
		users:         map[string]*entity.User{},
		pre:           map[string]*entity.PrePostulante{},
		anexos:        map[string]*entity.Anexo11{},
		viviendas:     map[string]*entity.Vivienda{},
		postulaciones: map[string]*entity.Postulacion{},
		mensajes:      map[string]*entity.Mensaje{},
	}
	s.Pre = &PreStore{s: s}
	s.Anexo11 = &Anexo11Store{s: s}
	s.Viviendas = &ViviendaStore{s: s}
	s.Postulaciones = &PostulacionStore{s: s}
	s.Mensajes = &MensajeStore{s: s}
	return s
}

// RunRegistro ejecuta fn y, si falla, restaura usuarios y pre-registros como estaban (rollback).
func (s *Store) RunRegistro(ctx context.Context, fn func(pre repository.PrePostulanteRepository, users repository.UserRepository) error) error {
	s.mu.Lock()
	users, pre := cloneMap(s.users), cloneMap(s.pre)
	s.mu.Unlock()

	if err := fn(s.Pre, s); err != nil {
		s.mu.Lock()
		s.users, s.pre = users, pre
		s.mu.Unlock()
		return err
	}
	return nil
}

func cloneMap[T any](m map[string]*T) map[string]*T {
	out := make(map[string]*T, len(m))
	for k, v := range m {
		c := *v
		out[k] = &c
	}
	return out
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// ── Users ─────────────────────────────────────────────────────────────────────

func (s *Store) Create(ctx context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.users {
		if u.Email != "" && x.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	c := *u
	s.users[u.ID] = &c
	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (s *Store) Update(ctx context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	c := *u
	s.users[u.ID] = &c
	return nil
}

func (s *Store) List(ctx context.Context, f repository.UserFilter, limit, offset int) ([]*entity.User, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(f.Query)
	var out []*entity.User
	for _, u := range s.users {
		if f.Rol != "" && u.Rol != f.Rol || f.Estado != "" && u.Estado != f.Estado {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(u.Nombre+" "+u.Apellido+" "+u.Email+" "+u.Matricula), q) {
			continue
		}
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), len(out), nil
}

// ── Dashboard ─────────────────────────────────────────────────────────────────

func (s *Store) CountUsersByRol(ctx context.Context) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := map[string]int{}
	for _, u := range s.users {
		m[u.Rol]++
	}
	return m, nil
}

func (s *Store) CountViviendasByEstado(ctx context.Context) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := map[string]int{}
	for _, v := range s.viviendas {
		m[v.Estado]++
	}
	return m, nil
}

func (s *Store) CountPostulacionesByEstado(ctx context.Context) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := map[string]int{}
	for _, p := range s.postulaciones {
		m[p.Estado]++
	}
	return m, nil
}

func (s *Store) CountAnexo11ByEstado(ctx context.Context) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := map[string]int{}
	for _, a := range s.anexos {
		m[string(a.Estado)]++
	}
	return m, nil
}

// ── PrePostulante ─────────────────────────────────────────────────────────────

// PreStore registros provisorios indexados por email.
type PreStore struct{ s *Store }

func (p *PreStore) Upsert(ctx context.Context, rec *entity.PrePostulante) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	for _, r := range p.s.pre {
		if r.Matricula == rec.Matricula && r.Email != rec.Email {
			return domain.ErrConflict
		}
	}
	c := *rec
	c.Intentos = 0
	c.Verificado = false
	p.s.pre[rec.Email] = &c
	return nil
}

func (p *PreStore) DeleteByMatriculaExceptEmail(ctx context.Context, matricula, email string) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	for k, r := range p.s.pre {
		if r.Matricula == matricula && r.Email != email {
			delete(p.s.pre, k)
		}
	}
	return nil
}

func (p *PreStore) GetByEmail(ctx context.Context, email string) (*entity.PrePostulante, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if r, ok := p.s.pre[email]; ok {
		c := *r
		return &c, nil
	}
	return nil, nil
}

func (p *PreStore) IncrementIntentos(ctx context.Context, id string) (int, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	for _, r := range p.s.pre {
		if r.ID == id {
			r.Intentos++
			return r.Intentos, nil
		}
	}
	return 0, domain.ErrNotFound
}

func (p *PreStore) Delete(ctx context.Context, id string) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	for k, r := range p.s.pre {
		if r.ID == id {
			delete(p.s.pre, k)
		}
	}
	return nil
}

func (p *PreStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	var n int64
	for k, r := range p.s.pre {
		if r.Expired(now) {
			delete(p.s.pre, k)
			n++
		}
	}
	return n, nil
}

// Len cantidad de pre-registros almacenados.
func (p *PreStore) Len() int {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	return len(p.s.pre)
}

// ── Anexo11 ───────────────────────────────────────────────────────────────────

// Anexo11Store pedidos de mantenimiento.
type Anexo11Store struct{ s *Store }

func cloneAnexo(a *entity.Anexo11) *entity.Anexo11 {
	c := *a
	c.Historial = append([]entity.HistorialEntry(nil), a.Historial...)
	if a.Inspector != nil {
		i := *a.Inspector
		c.Inspector = &i
	}
	if a.AdminGeneral != nil {
		ag := *a.AdminGeneral
		c.AdminGeneral = &ag
	}
	return &c
}

func (st *Anexo11Store) Create(ctx context.Context, a *entity.Anexo11) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	st.s.anexos[a.ID] = cloneAnexo(a)
	return nil
}

func (st *Anexo11Store) GetByID(ctx context.Context, id string) (*entity.Anexo11, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if a, ok := st.s.anexos[id]; ok {
		return cloneAnexo(a), nil
	}
	return nil, nil
}

func (st *Anexo11Store) List(ctx context.Context, f repository.Anexo11Filter, limit, offset int) ([]*entity.Anexo11, int, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	var out []*entity.Anexo11
	for _, a := range st.s.anexos {
		if f.CreadoPor != "" && a.CreadoPor != f.CreadoPor {
			continue
		}
		if f.InspectorID != "" && a.Estado != entity.Anexo11Iniciado && a.InspectorID != f.InspectorID {
			continue
		}
		if f.Estado != "" && a.Estado != f.Estado {
			continue
		}
		out = append(out, cloneAnexo(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), len(out), nil
}

func (st *Anexo11Store) Transition(ctx context.Context, t repository.Anexo11Transition) (*entity.Anexo11, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	a, ok := st.s.anexos[t.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if a.Estado != t.From {
		return nil, domain.ErrConflict
	}
	a.Estado = t.To
	a.Historial = append(a.Historial, t.Entry)
	if t.InspectorID != "" {
		a.InspectorID = t.InspectorID
	}
	if t.Inspector != nil {
		i := *t.Inspector
		a.Inspector = &i
	}
	if t.AdminGeneral != nil {
		ag := *t.AdminGeneral
		a.AdminGeneral = &ag
	}
	a.UpdatedAt = t.Now
	return cloneAnexo(a), nil
}

func (st *Anexo11Store) Annotate(ctx context.Context, id string, obs entity.Anexo11AdminGeneral, now time.Time) (*entity.Anexo11, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	a, ok := st.s.anexos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	a.AdminGeneral = &obs
	a.UpdatedAt = now
	return cloneAnexo(a), nil
}

// ── Vivienda ──────────────────────────────────────────────────────────────────

// ViviendaStore viviendas con unicidad de código y de titular.
type ViviendaStore struct{ s *Store }

func (st *ViviendaStore) Create(ctx context.Context, v *entity.Vivienda) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	for _, x := range st.s.viviendas {
		if x.Codigo == v.Codigo {
			return domain.ErrDuplicate
		}
	}
	c := *v
	st.s.viviendas[v.ID] = &c
	return nil
}

func (st *ViviendaStore) Upsert(ctx context.Context, v *entity.Vivienda) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	for _, x := range st.s.viviendas {
		if x.Codigo == v.Codigo {
			titular, estado, id, created := x.TitularID, x.Estado, x.ID, x.CreatedAt
			*x = *v
			x.ID, x.TitularID, x.Estado, x.CreatedAt = id, titular, estado, created
			return nil
		}
	}
	c := *v
	st.s.viviendas[v.ID] = &c
	return nil
}

func (st *ViviendaStore) GetByID(ctx context.Context, id string) (*entity.Vivienda, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if v, ok := st.s.viviendas[id]; ok {
		c := *v
		return &c, nil
	}
	return nil, nil
}

func (st *ViviendaStore) GetByTitular(ctx context.Context, userID string) (*entity.Vivienda, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	for _, v := range st.s.viviendas {
		if v.TitularID == userID {
			c := *v
			return &c, nil
		}
	}
	return nil, nil
}

func (st *ViviendaStore) Update(ctx context.Context, v *entity.Vivienda) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	x, ok := st.s.viviendas[v.ID]
	if !ok {
		return domain.ErrNotFound
	}
	titular, estado := x.TitularID, x.Estado
	c := *v
	c.TitularID, c.Estado = titular, estado
	st.s.viviendas[v.ID] = &c
	return nil
}

func (st *ViviendaStore) List(ctx context.Context, f repository.ViviendaFilter, limit, offset int) ([]*entity.Vivienda, int, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	var out []*entity.Vivienda
	for _, v := range st.s.viviendas {
		if f.Barrio != "" && v.Barrio != f.Barrio || f.Estado != "" && v.Estado != f.Estado {
			continue
		}
		c := *v
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return page(out, limit, offset), len(out), nil
}

func (st *ViviendaStore) AssignTitular(ctx context.Context, id, userID string, now time.Time) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	v, ok := st.s.viviendas[id]
	if !ok {
		return domain.ErrNotFound
	}
	if v.TitularID != "" {
		return domain.ErrConflict
	}
	for _, x := range st.s.viviendas {
		if x.TitularID == userID {
			return domain.ErrConflict
		}
	}
	v.TitularID, v.Estado, v.UpdatedAt = userID, entity.ViviendaOcupada, now
	return nil
}

func (st *ViviendaStore) Vacate(ctx context.Context, id string, now time.Time) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	v, ok := st.s.viviendas[id]
	if !ok {
		return domain.ErrNotFound
	}
	v.TitularID, v.Estado, v.UpdatedAt = "", entity.ViviendaDisponible, now
	return nil
}

// ── Postulacion ───────────────────────────────────────────────────────────────

// PostulacionStore postulaciones.
type PostulacionStore struct{ s *Store }

func (st *PostulacionStore) Create(ctx context.Context, p *entity.Postulacion) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	c := *p
	st.s.postulaciones[p.ID] = &c
	return nil
}

func (st *PostulacionStore) GetByID(ctx context.Context, id string) (*entity.Postulacion, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if p, ok := st.s.postulaciones[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (st *PostulacionStore) List(ctx context.Context, f repository.PostulacionFilter, limit, offset int) ([]*entity.Postulacion, int, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	var out []*entity.Postulacion
	for _, p := range st.s.postulaciones {
		if f.UsuarioID != "" && p.UsuarioID != f.UsuarioID {
			continue
		}
		if f.Estado != "" && p.Estado != f.Estado || f.Tipo != "" && p.Tipo != f.Tipo {
			continue
		}
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), len(out), nil
}

func (st *PostulacionStore) UpdateEstado(ctx context.Context, id, from, to string, now time.Time) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	p, ok := st.s.postulaciones[id]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Estado != from {
		return domain.ErrConflict
	}
	p.Estado, p.UpdatedAt = to, now
	return nil
}

func (st *PostulacionStore) ExistsPendiente(ctx context.Context, usuarioID, tipo string) (bool, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	for _, p := range st.s.postulaciones {
		if p.UsuarioID == usuarioID && p.Tipo == tipo && p.Estado == entity.PostulacionPendiente {
			return true, nil
		}
	}
	return false, nil
}

// ── Mensaje ───────────────────────────────────────────────────────────────────

// MensajeStore comunicaciones append-only.
type MensajeStore struct{ s *Store }

func (st *MensajeStore) Create(ctx context.Context, m *entity.Mensaje) error {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	c := *m
	c.Adjuntos = append([]entity.Adjunto(nil), m.Adjuntos...)
	st.s.mensajes[m.ID] = &c
	return nil
}

func (st *MensajeStore) GetByID(ctx context.Context, id string) (*entity.Mensaje, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	if m, ok := st.s.mensajes[id]; ok {
		c := *m
		return &c, nil
	}
	return nil, nil
}

func (st *MensajeStore) ListByPermisionario(ctx context.Context, permisionarioID string, limit, offset int) ([]*entity.Mensaje, int, error) {
	return st.list(func(m *entity.Mensaje) bool { return m.PermisionarioID == permisionarioID }, limit, offset)
}

func (st *MensajeStore) ListByRol(ctx context.Context, rol string, limit, offset int) ([]*entity.Mensaje, int, error) {
	return st.list(func(m *entity.Mensaje) bool { return rol == "" || m.DestinatarioRol == rol || m.RemitenteRol == rol }, limit, offset)
}

func (st *MensajeStore) list(keep func(*entity.Mensaje) bool, limit, offset int) ([]*entity.Mensaje, int, error) {
	st.s.mu.Lock()
	defer st.s.mu.Unlock()
	var out []*entity.Mensaje
	for _, m := range st.s.mensajes {
		if keep(m) {
			c := *m
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return page(out, limit, offset), len(out), nil
}
