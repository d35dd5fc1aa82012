package memstore

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
)

// Files almacenamiento de adjuntos en memoria.
type Files struct {
	mu    sync.Mutex
	Blobs map[string][]byte
}

// NewFiles crea un almacenamiento vacío.
func NewFiles() *Files { return &Files{Blobs: map[string][]byte{}} }

func (f *Files) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Blobs[key] = b
	return nil
}

func (f *Files) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.Blobs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (f *Files) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Blobs, key)
	return nil
}

// Len cantidad de archivos guardados.
func (f *Files) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Blobs)
}

// SentCode código enviado por Mailer.
type SentCode struct {
	Email, Nombre, Codigo string
	Minutos               int
}

// Mailer registra los códigos en lugar de enviarlos.
type Mailer struct {
	mu   sync.Mutex
	Sent []SentCode
	Err  error
}

func (m *Mailer) SendVerificationCode(ctx context.Context, email, nombre, codigo string, minutos int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, SentCode{Email: email, Nombre: nombre, Codigo: codigo, Minutos: minutos})
	return nil
}

// Last último código enviado.
func (m *Mailer) Last() SentCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return SentCode{}
	}
	return m.Sent[len(m.Sent)-1]
}

// AllowList padrón fijo.
type AllowList map[string]bool

func (a AllowList) Contains(matricula string) bool { return a[matricula] }

// PDF generador que devuelve un marcador en lugar de un documento real.
type PDF struct{}

func (PDF) Anexo11PDF(ctx context.Context, a *entity.Anexo11) ([]byte, error) {
	return []byte("%PDF-anexo11-" + a.ID), nil
}

func (PDF) Anexo01PDF(ctx context.Context, p *entity.Postulacion) ([]byte, error) {
	return []byte("%PDF-anexo01-" + p.ID), nil
}
