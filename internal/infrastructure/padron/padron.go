// Package padron mantiene en memoria el padrón de matrículas habilitadas para registrarse.
//
// El archivo se carga explícitamente al iniciar y puede recargarse en caliente (Watch).
// Cada carga construye un conjunto nuevo que reemplaza al anterior de forma atómica;
// si una recarga falla se conserva el conjunto vigente.
package padron

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/text/encoding/charmap"

	"github.com/marianodev72/sitio98plus-sub001/internal/application/ports"
	"github.com/marianodev72/sitio98plus-sub001/pkg/logger"
)

var _ ports.AllowList = (*Padron)(nil)

// ErrPadronVacio el archivo no contiene ninguna matrícula.
var ErrPadronVacio = errors.New("padrón vacío")

const reloadDelay = 250 * time.Millisecond

type set map[string]struct{}

// Padron conjunto inmutable de matrículas, reemplazado atómicamente en cada recarga.
type Padron struct {
	path string
	log  *logger.Logger
	cur  atomic.Pointer[set]
}

// Load lee el archivo y devuelve el padrón listo para consultar.
func Load(path string, log *logger.Logger) (*Padron, error) {
	p := &Padron{path: path, log: log.Component("padron")}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Contains indica si la matrícula está habilitada. Ignora mayúsculas y espacios.
func (p *Padron) Contains(matricula string) bool {
	s := p.cur.Load()
	if s == nil {
		return false
	}
	_, ok := (*s)[normalize(matricula)]
	return ok
}

// Len cantidad de matrículas vigentes.
func (p *Padron) Len() int {
	if s := p.cur.Load(); s != nil {
		return len(*s)
	}
	return 0
}

// Reload vuelve a leer el archivo. Ante error el conjunto vigente no cambia.
func (p *Padron) Reload() error {
	raw, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("padron: leer %s: %w", p.path, err)
	}
	s, err := parse(raw)
	if err != nil {
		return fmt.Errorf("padron: %s: %w", p.path, err)
	}
	p.cur.Store(&s)
	p.log.Info().Str("path", p.path).Int("matriculas", len(s)).Msg("padrón cargado")
	return nil
}

// Watch recarga el padrón cuando el archivo se escribe, se crea o se reemplaza.
// Observa el directorio porque muchos editores reemplazan el archivo con un rename.
// Bloquea hasta que ctx se cancela.
func (p *Padron) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("padron: watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(p.path)); err != nil {
		return fmt.Errorf("padron: observar %s: %w", p.path, err)
	}
	name := filepath.Clean(p.path)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != name || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			// agrupa ráfagas de eventos de una misma escritura
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDelay, func() {
				if err := p.Reload(); err != nil {
					p.log.Error().Err(err).Msg("recarga fallida: se conserva el padrón anterior")
				}
			})
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			p.log.Warn().Err(err).Msg("error del watcher")
		}
	}
}

// parse acepta una matrícula por línea o la primera columna de un CSV (',' o ';').
// Una primera fila cuyo primer campo sea "matricula" se toma como encabezado.
func parse(raw []byte) (set, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(raw) {
		dec, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("decodificar ISO-8859-1: %w", err)
		}
		raw = dec
	}

	r := csv.NewReader(bytes.NewReader(raw))
	r.Comma = delimiter(raw)
	r.Comment = '#'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	out := make(set)
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		if len(rec) == 0 {
			continue
		}
		m := normalize(rec[0])
		if first {
			first = false
			if strings.EqualFold(m, "matricula") || strings.EqualFold(m, "matrícula") {
				continue
			}
		}
		if m != "" {
			out[m] = struct{}{}
		}
	}
	if len(out) == 0 {
		return nil, ErrPadronVacio
	}
	return out, nil
}

func delimiter(raw []byte) rune {
	line := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		line = raw[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

func normalize(m string) string {
	return strings.ToUpper(strings.TrimSpace(m))
}
