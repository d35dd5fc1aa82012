// Package adjunto valida los archivos adjuntos de las comunicaciones antes de almacenarlos.
package adjunto

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
)

// Policy límites de aceptación de adjuntos.
type Policy struct {
	MaxBytes int64 // tamaño máximo por archivo
	MaxFiles int   // cantidad máxima por mensaje
}

// DefaultPolicy 10 MB por archivo, hasta 5 archivos.
var DefaultPolicy = Policy{MaxBytes: 10 << 20, MaxFiles: 5}

// extensionesDenegadas se revisan antes que el MIME: un .exe se rechaza aunque declare application/pdf.
var extensionesDenegadas = map[string]struct{}{
	".exe": {}, ".bat": {}, ".cmd": {}, ".com": {}, ".scr": {}, ".pif": {}, ".msi": {}, ".msp": {},
	".dll": {}, ".sys": {}, ".sh": {}, ".bash": {}, ".ps1": {}, ".psm1": {}, ".vbs": {}, ".vbe": {},
	".js": {}, ".jse": {}, ".wsf": {}, ".wsh": {}, ".hta": {}, ".jar": {}, ".php": {}, ".py": {},
	".pl": {}, ".cpl": {}, ".lnk": {}, ".reg": {}, ".apk": {}, ".app": {}, ".dmg": {}, ".iso": {},
	".html": {}, ".htm": {}, ".svg": {},
}

var mimesPermitidos = setOf(
	"application/pdf",
	"image/jpeg",
	"image/png",
	"image/webp",
	"text/plain",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
)

// Validate revisa extensión, MIME y tamaño en ese orden.
func Validate(nombre, contentType string, size int64, p Policy) error {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(nombre)))
	if ext == "" {
		return fmt.Errorf("%w: %q no tiene extensión", domain.ErrUnsupportedFileType, nombre)
	}
	if _, denegada := extensionesDenegadas[ext]; denegada {
		return fmt.Errorf("%w: extensión %s", domain.ErrUnsupportedFileType, ext)
	}
	if !MimePermitido(contentType) {
		return fmt.Errorf("%w: tipo %q", domain.ErrUnsupportedFileType, contentType)
	}
	if size <= 0 {
		return fmt.Errorf("%w: archivo %q vacío", domain.ErrInvalidInput, nombre)
	}
	if p.MaxBytes > 0 && size > p.MaxBytes {
		return fmt.Errorf("%w: %q pesa %d bytes (máximo %d)", domain.ErrFileTooLarge, nombre, size, p.MaxBytes)
	}
	return nil
}

// ValidateCount revisa la cantidad de archivos de un mensaje.
func ValidateCount(n int, p Policy) error {
	if p.MaxFiles > 0 && n > p.MaxFiles {
		return fmt.Errorf("%w: máximo %d adjuntos por mensaje", domain.ErrInvalidInput, p.MaxFiles)
	}
	return nil
}

// MimePermitido indica si el tipo (sin parámetros) está en la lista permitida.
func MimePermitido(contentType string) bool {
	base := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(base, ';'); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}
	_, ok := mimesPermitidos[base]
	return ok
}

// NombreSeguro reduce el nombre original a un nombre de archivo sin rutas ni caracteres de control.
func NombreSeguro(nombre string) string {
	base := filepath.Base(strings.ReplaceAll(nombre, "\\", "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r < 0x20 || r == 0x7f:
			continue
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" || out == "." || out == ".." {
		return "adjunto"
	}
	return out
}

func setOf(xs ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(xs))
	for _, x := range xs {
		m[x] = struct{}{}
	}
	return m
}
