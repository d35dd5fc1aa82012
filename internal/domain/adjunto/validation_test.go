package adjunto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/adjunto"
)

func TestValidate_ExeRechazadoSinImportarMIME(t *testing.T) {
	for _, ct := range []string{"application/pdf", "image/png", "application/octet-stream", ""} {
		err := adjunto.Validate("payload.exe", ct, 1024, adjunto.DefaultPolicy)
		assert.ErrorIs(t, err, domain.ErrUnsupportedFileType, "content-type %q", ct)
	}
}

func TestValidate_PDFAceptado(t *testing.T) {
	assert.NoError(t, adjunto.Validate("doc.pdf", "application/pdf", 2048, adjunto.DefaultPolicy))
	assert.NoError(t, adjunto.Validate("Foto.JPG", "image/jpeg", 2048, adjunto.DefaultPolicy))
}

func TestValidate_MIMENoPermitido(t *testing.T) {
	err := adjunto.Validate("planilla.pdf", "application/x-msdownload", 10, adjunto.DefaultPolicy)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestValidate_ExtensionDobleSeRevisaPorLaUltima(t *testing.T) {
	err := adjunto.Validate("factura.pdf.exe", "application/pdf", 10, adjunto.DefaultPolicy)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestValidate_Tamano(t *testing.T) {
	p := adjunto.Policy{MaxBytes: 100, MaxFiles: 2}
	assert.NoError(t, adjunto.Validate("a.pdf", "application/pdf", 100, p))
	assert.ErrorIs(t, adjunto.Validate("a.pdf", "application/pdf", 101, p), domain.ErrFileTooLarge)
	assert.ErrorIs(t, adjunto.Validate("a.pdf", "application/pdf", 0, p), domain.ErrInvalidInput)
}

func TestValidateCount(t *testing.T) {
	p := adjunto.Policy{MaxBytes: 100, MaxFiles: 2}
	assert.NoError(t, adjunto.ValidateCount(2, p))
	assert.ErrorIs(t, adjunto.ValidateCount(3, p), domain.ErrInvalidInput)
}

func TestMimePermitido_IgnoraParametros(t *testing.T) {
	assert.True(t, adjunto.MimePermitido("text/plain; charset=utf-8"))
	assert.False(t, adjunto.MimePermitido("text/html"))
}

func TestNombreSeguro(t *testing.T) {
	assert.Equal(t, "passwd", adjunto.NombreSeguro("../../etc/passwd"))
	assert.Equal(t, "informe.pdf", adjunto.NombreSeguro(`C:\Users\x\informe.pdf`))
	assert.Equal(t, "adjunto", adjunto.NombreSeguro(".."))
	assert.Equal(t, "a_b.pdf", adjunto.NombreSeguro("a:b.pdf"))
}
