package ports

import (
	"context"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
)

// PDFGenerator genera las versiones imprimibles de los formularios.
type PDFGenerator interface {
	Anexo11PDF(ctx context.Context, a *entity.Anexo11) ([]byte, error)
	Anexo01PDF(ctx context.Context, p *entity.Postulacion) ([]byte, error)
}
