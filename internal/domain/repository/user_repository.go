package repository

import (
	"context"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
)

// UserFilter criterios del listado de administración. Campos vacíos no filtran.
type UserFilter struct {
	Rol    string
	Estado string
	Query  string // coincidencia parcial sobre nombre, apellido, email o matrícula
}

// UserRepository define el puerto de persistencia para User (DIP).
// Los métodos Get devuelven (nil, nil) si el usuario no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, filter UserFilter, limit, offset int) ([]*entity.User, int, error)
}
