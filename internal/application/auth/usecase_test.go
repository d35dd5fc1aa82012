package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/marianodev72/sitio98plus-sub001/internal/application/auth"
	"github.com/marianodev72/sitio98plus-sub001/internal/application/dto"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/authz"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
	"github.com/marianodev72/sitio98plus-sub001/internal/testutil/memstore"
	"github.com/marianodev72/sitio98plus-sub001/pkg/jwt"
)

type fakeIssuer struct{ last jwt.Subject }

func (f *fakeIssuer) Generate(sub jwt.Subject) (string, error) {
	f.last = sub
	return "token-" + sub.UserID, nil
}

func seedUser(t *testing.T, s *memstore.Store, estado string) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreta123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{
		ID: "u-1", Email: "perm@example.com", PasswordHash: string(hash),
		Rol: string(authz.RolePermisionario), Estado: estado, Matricula: "12345",
	}
	require.NoError(t, s.Create(context.Background(), u))
	return u
}

func TestLogin_OK(t *testing.T) {
	s := memstore.New()
	seedUser(t, s, entity.UserEstadoActivo)
	iss := &fakeIssuer{}
	uc := auth.NewAuthUseCase(s, iss)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "Perm@Example.com", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, "token-u-1", out.Token)
	assert.Equal(t, "PERMISIONARIO", iss.last.Rol)
	assert.Equal(t, "12345", iss.last.Matricula)
	assert.Equal(t, "u-1", out.User.ID)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	s := memstore.New()
	seedUser(t, s, entity.UserEstadoActivo)
	uc := auth.NewAuthUseCase(s, &fakeIssuer{})

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "perm@example.com", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@example.com", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	s := memstore.New()
	seedUser(t, s, entity.UserEstadoInactivo)
	uc := auth.NewAuthUseCase(s, &fakeIssuer{})

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "perm@example.com", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestMe(t *testing.T) {
	s := memstore.New()
	seedUser(t, s, entity.UserEstadoActivo)
	uc := auth.NewAuthUseCase(s, &fakeIssuer{})

	me, err := uc.Me(context.Background(), &authz.Principal{UserID: "u-1", Role: authz.RolePermisionario})
	require.NoError(t, err)
	assert.Equal(t, "perm@example.com", me.Email)

	_, err = uc.Me(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Me(context.Background(), &authz.Principal{UserID: "borrado", Role: authz.RolePermisionario})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
