package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/marianodev72/sitio98plus-sub001/internal/application/dto"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/authz"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/repository"
	"github.com/marianodev72/sitio98plus-sub001/pkg/jwt"
)

// TokenIssuer firma tokens de sesión. Lo implementa *jwt.Signer.
type TokenIssuer interface {
	Generate(sub jwt.Subject) (string, error)
}

// AuthUseCase casos de uso de sesión: login y perfil propio.
type AuthUseCase struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, tokens TokenIssuer) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, tokens: tokens}
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Email inexistente y password incorrecta devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.CanLogin() {
		return nil, domain.ErrForbidden
	}
	token, err := uc.tokens.Generate(jwt.Subject{
		UserID:    user.ID,
		Rol:       user.Rol,
		Matricula: user.Matricula,
		Email:     user.Email,
	})
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *dto.ToUserResponse(user)}, nil
}

// Me devuelve el usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, p *authz.Principal) (*dto.UserResponse, error) {
	if err := authz.Authorize(p, authz.ResourceUsers, authz.ActionReadSelf); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return dto.ToUserResponse(user), nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
