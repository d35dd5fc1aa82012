package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/marianodev72/sitio98plus-sub001/internal/application/dto"
	"github.com/marianodev72/sitio98plus-sub001/internal/application/ports"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/authz"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/repository"
)

// TxRunner ejecuta fn con repositorios atados a una misma transacción.
type TxRunner interface {
	RunRegistro(ctx context.Context, fn func(pre repository.PrePostulanteRepository, users repository.UserRepository) error) error
}

// RegistrationConfig parámetros del alta en dos pasos.
type RegistrationConfig struct {
	CodeTTL     time.Duration
	MaxIntentos int
}

// RegistrationUseCase alta de postulantes: paso 1 envía un código, paso 2 lo verifica y crea el usuario.
type RegistrationUseCase struct {
	users  repository.UserRepository
	pre    repository.PrePostulanteRepository
	tx     TxRunner
	padron ports.AllowList
	mailer ports.Mailer
	cfg    RegistrationConfig

	now     func() time.Time
	newCode func() (string, error)
}

// NewRegistrationUseCase construye el caso de uso.
func NewRegistrationUseCase(
	users repository.UserRepository,
	pre repository.PrePostulanteRepository,
	tx TxRunner,
	padron ports.AllowList,
	mailer ports.Mailer,
	cfg RegistrationConfig,
) *RegistrationUseCase {
	if cfg.CodeTTL <= 0 {
		cfg.CodeTTL = 15 * time.Minute
	}
	if cfg.MaxIntentos <= 0 {
		cfg.MaxIntentos = 5
	}
	return &RegistrationUseCase{
		users: users, pre: pre, tx: tx, padron: padron, mailer: mailer, cfg: cfg,
		now:     time.Now,
		newCode: generateCode,
	}
}

// RegisterInit valida los datos, controla el padrón y envía el código de verificación.
// Un nuevo envío para el mismo email reemplaza el código anterior y reinicia los intentos.
func (uc *RegistrationUseCase) RegisterInit(ctx context.Context, in dto.RegisterInitRequest) (*dto.RegisterInitResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)
	matricula := strings.TrimSpace(in.Matricula)

	if !uc.padron.Contains(matricula) {
		return nil, domain.ErrNotAuthorized
	}
	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	code, err := uc.newCode()
	if err != nil {
		return nil, err
	}
	now := uc.now()
	rec := &entity.PrePostulante{
		ID:           uuid.New().String(),
		Nombre:       strings.TrimSpace(in.Nombre),
		Apellido:     strings.TrimSpace(in.Apellido),
		Matricula:    matricula,
		Grado:        strings.TrimSpace(in.Grado),
		DNI:          strings.TrimSpace(in.DNI),
		Email:        email,
		PasswordHash: string(hash),
		Codigo:       code,
		ExpiraEn:     now.Add(uc.cfg.CodeTTL),
		CreatedAt:    now,
	}

	err = uc.tx.RunRegistro(ctx, func(pre repository.PrePostulanteRepository, _ repository.UserRepository) error {
		if err := pre.DeleteByMatriculaExceptEmail(ctx, matricula, email); err != nil {
			return err
		}
		return pre.Upsert(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	minutos := int(uc.cfg.CodeTTL / time.Minute)
	if err := uc.mailer.SendVerificationCode(ctx, email, rec.Nombre, code, minutos); err != nil {
		return nil, fmt.Errorf("enviar código: %w", err)
	}
	return &dto.RegisterInitResponse{Email: email, ExpiraEn: rec.ExpiraEn}, nil
}

// RegisterVerify compara el código y, si coincide, crea el usuario POSTULANTE/PENDIENTE.
func (uc *RegistrationUseCase) RegisterVerify(ctx context.Context, in dto.RegisterVerifyRequest) (*dto.UserResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)
	rec, err := uc.pre.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	now := uc.now()
	if rec.Expired(now) {
		if err := uc.pre.Delete(ctx, rec.ID); err != nil {
			return nil, err
		}
		return nil, domain.ErrExpired
	}
	if rec.Intentos >= uc.cfg.MaxIntentos {
		if err := uc.pre.Delete(ctx, rec.ID); err != nil {
			return nil, err
		}
		return nil, domain.ErrTooManyAttempts
	}
	if subtle.ConstantTimeCompare([]byte(rec.Codigo), []byte(strings.TrimSpace(in.Codigo))) != 1 {
		intentos, err := uc.pre.IncrementIntentos(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
		if intentos >= uc.cfg.MaxIntentos {
			if err := uc.pre.Delete(ctx, rec.ID); err != nil {
				return nil, err
			}
			return nil, domain.ErrTooManyAttempts
		}
		return nil, domain.ErrCodeMismatch
	}

	user := &entity.User{
		ID:              uuid.New().String(),
		Username:        strings.TrimSpace(rec.Nombre + " " + rec.Apellido),
		Nombre:          rec.Nombre,
		Apellido:        rec.Apellido,
		Email:           rec.Email,
		PasswordHash:    rec.PasswordHash,
		Rol:             string(authz.RolePostulante),
		Estado:          entity.UserEstadoPendiente,
		Matricula:       rec.Matricula,
		Grado:           rec.Grado,
		DNI:             rec.DNI,
		EmailVerificado: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err = uc.tx.RunRegistro(ctx, func(pre repository.PrePostulanteRepository, users repository.UserRepository) error {
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		return pre.Delete(ctx, rec.ID)
	})
	if err != nil {
		return nil, err
	}
	return dto.ToUserResponse(user), nil
}

// PurgeExpired elimina los pre-registros vencidos. Lo invoca el scheduler.
func (uc *RegistrationUseCase) PurgeExpired(ctx context.Context) (int64, error) {
	return uc.pre.DeleteExpired(ctx, uc.now())
}

// generateCode devuelve un código de 6 dígitos con ceros a la izquierda.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generar código: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
