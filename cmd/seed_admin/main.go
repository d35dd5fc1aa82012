// seed_admin crea el usuario ADMIN inicial o promueve uno existente.
//
// Uso: ADMIN_SEED_EMAIL=... ADMIN_SEED_PASSWORD=... go run ./cmd/seed_admin
// Con un usuario ya existente para ese email solo se ajustan rol y estado; la contraseña no se toca.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain/authz"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/entity"
	"github.com/marianodev72/sitio98plus-sub001/internal/domain/repository"
	"github.com/marianodev72/sitio98plus-sub001/internal/infrastructure/postgres"
	"github.com/marianodev72/sitio98plus-sub001/pkg/config"
	"github.com/marianodev72/sitio98plus-sub001/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	u, created, err := seed(ctx, postgres.NewUserRepository(pool), cfg.Admin, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}
	log.Info().Str("id", u.ID).Str("email", u.Email).Bool("creado", created).Msg("usuario ADMIN listo")
}

// seed devuelve el usuario ADMIN y si fue creado en esta corrida.
func seed(ctx context.Context, users repository.UserRepository, in config.AdminSeedConfig, now time.Time) (*entity.User, bool, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, false, errors.New("ADMIN_SEED_EMAIL es obligatorio")
	}

	u, err := users.GetByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	if u != nil {
		u.Rol = string(authz.RoleAdmin)
		u.Estado = entity.UserEstadoActivo
		u.UpdatedAt = now
		if err := users.Update(ctx, u); err != nil {
			return nil, false, err
		}
		return u, false, nil
	}

	if len(in.Password) < 8 {
		return nil, false, errors.New("ADMIN_SEED_PASSWORD debe tener al menos 8 caracteres")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("hash de contraseña: %w", err)
	}
	nombre := strings.TrimSpace(in.Nombre)
	if nombre == "" {
		nombre = "Administrador"
	}
	u = &entity.User{
		ID:              uuid.New().String(),
		Username:        nombre,
		Nombre:          nombre,
		Email:           email,
		PasswordHash:    string(hash),
		Rol:             string(authz.RoleAdmin),
		Estado:          entity.UserEstadoActivo,
		EmailVerificado: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}
