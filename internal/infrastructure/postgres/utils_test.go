package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsNoRow(t *testing.T) {
	assert.True(t, isNoRow(pgx.ErrNoRows))
	assert.True(t, isNoRow(fmt.Errorf("scan: %w", pgx.ErrNoRows)))
	assert.True(t, isNoRow(&pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}))
	assert.False(t, isNoRow(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isNoRow(errors.New("conexión cerrada")))
}

func TestValidUUID(t *testing.T) {
	assert.True(t, validUUID("00000000-0000-4000-8000-00000000000a"))
	assert.False(t, validUUID("no-es-uuid"))
	assert.False(t, validUUID(""))
	assert.False(t, validUUID("1234"))
}

func TestViolatedConstraint(t *testing.T) {
	err := fmt.Errorf("upsert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "pre_postulantes_matricula_uq"})
	assert.True(t, isUniqueViolation(err))
	assert.Equal(t, "pre_postulantes_matricula_uq", violatedConstraint(err))
	assert.Empty(t, violatedConstraint(errors.New("otro")))
}
