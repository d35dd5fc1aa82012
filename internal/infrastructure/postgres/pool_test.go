package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marianodev72/sitio98plus-sub001/pkg/config"
)

func TestBuildPoolConfig_MaxConns(t *testing.T) {
	cfg := config.DBConfig{Host: "localhost", Port: 5432, User: "u", Password: "p@ss", DBName: "portal", SSLMode: "disable", MaxConns: 7}
	pc, err := buildPoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(7), pc.MaxConns)
	assert.Equal(t, int32(2), pc.MinConns)
	assert.Equal(t, "p@ss", pc.ConnConfig.Password)
	assert.NotNil(t, pc.AfterConnect)
}

func TestBuildPoolConfig_Defaults(t *testing.T) {
	pc, err := buildPoolConfig(config.DBConfig{DatabaseURL: "postgres://u:p@127.0.0.1:5432/db?sslmode=disable", MaxConns: 1})
	require.NoError(t, err)
	assert.Equal(t, int32(1), pc.MaxConns)
	assert.Equal(t, int32(1), pc.MinConns)

	pc, err = buildPoolConfig(config.DBConfig{DatabaseURL: "postgres://u:p@127.0.0.1:5432/db"})
	require.NoError(t, err)
	assert.Equal(t, int32(defaultMaxConns), pc.MaxConns)
}

func TestDSNWithIPv4_IPLiteralSinCambios(t *testing.T) {
	dsn := "postgres://u:p@10.0.0.5:5433/db?sslmode=disable"
	assert.Equal(t, dsn, dsnWithIPv4(dsn))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\% real\_ok`, escapeLike("100% real_ok"))
}
