package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, "dev-secret-key", cfg.JWTSecret)
	require.Contains(t, cfg.DSN(), "dbname=examreg")
	require.Equal(t, "migrations", cfg.MigrationsDir)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_NAME", "examreg_test")
	t.Setenv("LOCK_TIMEOUT", "500ms")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Addr)
	require.Contains(t, cfg.DSN(), "dbname=examreg_test")
	require.Equal(t, int64(500), cfg.LockTimeout.Milliseconds())
}

func TestLoadRequiresSecretInProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("TOKEN_TTL", "soon")

	_, err := Load()
	require.Error(t, err)
}
