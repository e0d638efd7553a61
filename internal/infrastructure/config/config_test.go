package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "supplychain-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "supplychain", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 6379, cfg.Redis.Port)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, 100, cfg.Event.BatchSize)
		assert.Equal(t, 5*time.Second, cfg.Event.PollInterval)
		assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
		assert.Equal(t, int64(10<<20), cfg.HTTP.MaxBodySize)
		assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
		assert.Equal(t, int64(5<<20), cfg.Import.MaxPayloadBytes)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
		assert.Equal(t, 200*time.Millisecond, cfg.Telemetry.DBSlowQueryThresh)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("SCM_APP_NAME", "scm-test")
		t.Setenv("SCM_DATABASE_HOST", "db.internal")
		t.Setenv("SCM_DATABASE_PORT", "5433")
		t.Setenv("SCM_EVENT_POLL_INTERVAL", "250ms")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "scm-test", cfg.App.Name)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 250*time.Millisecond, cfg.Event.PollInterval)
	})

	t.Run("rejects idle conns above open conns", func(t *testing.T) {
		t.Setenv("SCM_DATABASE_MAX_OPEN_CONNS", "5")
		t.Setenv("SCM_DATABASE_MAX_IDLE_CONNS", "10")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})

	t.Run("rejects sampling ratio above one", func(t *testing.T) {
		t.Setenv("SCM_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})

	t.Run("production requires password and TLS", func(t *testing.T) {
		t.Setenv("SCM_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "password")

		t.Setenv("SCM_DATABASE_PASSWORD", "secret")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")

		t.Setenv("SCM_DATABASE_SSLMODE", "require")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfigDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "scm",
		Password: "p@ss/word",
		DBName:   "supplychain",
		SSLMode:  "disable",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "p%40ss%2Fword")
	assert.Contains(t, dsn, "localhost:5432/supplychain")
	assert.Contains(t, dsn, "sslmode=disable")
}
