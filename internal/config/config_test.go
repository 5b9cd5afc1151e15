package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shiggorat/shareit/internal/common/database"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, database.DriverPostgres, cfg.DBConfig.Driver)
	assert.False(t, cfg.KafkaConfig.Enabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaConfig.Brokers)
	assert.Equal(t, 100.0, cfg.RateLimit.RPS)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("SHAREIT_SERVICE_PORT", ":8080")
	t.Setenv("SHAREIT_APP_ENV", "production")
	t.Setenv("SHAREIT_DB_DRIVER", "sqlite")
	t.Setenv("SHAREIT_DB_DSN", "file:test.db")
	t.Setenv("SHAREIT_KAFKA_ENABLED", "true")
	t.Setenv("SHAREIT_KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("SHAREIT_RATE_LIMIT_BURST", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "sqlite", cfg.DBConfig.Driver)
	assert.Equal(t, "file:test.db", cfg.DBConfig.DSN)
	assert.True(t, cfg.KafkaConfig.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaConfig.Brokers)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
}
