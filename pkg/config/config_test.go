package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("MC_TEST_STR", "")
	t.Setenv("MC_TEST_INT", "nope")
	t.Setenv("MC_TEST_DUR", "90s")

	assert.Equal(t, "def", EnvDefault("MC_TEST_STR", "def"))
	assert.Equal(t, 5, EnvIntDefault("MC_TEST_INT", 5))
	assert.Equal(t, 90*time.Second, EnvDurationDefault("MC_TEST_DUR", time.Minute))
	assert.Equal(t, time.Minute, EnvDurationDefault("MC_TEST_MISSING", time.Minute))
}

func TestLoad(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("ACCESS_TTL", "5m")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CORS_ORIGINS", "https://mood.example")

	cfg := Load()
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, []string{"https://mood.example"}, cfg.CORSOrigins)
}
