package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8089", cfg.ServerPort)
	assert.Equal(t, "artifacts/prediction_model.json", cfg.ModelArtifactPath)
	assert.Equal(t, "artifacts/scaler_model.json", cfg.ScalerArtifactPath)
	assert.True(t, cfg.StrictValidation)
	assert.False(t, cfg.RedisEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 10*time.Minute, cfg.PredictionCacheTTL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("STRICT_VALIDATION", "false")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("PREDICTION_CACHE_TTL", "90s")
	t.Setenv("MAX_BATCH_SIZE", "not-a-number")

	cfg := Load()

	assert.Equal(t, "9000", cfg.ServerPort)
	assert.False(t, cfg.StrictValidation)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 90*time.Second, cfg.PredictionCacheTTL)
	assert.Equal(t, 100, cfg.MaxBatchSize, "unparseable ints fall back to the default")
}

func TestConnectionStrings(t *testing.T) {
	cfg := &Config{
		ServerHost:       "127.0.0.1",
		ServerPort:       "8089",
		PostgresHost:     "db",
		PostgresPort:     "5432",
		PostgresUser:     "u",
		PostgresPassword: "p",
		PostgresDB:       "premium",
		PostgresSSLMode:  "disable",
		RedisHost:        "cache",
		RedisPort:        "6379",
	}

	assert.Equal(t, "host=db user=u password=p dbname=premium port=5432 sslmode=disable", cfg.PostgresDSN())
	assert.Equal(t, "cache:6379", cfg.RedisAddr())
	assert.Equal(t, "127.0.0.1:8089", cfg.ListenAddr())
}
