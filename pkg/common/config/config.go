package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64
	MaxBatchSize   int
	RateLimitRPS   int
	RateLimitBurst int

	// Artifacts
	ModelArtifactPath  string
	ScalerArtifactPath string
	FormCatalogPath    string

	// Prediction behaviour
	StrictValidation bool
	CurrencyLocale   string

	// Database
	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisEnabled       bool
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	PredictionCacheTTL time.Duration

	// Kafka
	KafkaEnabled         bool
	KafkaBrokers         []string
	KafkaGroupID         string
	KafkaPredictionTopic string
}

func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8089"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 1024*1024)),
		MaxBatchSize:   getIntEnv("MAX_BATCH_SIZE", 100),
		RateLimitRPS:   getIntEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 100),

		ModelArtifactPath:  getEnv("MODEL_ARTIFACT_PATH", "artifacts/prediction_model.json"),
		ScalerArtifactPath: getEnv("SCALER_ARTIFACT_PATH", "artifacts/scaler_model.json"),
		FormCatalogPath:    getEnv("FORM_CATALOG_PATH", ""),

		StrictValidation: getBoolEnv("STRICT_VALIDATION", true),
		CurrencyLocale:   getEnv("CURRENCY_LOCALE", "en-IN"),

		PostgresEnabled:  getBoolEnv("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "premium"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "premium123"),
		PostgresDB:       getEnv("POSTGRES_DB", "premium"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisEnabled:       getBoolEnv("REDIS_ENABLED", false),
		RedisHost:          getEnv("REDIS_HOST", "localhost"),
		RedisPort:          getEnv("REDIS_PORT", "6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getIntEnv("REDIS_DB", 0),
		PredictionCacheTTL: getDuration("PREDICTION_CACHE_TTL", 10*time.Minute),

		KafkaEnabled:         getBoolEnv("KAFKA_ENABLED", false),
		KafkaBrokers:         getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID:         getEnv("KAFKA_GROUP_ID", "premium-audit"),
		KafkaPredictionTopic: getEnv("KAFKA_PREDICTION_TOPIC", "premium.predictions"),
	}
}

// PostgresDSN renders the connection string understood by the pgx driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.PostgresHost,
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresDB,
		c.PostgresPort,
		c.PostgresSSLMode,
	)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%s", c.ServerHost, c.ServerPort)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
