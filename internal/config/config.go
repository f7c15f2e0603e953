package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the chat client's settings, loaded from the environment.
type Config struct {
	BlobURL      string
	PollInterval time.Duration
	AMQPURL      string
	AMQPExchange string
	MetricsAddr  string
	SessionFile  string
	SecretKey    string
	OTLPEndpoint string
	Service      string
	Environment  string
}

// Load reads configuration from the environment, with a .env file as
// fallback when present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		BlobURL:      getEnv("BLOB_URL", "http://localhost:8083/api/data"),
		PollInterval: time.Duration(getEnvInt("POLL_INTERVAL_MS", 10000)) * time.Millisecond,
		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "cloudtalk.events"),
		MetricsAddr:  getEnv("METRICS_ADDR", ":9090"),
		SessionFile:  getEnv("SESSION_FILE", ""),
		SecretKey:    getEnv("CHAT_SECRET_KEY", "your-super-secret-key-that-is-not-so-secret"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		Service:      getEnv("SERVICE_NAME", "cloudtalk"),
		Environment:  getEnv("ENVIRONMENT", "dev"),
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}
