package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config collects every externally supplied setting the service consumes.
// Nothing in here is generated by the service itself.
type Config struct {
	Addr        string
	MetricsAddr string
	Env         string

	// Content store (Sanity-compatible HTTP API).
	SanityProjectID  string
	SanityDataset    string
	SanityAPIVersion string
	SanityToken      string
	SanityUseCDN     bool
	SanityTimeout    time.Duration

	// Human-verification service.
	TurnstileSecretKey string

	// Dead-letter archive for submissions the content store refused.
	MongoURI string

	// Kafka access-log and contact-event topics. Empty brokers disable both.
	KafkaBrokers      []string
	KafkaLogTopic     string
	KafkaContactTopic string

	// Tracing collector endpoint.
	OTLPEndpoint string

	// Placeholders for a real mail integration; the notifier only logs today.
	SMTPHost string
	SMTPUser string
	SMTPPass string
}

func Load() *Config {
	cfg := &Config{
		Addr:               getEnv("ADDR", "127.0.0.1:8000"),
		MetricsAddr:        getEnv("METRICS_ADDR", "127.0.0.1:9100"),
		Env:                getEnv("APP_ENV", "development"),
		SanityProjectID:    getEnv("SANITY_PROJECT_ID", "cw4sy9ik"),
		SanityDataset:      getEnv("SANITY_DATASET", "production"),
		SanityAPIVersion:   getEnv("SANITY_API_VERSION", "2024-01-01"),
		SanityToken:        os.Getenv("SANITY_TOKEN"),
		SanityUseCDN:       getEnv("SANITY_USE_CDN", "true") == "true",
		TurnstileSecretKey: os.Getenv("TURNSTILE_SECRET_KEY"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		KafkaLogTopic:      getEnv("KAFKA_LOG_TOPIC", "access-logs"),
		KafkaContactTopic:  getEnv("KAFKA_CONTACT_TOPIC", "contact-submissions"),
		OTLPEndpoint:       getEnv("OTLP_ENDPOINT", "localhost:4318"),
		SMTPHost:           os.Getenv("SMTP_HOST"),
		SMTPUser:           os.Getenv("SMTP_USER"),
		SMTPPass:           os.Getenv("SMTP_PASS"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	timeoutSecs, err := strconv.Atoi(getEnv("SANITY_TIMEOUT_SECONDS", "10"))
	if err != nil || timeoutSecs <= 0 {
		slog.Warn("invalid SANITY_TIMEOUT_SECONDS, falling back to default", "value", os.Getenv("SANITY_TIMEOUT_SECONDS"))
		timeoutSecs = 10
	}
	cfg.SanityTimeout = time.Duration(timeoutSecs) * time.Second

	if cfg.TurnstileSecretKey == "" {
		slog.Warn("TURNSTILE_SECRET_KEY not set; every non-fallback contact submission will be rejected")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
