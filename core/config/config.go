package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"supportdesk.app/engine/core/db"
)

type Config struct {
	OTel        OTelConfig
	Events      EventsConfig
	SLA         SLAConfig
	Sweeps      SweepConfig
	Assignment  AssignmentConfig
	Env         string
	Port        string
	AdminAPIKey string
	NodeID      int64
	TraceHeader string
	DB          db.Config
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
	Environment    string
	SampleRatio    float64
}

type EventsConfig struct {
	RedisURL     string
	StreamPrefix string
	MaxLen       int64
}

// SLAConfig holds the fallback response policy used when a tenant has no
// matching sla_policies row.
type SLAConfig struct {
	DefaultResponseSeconds int32
	DefaultWarningPercent  int32
}

type SweepConfig struct {
	BreachInterval     time.Duration
	BreachBatchSize    int32
	IdleReturnMinutes  int
	IdleReturnInterval time.Duration
	IdleReturnBatch    int32
}

type AssignmentConfig struct {
	AllowSelfTransfer bool
}

type ServiceType string

const (
	ServiceTypeServer ServiceType = "server"
	ServiceTypeWorker ServiceType = "worker"
)

// Load loads configuration from environment variables.
// In development, it loads from service-specific .env files:
//   - .env.server for the API server
//   - .env.worker for the background sweeps
//
// Falls back to .env if service-specific file doesn't exist.
func Load(serviceType ServiceType) (Config, error) {
	if getEnv("APP_ENV", "development") == "development" {
		envFile := fmt.Sprintf(".env.%s", serviceType)
		if err := godotenv.Load(envFile); err != nil {
			_ = godotenv.Load(".env")
		}
	}

	defaultNode := int64(1)
	if serviceType == ServiceTypeWorker {
		defaultNode = 2
	}

	cfg := Config{
		Env:         getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),
		NodeID:      getEnvInt64("SNOWFLAKE_NODE_ID", defaultNode),
		TraceHeader: getEnv("TRACE_HEADER_NAME", "X-Trace-Id"),
		DB: db.Config{
			DSN:      getEnv("DATABASE_URL", ""),
			MaxConns: getEnvInt32("DB_MAX_CONNS", 10),
			MinConns: getEnvInt32("DB_MIN_CONNS", 2),
		},
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "supportdesk-"+string(serviceType)),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
			Environment:    getEnv("APP_ENV", "development"),
			SampleRatio:    getEnvFloat("OTEL_TRACES_SAMPLE_RATIO", 1),
		},
		Events: EventsConfig{
			RedisURL:     getEnv("REDIS_URL", ""),
			StreamPrefix: getEnv("EVENTS_STREAM_PREFIX", "support-events"),
			MaxLen:       getEnvInt64("EVENTS_STREAM_MAXLEN", 10000),
		},
		SLA: SLAConfig{
			DefaultResponseSeconds: getEnvInt32("SLA_DEFAULT_RESPONSE_SECONDS", 300),
			DefaultWarningPercent:  getEnvInt32("SLA_DEFAULT_WARNING_PERCENT", 80),
		},
		Sweeps: SweepConfig{
			BreachInterval:     getEnvDuration("SLA_SWEEP_INTERVAL", 15*time.Second),
			BreachBatchSize:    getEnvInt32("SLA_SWEEP_BATCH", 500),
			IdleReturnMinutes:  getEnvInt("IDLE_RETURN_MINUTES", 0),
			IdleReturnInterval: getEnvDuration("IDLE_RETURN_INTERVAL", time.Minute),
			IdleReturnBatch:    getEnvInt32("IDLE_RETURN_BATCH", 500),
		},
		Assignment: AssignmentConfig{
			AllowSelfTransfer: getEnvBool("ALLOW_SELF_TRANSFER", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the invariants Load cannot express through defaults.
func (c Config) Validate() error {
	if c.DB.DSN == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.SLA.DefaultResponseSeconds <= 0 {
		return fmt.Errorf("SLA_DEFAULT_RESPONSE_SECONDS must be positive")
	}
	if c.SLA.DefaultWarningPercent < 0 || c.SLA.DefaultWarningPercent > 100 {
		return fmt.Errorf("SLA_DEFAULT_WARNING_PERCENT must be between 0 and 100")
	}
	if c.Sweeps.BreachInterval <= 0 || c.Sweeps.IdleReturnInterval <= 0 {
		return fmt.Errorf("sweep intervals must be positive")
	}
	if c.Sweeps.IdleReturnMinutes < 0 {
		return fmt.Errorf("IDLE_RETURN_MINUTES must not be negative")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c EventsConfig) Enabled() bool {
	return c.RedisURL != ""
}

func (c SweepConfig) IdleReturnEnabled() bool {
	return c.IdleReturnMinutes > 0
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt32(key string, fallback int32) int32 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(i)
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
