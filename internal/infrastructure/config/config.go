package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the risk engine. It is resolved once at
// startup and passed by value.
type Config struct {
	GRPCPort    string
	HTTPPort    string
	Environment string
	LogLevel    string
	LogFormat   string

	// PredictEndpoint selects the remote strategy when non-empty.
	PredictEndpoint  string
	RemoteAuthToken  string
	RemoteTimeout    time.Duration
	RemoteClampScore bool

	// LocalTimezone is an IANA zone name used to read offset-bearing
	// timestamps as local hours. Empty keeps the timestamp's own offset.
	LocalTimezone string

	KafkaBrokers []string
	KafkaTopic   string

	JWTSecret string
	JWTIssuer string
	RateLimit int // predictions per second per client, 0 disables

	OTLPEndpoint   string
	TracingEnabled bool
	GRPCReflection bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		GRPCPort:         getEnv("GRPC_PORT", "8095"),
		HTTPPort:         getEnv("HTTP_PORT", "9095"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		PredictEndpoint:  strings.TrimSpace(getEnv("PREDICT_ENDPOINT", "")),
		RemoteAuthToken:  getEnv("REMOTE_AUTH_TOKEN", ""),
		RemoteTimeout:    getEnvDuration("REMOTE_TIMEOUT", 0),
		RemoteClampScore: getEnvBool("REMOTE_CLAMP_SCORE", false),
		LocalTimezone:    getEnv("RISK_LOCAL_TZ", ""),
		KafkaBrokers:     getEnvList("KAFKA_BROKERS"),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "risk.events"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTIssuer:        getEnv("JWT_ISSUER", "bib-auth"),
		RateLimit:        getEnvInt("RATE_LIMIT", 100),
		OTLPEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TracingEnabled:   getEnvBool("TRACING_ENABLED", false),
		GRPCReflection:   getEnvBool("GRPC_REFLECTION", false),
	}
}

// Validate reports every configuration problem found.
func (c Config) Validate() error {
	var errs []error

	if c.PredictEndpoint != "" {
		u, err := url.Parse(c.PredictEndpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("PREDICT_ENDPOINT %q must be an absolute http(s) URL", c.PredictEndpoint))
		}
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT must not be negative, got %d", c.RateLimit))
	}
	if c.RemoteTimeout < 0 {
		errs = append(errs, fmt.Errorf("REMOTE_TIMEOUT must not be negative, got %s", c.RemoteTimeout))
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		errs = append(errs, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set"))
	}

	return errors.Join(errs...)
}

// Location resolves LocalTimezone. It returns nil when no zone is configured.
func (c Config) Location() (*time.Location, error) {
	if c.LocalTimezone == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(c.LocalTimezone)
	if err != nil {
		return nil, fmt.Errorf("RISK_LOCAL_TZ %q: %w", c.LocalTimezone, err)
	}
	return loc, nil
}

// UsesRemote reports whether the remote prediction strategy is configured.
func (c Config) UsesRemote() bool {
	return c.PredictEndpoint != ""
}

// GRPCAddress returns the full gRPC listen address.
func (c Config) GRPCAddress() string {
	return fmt.Sprintf(":%s", c.GRPCPort)
}

// HTTPAddress returns the full HTTP listen address.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(val)); err == nil {
			return d
		}
	}
	return defaultVal
}

// getEnvList splits a comma-separated variable, dropping empty entries.
func getEnvList(key string) []string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
