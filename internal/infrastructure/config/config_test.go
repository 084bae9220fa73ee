package config_test

import (
	"os"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/upi-risk/internal/infrastructure/config"
)

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_PORT", "GRPC_PORT", "PREDICT_ENDPOINT", "REMOTE_TIMEOUT",
		"REMOTE_CLAMP_SCORE", "RISK_LOCAL_TZ", "KAFKA_BROKERS", "KAFKA_TOPIC",
		"RATE_LIMIT", "JWT_SECRET", "TRACING_ENABLED", "GRPC_REFLECTION",
	} {
		unsetEnv(t, key)
	}

	cfg := config.Load()

	assert.Equal(t, ":9095", cfg.HTTPAddress())
	assert.Equal(t, ":8095", cfg.GRPCAddress())
	assert.False(t, cfg.UsesRemote())
	assert.Zero(t, cfg.RemoteTimeout)
	assert.False(t, cfg.RemoteClampScore)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "risk.events", cfg.KafkaTopic)
	assert.Equal(t, 100, cfg.RateLimit)
	assert.Empty(t, cfg.JWTSecret)
	assert.False(t, cfg.TracingEnabled)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PREDICT_ENDPOINT", " http://scorer:8000 ")
	t.Setenv("REMOTE_TIMEOUT", "750ms")
	t.Setenv("REMOTE_CLAMP_SCORE", "true")
	t.Setenv("RISK_LOCAL_TZ", "Asia/Kolkata")
	t.Setenv("KAFKA_BROKERS", "k1:9092, ,k2:9092")
	t.Setenv("RATE_LIMIT", "25")
	t.Setenv("GRPC_REFLECTION", "1")

	cfg := config.Load()

	assert.True(t, cfg.UsesRemote())
	assert.Equal(t, "http://scorer:8000", cfg.PredictEndpoint)
	assert.Equal(t, 750*time.Millisecond, cfg.RemoteTimeout)
	assert.True(t, cfg.RemoteClampScore)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 25, cfg.RateLimit)
	assert.True(t, cfg.GRPCReflection)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())
	require.NoError(t, cfg.Validate())
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	t.Setenv("RATE_LIMIT", "fast")
	t.Setenv("REMOTE_TIMEOUT", "soon")
	t.Setenv("REMOTE_CLAMP_SCORE", "maybe")

	cfg := config.Load()

	assert.Equal(t, 100, cfg.RateLimit)
	assert.Zero(t, cfg.RemoteTimeout)
	assert.False(t, cfg.RemoteClampScore)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "relative endpoint", mutate: func(c *config.Config) { c.PredictEndpoint = "scorer/predict" }, wantErr: "PREDICT_ENDPOINT"},
		{name: "unsupported scheme", mutate: func(c *config.Config) { c.PredictEndpoint = "ftp://scorer" }, wantErr: "PREDICT_ENDPOINT"},
		{name: "unknown timezone", mutate: func(c *config.Config) { c.LocalTimezone = "Mars/Olympus" }, wantErr: "RISK_LOCAL_TZ"},
		{name: "negative rate limit", mutate: func(c *config.Config) { c.RateLimit = -1 }, wantErr: "RATE_LIMIT"},
		{name: "negative timeout", mutate: func(c *config.Config) { c.RemoteTimeout = -time.Second }, wantErr: "REMOTE_TIMEOUT"},
		{name: "brokers without topic", mutate: func(c *config.Config) {
			c.KafkaBrokers = []string{"k1:9092"}
			c.KafkaTopic = ""
		}, wantErr: "KAFKA_TOPIC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Config{KafkaTopic: "risk.events", RateLimit: 10}
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLocation_Unset(t *testing.T) {
	loc, err := config.Config{}.Location()
	require.NoError(t, err)
	assert.Nil(t, loc)
}
