package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "database", cfg.Thread.Store)
	assert.Equal(t, cfg.Database.WriterDSN, cfg.Database.ReaderDSN)
	assert.Equal(t, "rentcamp-tracking", cfg.Observability.ServiceName)
	assert.Empty(t, cfg.Auth.AdminTokenHashes)
}

func TestNew_Overrides(t *testing.T) {
	t.Setenv("THREAD_STORE", " Memory ")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("MESSAGING_ENABLED", "false")
	t.Setenv("AUTH_ADMIN_TOKEN_HASHES", "hash-a, ,hash-b")
	t.Setenv("CACHE_DEFAULT_TTL", "30s")
	t.Setenv("OBS_PROMETHEUS_PATH", "prom")
	t.Setenv("WORKER_CONCURRENCY", "0")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Thread.Store)
	assert.Equal(t, "noop", cfg.Cache.Driver)
	assert.Equal(t, "noop", cfg.Messaging.Driver)
	assert.Equal(t, []string{"hash-a", "hash-b"}, cfg.Auth.AdminTokenHashes)
	assert.Equal(t, 30*time.Second, cfg.Cache.DefaultTTL)
	assert.Equal(t, "/prom", cfg.Observability.PrometheusPath)
	assert.Equal(t, 1, cfg.Messaging.Workers.Concurrency)
}

func TestNew_RejectsInvalid(t *testing.T) {
	tests := map[string][2]string{
		"thread store":     {"THREAD_STORE", "mongo"},
		"cache driver":     {"CACHE_DRIVER", "memcached"},
		"messaging driver": {"MESSAGING_DRIVER", "nats"},
		"http port":        {"HTTP_PORT", "-1"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := New()
			assert.Error(t, err)
		})
	}
}

func TestNew_RabbitMQ(t *testing.T) {
	t.Setenv("MESSAGING_DRIVER", "rabbitmq")
	t.Setenv("RABBITMQ_PREFETCH", "-3")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "rabbitmq", cfg.Messaging.Driver)
	assert.Equal(t, 1, cfg.Messaging.RabbitMQ.Prefetch)
}
