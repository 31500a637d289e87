package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults fill missing keys", func(t *testing.T) {
		// Given: a file with only the log level
		path := writeConfig(t, "log-level: debug\n")

		// When: loading it
		conf, err := Load(path)

		// Then: everything else is defaulted
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "8080", conf.SocketPort)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, "alternate", conf.Session.OpeningPolicy)
		assert.Equal(t, 30*time.Minute, conf.Session.IdleTimeout)
		assert.Equal(t, time.Minute, conf.Session.SweepInterval)
		assert.Equal(t, 24*time.Hour, conf.Session.SummaryTTL)
	})

	t.Run("Session section is parsed", func(t *testing.T) {
		path := writeConfig(t, `
session:
  opening-policy: loser-opens
  idle-timeout: 5m
  sweep-interval: 10s
  summary-ttl: 1h
`)

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "loser-opens", conf.Session.OpeningPolicy)
		assert.Equal(t, 5*time.Minute, conf.Session.IdleTimeout)
		assert.Equal(t, 10*time.Second, conf.Session.SweepInterval)
		assert.Equal(t, time.Hour, conf.Session.SummaryTTL)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, "redis:\n  host: cache\n")
		t.Setenv("REDIS_HOST", "redis.internal")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "redis.internal:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("Negative sweep interval is rejected", func(t *testing.T) {
		path := writeConfig(t, "log-level: info\n")
		t.Setenv("SESSION_SWEEP_INTERVAL", "-1s")

		_, err := Load(path)

		require.Error(t, err)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))

		require.Error(t, err)
	})
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "absent.yml"))
	})
}
