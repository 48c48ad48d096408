package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every ECHOCHAMBER_ env var that Load() reads.
var allConfigKeys = []string{
	"ECHOCHAMBER_LISTEN_ADDR",
	"ECHOCHAMBER_DB_PATH",
	"ECHOCHAMBER_ADMIN_USERNAME",
	"ECHOCHAMBER_ADMIN_PASSWORD",
	"ECHOCHAMBER_BUSY_TIMEOUT",
	"ECHOCHAMBER_RETRY_MAX",
	"ECHOCHAMBER_RETRY_TIMEOUT",
	"ECHOCHAMBER_CORS_ORIGINS",
}

// isolateConfigEnv saves and unsets all ECHOCHAMBER_ env vars so tests don't
// inherit values from the host environment (e.g. a running dev server).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("ECHOCHAMBER_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("ECHOCHAMBER_DB_PATH", "/tmp/test.db")
	t.Setenv("ECHOCHAMBER_ADMIN_USERNAME", "root")
	t.Setenv("ECHOCHAMBER_ADMIN_PASSWORD", "s3cret")
	t.Setenv("ECHOCHAMBER_BUSY_TIMEOUT", "250ms")
	t.Setenv("ECHOCHAMBER_RETRY_MAX", "3")
	t.Setenv("ECHOCHAMBER_RETRY_TIMEOUT", "2s")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, "root", cfg.AdminUsername)
	assert.Equal(t, "s3cret", cfg.AdminPassword)
	assert.True(t, cfg.HasAdminPassword())
	assert.Equal(t, 250*time.Millisecond, cfg.BusyTimeout)
	assert.Equal(t, uint64(3), cfg.RetryMax)
	assert.Equal(t, 2*time.Second, cfg.RetryTimeout)
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "echochamber.db", cfg.DBPath)
	assert.Equal(t, "owner", cfg.AdminUsername)
	assert.False(t, cfg.HasAdminPassword())
	assert.Equal(t, 5*time.Second, cfg.BusyTimeout)
	assert.Equal(t, uint64(8), cfg.RetryMax)
	assert.Equal(t, 10*time.Second, cfg.RetryTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_InvalidDurations(t *testing.T) {
	for _, key := range []string{"ECHOCHAMBER_BUSY_TIMEOUT", "ECHOCHAMBER_RETRY_TIMEOUT"} {
		t.Run(key, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv(key, "not-a-duration")

			cfg, err := Load()

			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_NonPositiveDuration(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("ECHOCHAMBER_RETRY_TIMEOUT", "0s")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ECHOCHAMBER_RETRY_TIMEOUT")
}

func TestLoad_InvalidRetryMax(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("ECHOCHAMBER_RETRY_MAX", "-1")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ECHOCHAMBER_RETRY_MAX")
}

func TestLoad_EmptyAdminUsername(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("ECHOCHAMBER_ADMIN_USERNAME", "  ")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ECHOCHAMBER_ADMIN_USERNAME")
}

func TestLoad_CORSOrigins(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("ECHOCHAMBER_CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}
