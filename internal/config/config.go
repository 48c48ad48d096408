// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr    string
	DBPath        string
	AdminUsername string
	AdminPassword string
	BusyTimeout   time.Duration
	RetryMax      uint64
	RetryTimeout  time.Duration
	CORSOrigins   []string
}

// HasAdminPassword reports whether an admin password was configured. When it
// was not, the composition root generates one on first start.
func (c *Config) HasAdminPassword() bool {
	return c.AdminPassword != ""
}

// Load reads configuration from environment variables and returns a validated Config.
// All variables are optional: ECHOCHAMBER_LISTEN_ADDR (127.0.0.1:8080),
// ECHOCHAMBER_DB_PATH (echochamber.db), ECHOCHAMBER_ADMIN_USERNAME (owner),
// ECHOCHAMBER_ADMIN_PASSWORD, ECHOCHAMBER_BUSY_TIMEOUT (5s),
// ECHOCHAMBER_RETRY_MAX (8), ECHOCHAMBER_RETRY_TIMEOUT (10s) and
// ECHOCHAMBER_CORS_ORIGINS (*). Malformed values fail fast.
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("ECHOCHAMBER_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "echochamber.db"
	if v, ok := os.LookupEnv("ECHOCHAMBER_DB_PATH"); ok {
		dbPath = v
	}

	adminUsername := "owner"
	if v, ok := os.LookupEnv("ECHOCHAMBER_ADMIN_USERNAME"); ok {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, fmt.Errorf("ECHOCHAMBER_ADMIN_USERNAME must not be empty")
		}
		adminUsername = v
	}

	busyTimeout, err := durationEnv("ECHOCHAMBER_BUSY_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	retryTimeout, err := durationEnv("ECHOCHAMBER_RETRY_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	retryMax := uint64(8)
	if v, ok := os.LookupEnv("ECHOCHAMBER_RETRY_MAX"); ok {
		parsed, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("ECHOCHAMBER_RETRY_MAX has invalid count %q: %w", v, err)
		}
		retryMax = parsed
	}

	var corsOrigins []string
	if v, ok := os.LookupEnv("ECHOCHAMBER_CORS_ORIGINS"); ok && v != "" {
		for _, origin := range strings.Split(v, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				corsOrigins = append(corsOrigins, origin)
			}
		}
	}
	if corsOrigins == nil {
		corsOrigins = []string{"*"}
	}

	return &Config{
		ListenAddr:    listenAddr,
		DBPath:        dbPath,
		AdminUsername: adminUsername,
		AdminPassword: os.Getenv("ECHOCHAMBER_ADMIN_PASSWORD"),
		BusyTimeout:   busyTimeout,
		RetryMax:      retryMax,
		RetryTimeout:  retryTimeout,
		CORSOrigins:   corsOrigins,
	}, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid duration %q: %w", key, v, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return parsed, nil
}
