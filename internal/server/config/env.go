package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// loadDotEnv is a seam for tests. Existing environment variables win over
// values from the file.
var loadDotEnv = func() error { return godotenv.Load() }

// parseEnv overlays values from environment variables. A missing .env file is
// not an error; an unreadable one, or a malformed number, panics like the
// other config sources do.
//
// Recognised variables:
//
//	KIDSLABS_HTTP_ADDR, NEON_DB_URI, DATABASE_URL, JWT_SECRET_KEY,
//	KIDSLABS_MEDIA_BASE_URL, KIDSLABS_ROUTE_PREFIX, KIDSLABS_CORS_ORIGINS,
//	KIDSLABS_LOG_BACKEND, KIDSLABS_LOG_LEVEL, KIDSLABS_METRICS,
//	KIDSLABS_SHUTDOWN_TIMEOUT, KIDSLABS_PASSWORD_ITERATIONS,
//	KIDSLABS_PASSWORD_SALT_LENGTH
func parseEnv(config *Config) {
	if err := loadDotEnv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Errorf("loading .env: %w", err))
	}

	setString(&config.HTTPAddr, "KIDSLABS_HTTP_ADDR")
	setString(&config.DatabaseDSN, "DATABASE_URL")
	// NEON_DB_URI is what the deployment has always exported; it wins.
	setString(&config.DatabaseDSN, "NEON_DB_URI")
	setString(&config.SecretKey, "JWT_SECRET_KEY")
	setString(&config.MediaBaseURL, "KIDSLABS_MEDIA_BASE_URL")
	setString(&config.RoutePrefix, "KIDSLABS_ROUTE_PREFIX")
	setString(&config.LogBackend, "KIDSLABS_LOG_BACKEND")
	setString(&config.LogLevel, "KIDSLABS_LOG_LEVEL")

	if v, ok := lookup("KIDSLABS_CORS_ORIGINS"); ok {
		config.CORSOrigins = splitList(v)
	}
	if v, ok := lookup("KIDSLABS_METRICS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("KIDSLABS_METRICS: %w", err))
		}
		config.MetricsEnabled = b
	}
	if v, ok := lookup("KIDSLABS_SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("KIDSLABS_SHUTDOWN_TIMEOUT: %w", err))
		}
		config.ShutdownTimeout = d
	}
	setInt(&config.PasswordIterations, "KIDSLABS_PASSWORD_ITERATIONS")
	setInt(&config.PasswordSaltLength, "KIDSLABS_PASSWORD_SALT_LENGTH")
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func setString(dst *string, name string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

func setInt(dst *int, name string) {
	if v, ok := lookup(name); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", name, err))
		}
		*dst = n
	}
}

// splitList splits a comma separated list, dropping blanks.
func splitList(s string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
