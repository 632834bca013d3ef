package config

import (
	"encoding/json"
	"os"

	"github.com/kidslabs/catalog/internal/flagx"
	"github.com/kidslabs/catalog/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file. Pointer
// fields distinguish "absent" from zero values so a partial file only
// overrides what it names.
type JsonConfig struct {
	HTTPAddr           *string         `json:"http_addr"`
	DatabaseDSN        *string         `json:"database_dsn"`
	SecretKey          *string         `json:"secret_key"`
	MediaBaseURL       *string         `json:"media_base_url"`
	RoutePrefix        *string         `json:"route_prefix"`
	CORSOrigins        []string        `json:"cors_origins"`
	LogBackend         *string         `json:"log_backend"`
	LogLevel           *string         `json:"log_level"`
	MetricsEnabled     *bool           `json:"metrics_enabled"`
	ShutdownTimeout    *timex.Duration `json:"shutdown_timeout"`
	PasswordIterations *int            `json:"password_iterations"`
	PasswordSaltLength *int            `json:"password_salt_length"`
}

// parseJson loads the file named by -c/-config, if any, and copies the
// fields it sets into config. Unreadable files and invalid JSON panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	copyPtr(&config.HTTPAddr, c.HTTPAddr)
	copyPtr(&config.DatabaseDSN, c.DatabaseDSN)
	copyPtr(&config.SecretKey, c.SecretKey)
	copyPtr(&config.MediaBaseURL, c.MediaBaseURL)
	copyPtr(&config.RoutePrefix, c.RoutePrefix)
	copyPtr(&config.LogBackend, c.LogBackend)
	copyPtr(&config.LogLevel, c.LogLevel)
	copyPtr(&config.MetricsEnabled, c.MetricsEnabled)
	copyPtr(&config.PasswordIterations, c.PasswordIterations)
	copyPtr(&config.PasswordSaltLength, c.PasswordSaltLength)

	if c.CORSOrigins != nil {
		config.CORSOrigins = c.CORSOrigins
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}

func copyPtr[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
