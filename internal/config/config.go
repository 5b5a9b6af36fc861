// Package config loads the settings of the formcheck binary.
//
// Values are merged from, in priority order (first non-zero value wins):
//  1. Command-line flags
//  2. Environment variables (FORMCHECK_*), after loading an optional .env
//     file from the working directory
//  3. Built-in defaults
package config

import (
	"time"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "FORMCHECK_"

// Config is the top-level configuration of the formcheck binary.
type Config struct {
	// RulesPath is the YAML or JSON rule set to validate against. Empty
	// selects the built-in contact form.
	// Env: FORMCHECK_RULES
	RulesPath string `env:"RULES"`

	// Server holds the HTTP settings of the serve command.
	Server Server `envPrefix:"SERVER_"`

	// Log holds logging settings.
	Log Log `envPrefix:"LOG_"`
}

// Server holds network address and timeout settings for the HTTP server.
type Server struct {
	// Address is the TCP address to listen on, e.g. ":8080".
	// Env: FORMCHECK_SERVER_ADDRESS
	Address string `env:"ADDRESS"`

	// ReadTimeout bounds reading a whole request, body included.
	// Env: FORMCHECK_SERVER_READ_TIMEOUT
	ReadTimeout time.Duration `env:"READ_TIMEOUT"`

	// WriteTimeout bounds writing a response.
	// Env: FORMCHECK_SERVER_WRITE_TIMEOUT
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT"`

	// ShutdownTimeout bounds the graceful shutdown.
	// Env: FORMCHECK_SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// Log holds logging settings.
type Log struct {
	// Level is a zerolog level name: trace, debug, info, warn, error.
	// Env: FORMCHECK_LOG_LEVEL
	Level string `env:"LEVEL"`
}

// Defaults returns the configuration used for every unset value.
func Defaults() *Config {
	return &Config{
		Server: Server{
			Address:         ":8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: Log{Level: "info"},
	}
}
