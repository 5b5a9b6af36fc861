package config

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Validation errors returned by Config.validate.
var (
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	ErrInvalidLogConfigs    = errors.New("invalid log configuration")
)

// validate checks the merged configuration before it is used at startup.
func (cfg *Config) validate() error {
	if cfg.Server.Address == "" {
		return fmt.Errorf("%w: empty address", ErrInvalidServerConfigs)
	}
	if cfg.Server.ReadTimeout < 0 || cfg.Server.WriteTimeout < 0 || cfg.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: negative timeout", ErrInvalidServerConfigs)
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLogConfigs, err)
	}

	return nil
}
