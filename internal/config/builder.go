package config

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
)

// Load builds the configuration from flags parsed out of args, the
// environment and the defaults. Callers may register their own flags on
// flags beforehand; the remaining arguments are available as flags.Args().
func Load(flags *flag.FlagSet, args []string) (*Config, error) {
	return newConfigBuilder().
		withDotEnv(".env").
		withFlags(flags, args).
		withEnv().
		withDefaults().
		build()
}

type configBuilder struct {
	configs []*Config
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*Config, 0, 3),
	}
}

func (b *configBuilder) build() (*Config, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occurred during building config: %w", b.err)
	}

	config := new(Config)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// withDotEnv loads path into the process environment. A missing file is not
// an error; variables already set are kept.
func (b *configBuilder) withDotEnv(path string) *configBuilder {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		b.err = errors.Join(b.err, fmt.Errorf("error loading %s: %w", path, err))
	}
	return b
}

func (b *configBuilder) withFlags(flags *flag.FlagSet, args []string) *configBuilder {
	flagCfg, err := parseFlags(flags, args)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, flagCfg)
	return b
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &Config{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withDefaults() *configBuilder {
	b.configs = append(b.configs, Defaults())
	return b
}
