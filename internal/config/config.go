package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	SSOConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

// Settings is the concrete Config, populated from the environment by Load.
type Settings struct {
	EnvVars
	SSO
}

var _ Config = (*Settings)(nil)

// Load reads optional dotenv files (".env" when none are named) without
// overriding variables already set, then parses the environment.
func Load(dotenvFiles ...string) (*Settings, error) {
	if err := godotenv.Load(dotenvFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load dotenv: %w", err)
	}

	var s Settings
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &s, nil
}
