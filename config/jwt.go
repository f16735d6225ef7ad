package config

import (
	"fmt"
	"time"
)

const defaultJWTSecret = "your-secret-key-change-this-in-production"

type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	Expiration time.Duration `yaml:"expiration"`
}

func (c JWTConfig) validate(env string) error {
	if c.Expiration <= 0 {
		return fmt.Errorf("config: jwt expiration must be positive")
	}
	if env == "production" && (c.Secret == "" || c.Secret == defaultJWTSecret) {
		return fmt.Errorf("config: JWT_SECRET must be set in production")
	}
	return nil
}
