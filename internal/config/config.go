package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings, parsed from the environment.
// With nothing set, the server runs on :8080 with an in-memory store and a
// throwaway signing secret, which is fine for development and useless for
// anything else: a restart invalidates every credential.
type Config struct {
	Port          string        `env:"PORT" envDefault:"8080"`
	DBPath        string        `env:"AUCTION_DB_PATH"`
	JWTSecret     string        `env:"AUCTION_JWT_SECRET"`
	SessionTTL    time.Duration `env:"AUCTION_SESSION_TTL" envDefault:"1h"`
	SweepInterval time.Duration `env:"AUCTION_SESSION_SWEEP_INTERVAL" envDefault:"5m"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("parse config: session TTL must be positive")
	}
	if cfg.JWTSecret == "" {
		secret, err := generateSecret()
		if err != nil {
			return Config{}, err
		}
		cfg.JWTSecret = secret
	}
	return cfg, nil
}

func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate dev secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
