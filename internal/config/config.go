package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	defaultPort     = "8080"
	defaultAppEnv   = "dev"
	defaultLoginURL = "https://login.typsa.pe/"
)

type Config struct {
	AppEnv   string
	Port     string
	MainDSN  string
	ReadDSN  string
	LoginURL string
	// SessionUUID overrides the cookie lookup, used by operators probing a
	// deployment with a known session.
	SessionUUID string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = defaultAppEnv
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = getEnv("PORT", defaultPort)
	cfg.LoginURL = getEnv("LOGIN_URL", defaultLoginURL)
	cfg.SessionUUID = strings.TrimSpace(os.Getenv("SESSION_UUID"))

	cfg.MainDSN = strings.TrimSpace(os.Getenv("MAIN_DATABASE_URL"))
	if cfg.MainDSN == "" {
		return nil, fmt.Errorf("MAIN_DATABASE_URL is empty")
	}
	cfg.ReadDSN = strings.TrimSpace(os.Getenv("READ_DATABASE_URL"))
	if cfg.ReadDSN == "" {
		return nil, fmt.Errorf("READ_DATABASE_URL is empty")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.AppEnv == "dev" || c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
