package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultSessionGrace = "24h"
	defaultCleanupDry   = "false"
)

// SessionRuntimeConfig drives the session cleanup job. Grace is how long
// a session row is kept past its expiry before being pruned, so that the
// login portal's own audit queries still see recently expired sessions.
type SessionRuntimeConfig struct {
	AppEnv string
	Grace  time.Duration
	DryRun bool
}

func LoadSessionRuntimeConfig() (*SessionRuntimeConfig, error) {
	cfg := &SessionRuntimeConfig{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = defaultAppEnv
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	var err error
	cfg.Grace, err = parseDurationEnv("SESSION_GRACE", defaultSessionGrace)
	if err != nil {
		return nil, err
	}
	cfg.DryRun = parseBoolEnv("SESSION_CLEANUP_DRY_RUN", defaultCleanupDry)

	if err := validateSessionRuntime(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateSessionRuntime(cfg *SessionRuntimeConfig) error {
	if cfg.Grace < 0 {
		return fmt.Errorf("SESSION_GRACE must be >= 0")
	}
	if isProdLike(cfg.AppEnv) && strings.TrimSpace(os.Getenv("SESSION_UUID")) != "" {
		return fmt.Errorf("in prod/release SESSION_UUID must not be set")
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}
