package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	Addr        string
	BackendURL  *url.URL
	AccessToken string
	HTTPTimeout time.Duration
	LogLevel    string
}

func Load() (Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()
	return LoadFromEnv(os.Getenv)
}

func LoadFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Env:         getenv("APP_ENV"),
		Addr:        getenv("APP_ADDR"),
		AccessToken: strings.TrimSpace(getenv("APP_ACCESS_TOKEN")),
		LogLevel:    getenv("APP_LOG_LEVEL"),
	}

	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8089"
	}

	backendRaw := strings.TrimSpace(getenv("APP_BACKEND_URL"))
	if backendRaw != "" {
		parsed, err := url.Parse(backendRaw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_BACKEND_URL: %w", err)
		}
		if !parsed.IsAbs() || parsed.Host == "" {
			return Config{}, errors.New("APP_BACKEND_URL: must be an absolute URL")
		}
		switch parsed.Scheme {
		case "http", "https":
		default:
			return Config{}, errors.New("APP_BACKEND_URL: scheme must be http or https")
		}
		cfg.BackendURL = parsed
	}

	timeoutRaw := getenv("APP_HTTP_TIMEOUT")
	if timeoutRaw == "" {
		cfg.HTTPTimeout = 20 * time.Second
	} else {
		timeout, err := time.ParseDuration(timeoutRaw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_HTTP_TIMEOUT: %w", err)
		}
		if timeout <= 0 {
			return Config{}, errors.New("APP_HTTP_TIMEOUT: must be > 0")
		}
		cfg.HTTPTimeout = timeout
	}

	switch cfg.Env {
	case "dev", "prod", "test":
	default:
		return Config{}, errors.New("APP_ENV: must be one of dev, test, prod")
	}

	if cfg.IsProd() {
		if cfg.BackendURL == nil {
			return Config{}, errors.New("APP_BACKEND_URL: required in prod")
		}
		if cfg.BackendURL.Scheme != "https" {
			return Config{}, errors.New("APP_BACKEND_URL: must be https in prod")
		}
	}

	return cfg, nil
}

func (c Config) IsProd() bool { return c.Env == "prod" }
