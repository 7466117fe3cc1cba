package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the console's runtime configuration derived from environment
// variables.
type Config struct {
	BaseURL     string
	Email       string
	Password    string
	HTTPTimeout time.Duration
	LogLevel    string
}

// StubConfig holds the stub backend's runtime configuration.
type StubConfig struct {
	Port             string
	JWTSecret        string
	SessionTTL       time.Duration
	AuthRateLimitRPS int
	LogLevel         string
}

// Load reads the console configuration using viper.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	bindEnv(v, "base_url", "FINCONSOLE_BASE_URL", "BASE_URL")
	bindEnv(v, "email", "FINCONSOLE_EMAIL", "EMAIL")
	bindEnv(v, "password", "FINCONSOLE_PASSWORD", "PASSWORD")
	bindEnv(v, "http_timeout", "FINCONSOLE_HTTP_TIMEOUT", "HTTP_TIMEOUT")
	bindEnv(v, "log_level", "FINCONSOLE_LOG_LEVEL", "LOG_LEVEL")

	v.SetDefault("base_url", "http://localhost:8090")
	v.SetDefault("http_timeout", "15s")
	v.SetDefault("log_level", "info")

	timeout, err := time.ParseDuration(v.GetString("http_timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}

	cfg := &Config{
		BaseURL:     strings.TrimRight(v.GetString("base_url"), "/"),
		Email:       v.GetString("email"),
		Password:    v.GetString("password"),
		HTTPTimeout: timeout,
		LogLevel:    v.GetString("log_level"),
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("BASE_URL is required")
	}
	if strings.TrimSpace(cfg.Email) == "" {
		return nil, fmt.Errorf("EMAIL is required")
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("PASSWORD is required")
	}

	return cfg, nil
}

// LoadStub reads the stub backend configuration.
func LoadStub() (*StubConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	bindEnv(v, "stub_port", "FINCONSOLE_STUB_PORT", "STUB_PORT")
	bindEnv(v, "stub_jwt_secret", "FINCONSOLE_STUB_JWT_SECRET", "STUB_JWT_SECRET")
	bindEnv(v, "stub_session_ttl", "FINCONSOLE_STUB_SESSION_TTL", "STUB_SESSION_TTL")
	bindEnv(v, "stub_auth_rate_limit_rps", "FINCONSOLE_STUB_AUTH_RATE_LIMIT_RPS", "STUB_AUTH_RATE_LIMIT_RPS")
	bindEnv(v, "log_level", "FINCONSOLE_LOG_LEVEL", "LOG_LEVEL")

	v.SetDefault("stub_port", "8090")
	v.SetDefault("stub_session_ttl", "24h")
	v.SetDefault("stub_auth_rate_limit_rps", 10)
	v.SetDefault("log_level", "info")

	ttl, err := time.ParseDuration(v.GetString("stub_session_ttl"))
	if err != nil {
		return nil, fmt.Errorf("invalid STUB_SESSION_TTL: %w", err)
	}

	cfg := &StubConfig{
		Port:             v.GetString("stub_port"),
		JWTSecret:        v.GetString("stub_jwt_secret"),
		SessionTTL:       ttl,
		AuthRateLimitRPS: max(v.GetInt("stub_auth_rate_limit_rps"), 1),
		LogLevel:         v.GetString("log_level"),
	}

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, fmt.Errorf("STUB_JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("STUB_JWT_SECRET must be at least 32 characters")
	}

	return cfg, nil
}

func bindEnv(v *viper.Viper, key string, names ...string) {
	args := append([]string{key}, names...)
	_ = v.BindEnv(args...)
}
