package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppCfg struct {
	Env      string
	Port     string
	LogLevel string
}

type UpstreamCfg struct {
	BaseURL    string
	TimeoutSec int
}

type RedisCfg struct{ Addr string }

type SessionCfg struct{ TTL time.Duration }

type ViewsCfg struct {
	IdleTTL         time.Duration
	CacheTTL        time.Duration
	SearchDebounce  time.Duration
	PollInterval    time.Duration
	PollMaxAttempts int
}

type SecurityCfg struct {
	RateLimitPerMin int
	CORSOrigins     []string
}

type Cfg struct {
	App      AppCfg
	Upstream UpstreamCfg
	Redis    RedisCfg
	Session  SessionCfg
	Views    ViewsCfg
	Sec      SecurityCfg
}

// IsDevelopment reports whether the app runs locally.
func (c Cfg) IsDevelopment() bool {
	return c.App.Env == "development"
}

// Load reads the configuration and exits when a required setting is missing.
func Load() Cfg {
	cfg, err := Read()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	return cfg
}

// Read loads .env (if present) into the process environment and reads the
// configuration from it.
func Read() (Cfg, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("UPSTREAM_TIMEOUT_SEC", 30)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("VIEW_IDLE_TTL", "30m")
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("RATE_LIMIT_PER_MIN", 300)
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("SEARCH_DEBOUNCE", "500ms")
	v.SetDefault("POLL_INTERVAL", "3s")
	v.SetDefault("POLL_MAX_ATTEMPTS", 8)

	cfg := Cfg{
		App: AppCfg{
			Env:      v.GetString("APP_ENV"),
			Port:     v.GetString("APP_PORT"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Upstream: UpstreamCfg{
			BaseURL:    strings.TrimSpace(v.GetString("UPSTREAM_BASE_URL")),
			TimeoutSec: v.GetInt("UPSTREAM_TIMEOUT_SEC"),
		},
		Redis:   RedisCfg{Addr: v.GetString("REDIS_ADDR")},
		Session: SessionCfg{TTL: v.GetDuration("SESSION_TTL")},
		Views: ViewsCfg{
			IdleTTL:         v.GetDuration("VIEW_IDLE_TTL"),
			CacheTTL:        v.GetDuration("CACHE_TTL"),
			SearchDebounce:  v.GetDuration("SEARCH_DEBOUNCE"),
			PollInterval:    v.GetDuration("POLL_INTERVAL"),
			PollMaxAttempts: v.GetInt("POLL_MAX_ATTEMPTS"),
		},
		Sec: SecurityCfg{
			RateLimitPerMin: v.GetInt("RATE_LIMIT_PER_MIN"),
			CORSOrigins:     splitList(v.GetString("CORS_ORIGINS")),
		},
	}

	if cfg.Upstream.BaseURL == "" {
		return cfg, errors.New("UPSTREAM_BASE_URL is required")
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
