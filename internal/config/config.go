package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	LogLevel         string
	DatabaseURL      string
	DatabaseMaxConns int
	RedisURL         string
	NATSURL          string
	NATSSubject      string
	TrendingCacheTTL time.Duration
	SeedDemo         bool
	CORSOrigins      []string
	RateLimitMax     int
	RateLimitWindow  time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CAMPUS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Campus Activity Portal")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.url", "sqlite:campus.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("nats.subject", "campus.notifications")
	v.SetDefault("trending.cache_ttl", "30s")
	v.SetDefault("seed.demo", false)
	v.SetDefault("cors.origins", "*")
	v.SetDefault("ratelimit.max", 30)
	v.SetDefault("ratelimit.window", "1m")

	ttl, err := time.ParseDuration(v.GetString("trending.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid trending cache ttl: %w", err)
	}

	window, err := time.ParseDuration(v.GetString("ratelimit.window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid rate limit window: %w", err)
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		LogLevel:         strings.ToLower(v.GetString("log.level")),
		DatabaseURL:      strings.TrimSpace(v.GetString("database.url")),
		DatabaseMaxConns: v.GetInt("database.max_open_conns"),
		RedisURL:         strings.TrimSpace(v.GetString("redis.url")),
		NATSURL:          strings.TrimSpace(v.GetString("nats.url")),
		NATSSubject:      v.GetString("nats.subject"),
		TrendingCacheTTL: ttl,
		SeedDemo:         v.GetBool("seed.demo"),
		CORSOrigins:      splitList(v.GetString("cors.origins")),
		RateLimitMax:     v.GetInt("ratelimit.max"),
		RateLimitWindow:  window,
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}

	if cfg.DatabaseMaxConns <= 0 {
		cfg.DatabaseMaxConns = 10
	}

	if cfg.RateLimitMax <= 0 {
		cfg.RateLimitMax = 30
	}

	return cfg, nil
}

func splitList(input string) []string {
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
