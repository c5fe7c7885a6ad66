package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Shopping    ShoppingConfig
	Suggestions SuggestionsConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Secure      bool   // Send HSTS and upgrade headers
	Debug       bool
	Environment string // "development", "production", "test"
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int32
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// ShoppingConfig configures the SerpApi Google Shopping integration and its
// redis-backed result cache.
type ShoppingConfig struct {
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	Location string
	Country  string // gl
	Language string // hl

	CacheTTL    time.Duration
	WarmSpec    string // cron spec for the warming job, empty disables it
	WarmTop     int    // number of popular queries refreshed per cycle
	WarmTries   int
	WarmBackoff time.Duration
}

type SuggestionsConfig struct {
	PageSize      int
	MaxLimit      int
	ExternalLimit int
	QueryKeywords int
	Timezone      string
	RateLimit     int // requests per client per minute, 0 disables
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Location resolves the reference timezone used for coupon expiry.
func (s SuggestionsConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvInt("SERVER_PORT", 8080),
			Secure:      getEnvBool("SERVER_SECURE", false),
			Debug:       getEnvBool("DEBUG", false),
			Environment: getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "giftmatch"),
			Password: getEnv("DB_PASSWORD", "giftmatch"),
			DBName:   getEnv("DB_NAME", "giftmatch"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 25)),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Shopping: ShoppingConfig{
			APIKey:      getEnv("SERPAPI_API_KEY", ""),
			BaseURL:     strings.TrimRight(getEnv("SERPAPI_BASE_URL", "https://serpapi.com"), "/"),
			Timeout:     time.Duration(getEnvInt("SERPAPI_TIMEOUT_MS", 4000)) * time.Millisecond,
			Location:    getEnv("SERPAPI_LOCATION", "Brazil"),
			Country:     getEnv("SERPAPI_GL", "br"),
			Language:    getEnv("SERPAPI_HL", "pt-br"),
			CacheTTL:    time.Duration(getEnvInt("SHOPPING_CACHE_TTL_MINUTES", 60)) * time.Minute,
			WarmSpec:    getEnv("SHOPPING_WARM_SPEC", "@every 30m"),
			WarmTop:     getEnvInt("SHOPPING_WARM_TOP", 20),
			WarmTries:   getEnvInt("SHOPPING_WARM_TRIES", 3),
			WarmBackoff: time.Duration(getEnvInt("SHOPPING_WARM_BACKOFF_MS", 500)) * time.Millisecond,
		},
		Suggestions: SuggestionsConfig{
			PageSize:      getEnvInt("SUGGESTIONS_PAGE_SIZE", 5),
			MaxLimit:      getEnvInt("SUGGESTIONS_MAX_LIMIT", 20),
			ExternalLimit: getEnvInt("SUGGESTIONS_EXTERNAL_LIMIT", 20),
			QueryKeywords: getEnvInt("SUGGESTIONS_QUERY_KEYWORDS", 3),
			Timezone:      getEnv("SUGGESTIONS_TIMEZONE", "America/Sao_Paulo"),
			RateLimit:     getEnvInt("SUGGESTIONS_RATE_LIMIT", 60),
		},
	}

	if cfg.Suggestions.PageSize < 1 {
		return nil, fmt.Errorf("SUGGESTIONS_PAGE_SIZE must be positive, got %d", cfg.Suggestions.PageSize)
	}
	if cfg.Suggestions.MaxLimit < cfg.Suggestions.PageSize {
		cfg.Suggestions.MaxLimit = cfg.Suggestions.PageSize
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
