package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Source kinds accepted by SOURCE_KIND
const (
	SourceWorkbook  = "workbook"
	SourceRemote    = "remote"
	SourceArchive   = "archive"
	SourcePostgres  = "postgres"
	SourceDirectory = "directory"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Ranking data
	Source SourceConfig
	Period PeriodConfig
	Cache  CacheConfig

	// Database (read-only ranking source)
	Database DatabaseConfig

	// Redis (second-level table cache)
	Redis RedisConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
	MetricsPort    string
}

// SourceConfig selects and parameterises the ranking data source
type SourceConfig struct {
	Kind string

	// Path is the workbook (.xlsx), archive (.zip) or directory on disk
	Path string

	// Remote per-period files: {BaseURL}{period}{Suffix}
	BaseURL  string
	Suffix   string
	IndexURL string // optional HTML listing of available files

	FetchTimeout time.Duration
	RatePerSec   float64
}

// PeriodConfig is the calendar range for which ranking tables exist (YYYYMM)
type PeriodConfig struct {
	Start string
	End   string
}

// CacheConfig controls the per-period table cache
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	WarmSchedule string // cron expression, empty disables warming
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Source: SourceConfig{
			Kind:         strings.ToLower(getEnv("SOURCE_KIND", SourceWorkbook)),
			Path:         getEnv("SOURCE_PATH", "combined_ranking_new_method.xlsx"),
			BaseURL:      getEnv("SOURCE_BASE_URL", ""),
			Suffix:       getEnv("SOURCE_SUFFIX", ".csv"),
			IndexURL:     getEnv("SOURCE_INDEX_URL", ""),
			FetchTimeout: getEnvAsDuration("FETCH_TIMEOUT", "10s"),
			RatePerSec:   getEnvAsFloat("FETCH_RATE_PER_SEC", 5),
		},

		Period: PeriodConfig{
			Start: getEnv("PERIOD_START", "202004"),
			End:   getEnv("PERIOD_END", "202309"),
		},

		Cache: CacheConfig{
			Enabled:      getEnvAsBool("CACHE_ENABLED", true),
			TTL:          getEnvAsDuration("CACHE_TTL", "24h"),
			WarmSchedule: getEnv("WARM_SCHEDULE", ""),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
		MetricsPort:    getEnv("METRICS_PORT", "9090"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadFrom loads path into the environment first; variables already set win.
// An empty path behaves like Load.
func LoadFrom(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", path, err)
		}
	}
	return Load()
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Source.Kind {
	case SourceWorkbook, SourceArchive, SourceDirectory:
		if c.Source.Path == "" {
			return fmt.Errorf("SOURCE_PATH is required for source kind %q", c.Source.Kind)
		}
	case SourceRemote:
		if c.Source.BaseURL == "" {
			return fmt.Errorf("SOURCE_BASE_URL is required for source kind %q", c.Source.Kind)
		}
	case SourcePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for source kind %q", c.Source.Kind)
		}
	default:
		return fmt.Errorf("SOURCE_KIND must be one of: workbook, remote, archive, postgres, directory")
	}

	if c.Source.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}

	if len(c.Period.Start) != 6 || len(c.Period.End) != 6 {
		return fmt.Errorf("PERIOD_START and PERIOD_END must be YYYYMM")
	}
	if c.Period.Start > c.Period.End {
		return fmt.Errorf("PERIOD_START %s is after PERIOD_END %s", c.Period.Start, c.Period.End)
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
