package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

var supportedProviders = []string{"hf", "gemini"}

// Config is the service configuration. Values come from the optional YAML file
// named by INTERVIEW_CONFIG_FILE and are then overridden by environment variables.
type Config struct {
	Provider       string        `yaml:"provider"`
	Port           string        `yaml:"port"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	JWTSecret      string        `yaml:"jwt_secret"`
	TokenTTL       time.Duration `yaml:"token_ttl"`
	ScoreCacheTTL  time.Duration `yaml:"score_cache_ttl"`
	AMQPURL        string        `yaml:"amqp_url"`
	Retry          RetryConfig   `yaml:"retry"`
	Store          StoreConfig   `yaml:"store"`
	Export         ExportConfig  `yaml:"export"`
}

// RetryConfig bounds retries of transient LLM failures per model.
type RetryConfig struct {
	MaxRetries  int           `yaml:"max_retries"`
	BaseBackoff time.Duration `yaml:"base_backoff"`
	MaxBackoff  time.Duration `yaml:"max_backoff"`
}

type StoreConfig struct {
	Backend    string         `yaml:"backend"`
	SQLitePath string         `yaml:"sqlite_path"`
	Postgres   PostgresConfig `yaml:"postgres"`
	Redis      RedisConfig    `yaml:"redis"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	Port     string `yaml:"port"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN renders the connection string gorm's postgres driver expects.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		p.Host, p.User, p.Password, p.DBName, p.Port, p.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ExportConfig controls the nightly results export job.
type ExportConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
	Dir      string `yaml:"dir"`
}

func defaults() *Config {
	return &Config{
		Provider:       "hf",
		Port:           "8080",
		AllowedOrigins: []string{"http://localhost:5173"},
		JWTSecret:      "dev",
		TokenTTL:       24 * time.Hour,
		ScoreCacheTTL:  15 * time.Minute,
		Retry: RetryConfig{
			MaxRetries:  2,
			BaseBackoff: 2 * time.Second,
			MaxBackoff:  5 * time.Second,
		},
		Store: StoreConfig{
			Backend:    StoreMemory,
			SQLitePath: "interview.db",
			Postgres: PostgresConfig{
				Host:     "localhost",
				User:     "postgres",
				Password: "postgres",
				DBName:   "postgres",
				Port:     "5432",
				SSLMode:  "disable",
			},
			Redis: RedisConfig{Addr: "localhost:6379"},
		},
		Export: ExportConfig{
			Schedule: "0 2 * * *",
			Dir:      "./exports",
		},
	}
}

// LoadConfig reads the optional YAML file, applies environment overrides and validates the result.
func LoadConfig() (*Config, error) {
	config := defaults()
	if path := os.Getenv("INTERVIEW_CONFIG_FILE"); path != "" {
		if err := readFile(path, config); err != nil {
			return nil, err
		}
	}
	applyEnv(config)
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func readFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	return nil
}

func applyEnv(c *Config) {
	c.Provider = getEnvOrDefault("AI_PROVIDER", c.Provider)
	c.Port = getEnvOrDefault("PORT", c.Port)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}
	c.JWTSecret = getEnvOrDefault("JWT_SECRET", c.JWTSecret)
	c.TokenTTL = getEnvDuration("TOKEN_TTL", c.TokenTTL)
	c.ScoreCacheTTL = getEnvDuration("SCORE_CACHE_TTL", c.ScoreCacheTTL)
	c.AMQPURL = getEnvOrDefault("AMQP_URL", c.AMQPURL)

	c.Retry.MaxRetries = getEnvInt("HF_MAX_RETRIES", c.Retry.MaxRetries)
	c.Retry.MaxRetries = getEnvInt("LLM_MAX_RETRIES", c.Retry.MaxRetries)
	c.Retry.BaseBackoff = getEnvDuration("LLM_BASE_BACKOFF", c.Retry.BaseBackoff)
	c.Retry.MaxBackoff = getEnvDuration("LLM_MAX_BACKOFF", c.Retry.MaxBackoff)

	c.Store.Backend = strings.ToLower(getEnvOrDefault("STORE_BACKEND", c.Store.Backend))
	c.Store.SQLitePath = getEnvOrDefault("SQLITE_PATH", c.Store.SQLitePath)
	pg := &c.Store.Postgres
	pg.Host = getEnvOrDefault("POSTGRES_HOST", pg.Host)
	pg.User = getEnvOrDefault("POSTGRES_USER", pg.User)
	pg.Password = getEnvOrDefault("POSTGRES_PASSWORD", pg.Password)
	pg.DBName = getEnvOrDefault("POSTGRES_DB", pg.DBName)
	pg.Port = getEnvOrDefault("POSTGRES_PORT", pg.Port)
	pg.SSLMode = getEnvOrDefault("POSTGRES_SSLMODE", pg.SSLMode)
	c.Store.Redis.Addr = getEnvOrDefault("REDIS_ADDR", c.Store.Redis.Addr)
	c.Store.Redis.Password = getEnvOrDefault("REDIS_PASSWORD", c.Store.Redis.Password)
	c.Store.Redis.DB = getEnvInt("REDIS_DB", c.Store.Redis.DB)

	if v := os.Getenv("RESULTS_EXPORT_ENABLED"); v != "" {
		c.Export.Enabled = v == "true"
	}
	c.Export.Schedule = getEnvOrDefault("RESULTS_EXPORT_SCHEDULE", c.Export.Schedule)
	c.Export.Dir = getEnvOrDefault("RESULTS_EXPORT_DIR", c.Export.Dir)
}

func validateConfig(config *Config) error {
	if !contains(supportedProviders, config.Provider) {
		return errors.New("unsupported AI provider: " + config.Provider + ". Currently supported: " + strings.Join(supportedProviders, ", "))
	}
	switch config.Store.Backend {
	case StoreMemory, StoreSQLite, StorePostgres, StoreRedis:
	default:
		return errors.New("unsupported store backend: " + config.Store.Backend)
	}
	if config.JWTSecret == "" {
		return errors.New("JWT secret must not be empty")
	}
	if config.TokenTTL <= 0 {
		return errors.New("token TTL must be positive")
	}
	if config.Retry.MaxRetries < 0 {
		return errors.New("LLM max retries must not be negative")
	}
	if config.Retry.BaseBackoff < 0 || config.Retry.MaxBackoff < config.Retry.BaseBackoff {
		return errors.New("LLM backoff must be non-negative with max_backoff >= base_backoff")
	}
	if config.Export.Enabled && config.Export.Dir == "" {
		return errors.New("results export is enabled but no export directory is set")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
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

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
