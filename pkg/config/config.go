package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	Upstream   UpstreamConfig
	Wizard     WizardConfig
	MatchCache MatchCacheConfig
	RunHistory RunHistoryConfig
	Export     ExportConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience []string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// UpstreamConfig points at the tournament API that owns stages, matches and the scheduler endpoints.
type UpstreamConfig struct {
	BaseURL            string
	Timeout            time.Duration
	ManualSchedulePath string
}

// WizardConfig bounds the lifetime of in-memory scheduling wizard sessions.
type WizardConfig struct {
	SessionTTL    time.Duration
	SweepInterval time.Duration
}

// MatchCacheConfig governs the shared match-list cache.
type MatchCacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// RunHistoryConfig toggles persistence of scheduling attempts.
type RunHistoryConfig struct {
	Enabled bool
	Workers int
	Retries int
}

// ExportConfig controls published match sheets. An empty SigningSecret disables publishing.
type ExportConfig struct {
	Dir           string
	LinkTTL       time.Duration
	SigningSecret string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:   v.GetString("JWT_SECRET"),
		Issuer:   v.GetString("JWT_ISSUER"),
		Audience: splitAndTrim(v.GetString("JWT_AUDIENCE")),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Upstream = UpstreamConfig{
		BaseURL:            strings.TrimRight(v.GetString("UPSTREAM_BASE_URL"), "/"),
		Timeout:            parseDuration(v.GetString("UPSTREAM_TIMEOUT"), 30*time.Second),
		ManualSchedulePath: v.GetString("UPSTREAM_MANUAL_SCHEDULE_PATH"),
	}

	cfg.Wizard = WizardConfig{
		SessionTTL:    parseDuration(v.GetString("WIZARD_SESSION_TTL"), 2*time.Hour),
		SweepInterval: parseDuration(v.GetString("WIZARD_SWEEP_INTERVAL"), 5*time.Minute),
	}

	cfg.MatchCache = MatchCacheConfig{
		Enabled: v.GetBool("ENABLE_MATCH_CACHE"),
		TTL:     parseDuration(v.GetString("MATCH_CACHE_TTL"), time.Minute),
	}

	cfg.RunHistory = RunHistoryConfig{
		Enabled: v.GetBool("ENABLE_RUN_HISTORY"),
		Workers: v.GetInt("RUN_HISTORY_WORKERS"),
		Retries: v.GetInt("RUN_HISTORY_RETRIES"),
	}

	cfg.Export = ExportConfig{
		Dir:           v.GetString("EXPORT_DIR"),
		LinkTTL:       parseDuration(v.GetString("EXPORT_LINK_TTL"), 24*time.Hour),
		SigningSecret: v.GetString("EXPORT_SIGNING_SECRET"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "match_scheduler")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("JWT_AUDIENCE", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("UPSTREAM_BASE_URL", "http://localhost:3000")
	v.SetDefault("UPSTREAM_TIMEOUT", "30s")
	v.SetDefault("UPSTREAM_MANUAL_SCHEDULE_PATH", "/match-scheduler/generate-matches")

	v.SetDefault("WIZARD_SESSION_TTL", "2h")
	v.SetDefault("WIZARD_SWEEP_INTERVAL", "5m")

	v.SetDefault("ENABLE_MATCH_CACHE", false)
	v.SetDefault("MATCH_CACHE_TTL", "1m")

	v.SetDefault("ENABLE_RUN_HISTORY", false)
	v.SetDefault("RUN_HISTORY_WORKERS", 2)
	v.SetDefault("RUN_HISTORY_RETRIES", 3)

	v.SetDefault("EXPORT_DIR", "./exports")
	v.SetDefault("EXPORT_LINK_TTL", "24h")
	v.SetDefault("EXPORT_SIGNING_SECRET", "")
}

// isMissingFile reports the os-level error viper returns when an explicit config file is absent.
func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
