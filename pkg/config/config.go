package config

import (
	"errors"
	"io/fs"
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

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Cache     CacheConfig
	Scheduler SchedulerConfig
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
	AutoMigrate  bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig governs the Redis-backed write-through cache.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
	KeyPrefix  string
}

// SchedulerConfig tunes timetable generation and the proposal workflow.
type SchedulerConfig struct {
	Enabled           bool
	ProposalTTL       time.Duration
	DefaultCandidates int
	MaxCandidates     int
	Workers           int
	Timeout           time.Duration
	CacheEnabled      bool
	JobWorkers        int
	JobRetries        int
	JobRetryDelay     time.Duration

	PreferredStartTime string
	PreferredEndTime   string
	MaxClassesPerDay   int
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
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled:    v.GetBool("CACHE_ENABLED"),
		DefaultTTL: parseDuration(v.GetString("CACHE_DEFAULT_TTL"), 10*time.Minute),
		KeyPrefix:  v.GetString("CACHE_KEY_PREFIX"),
	}

	cfg.Scheduler = SchedulerConfig{
		Enabled:            v.GetBool("ENABLE_SCHEDULER"),
		ProposalTTL:        parseDuration(v.GetString("SCHEDULER_PROPOSAL_TTL"), 30*time.Minute),
		DefaultCandidates:  positiveOr(v.GetInt("SCHEDULER_DEFAULT_CANDIDATES"), 3),
		MaxCandidates:      positiveOr(v.GetInt("SCHEDULER_MAX_CANDIDATES"), 10),
		Workers:            positiveOr(v.GetInt("SCHEDULER_WORKERS"), 1),
		Timeout:            parseDuration(v.GetString("SCHEDULER_TIMEOUT"), 30*time.Second),
		CacheEnabled:       v.GetBool("SCHEDULER_CACHE_ENABLED"),
		JobWorkers:         positiveOr(v.GetInt("SCHEDULER_JOB_WORKERS"), 1),
		JobRetries:         positiveOr(v.GetInt("SCHEDULER_JOB_RETRIES"), 1),
		JobRetryDelay:      parseDuration(v.GetString("SCHEDULER_JOB_RETRY_DELAY"), 2*time.Second),
		PreferredStartTime: v.GetString("SCHEDULER_PREFERRED_START"),
		PreferredEndTime:   v.GetString("SCHEDULER_PREFERRED_END"),
		MaxClassesPerDay:   v.GetInt("SCHEDULER_MAX_CLASSES_PER_DAY"),
	}
	if cfg.Scheduler.DefaultCandidates > cfg.Scheduler.MaxCandidates {
		cfg.Scheduler.DefaultCandidates = cfg.Scheduler.MaxCandidates
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
	v.SetDefault("DB_NAME", "timetable_optimizer")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", false)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("CACHE_DEFAULT_TTL", "10m")
	v.SetDefault("CACHE_KEY_PREFIX", "timetable")

	v.SetDefault("ENABLE_SCHEDULER", true)
	v.SetDefault("SCHEDULER_PROPOSAL_TTL", "30m")
	v.SetDefault("SCHEDULER_DEFAULT_CANDIDATES", 3)
	v.SetDefault("SCHEDULER_MAX_CANDIDATES", 10)
	v.SetDefault("SCHEDULER_WORKERS", 1)
	v.SetDefault("SCHEDULER_TIMEOUT", "30s")
	v.SetDefault("SCHEDULER_CACHE_ENABLED", false)
	v.SetDefault("SCHEDULER_JOB_WORKERS", 1)
	v.SetDefault("SCHEDULER_JOB_RETRIES", 1)
	v.SetDefault("SCHEDULER_JOB_RETRY_DELAY", "2s")
	v.SetDefault("SCHEDULER_PREFERRED_START", "09:00")
	v.SetDefault("SCHEDULER_PREFERRED_END", "17:00")
	v.SetDefault("SCHEDULER_MAX_CLASSES_PER_DAY", 6)
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
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

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
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
