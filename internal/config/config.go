package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"jobmatch/internal/domain/matching"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Log      LogConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Matching MatchingConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
	Channel  string
}

type JWTConfig struct {
	AccessSecret string
}

type MatchingConfig struct {
	Weights         matching.Weights
	Workers         int
	MaxScannedPairs int
	PageSize        int
	RescoreWorkers  int
	// RescoreRateLimit caps rescore task starts per second; zero leaves the batch unthrottled.
	RescoreRateLimit int
	NotifyTimeout    time.Duration
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

var defaults = map[string]any{
	"APP_NAME":                   "jobmatch",
	"APP_ENV":                    "development",
	"HTTP_PORT":                  "8080",
	"DB_SSL_MODE":                "disable",
	"DB_CONNECT_TIMEOUT":         "5s",
	"DB_POOL_MAX_CONNS":          10,
	"REDIS_HOST":                 "localhost",
	"REDIS_PORT":                 "6379",
	"REDIS_DB":                   0,
	"RANKING_CACHE_TTL":          "60s",
	"REDIS_EVENTS_CHANNEL":       "matching:events",
	"MATCHING_WORKERS":           0,
	"MATCHING_MAX_SCANNED_PAIRS": matching.DefaultMaxScannedPairs,
	"MATCHING_PAGE_SIZE":         matching.DefaultPageSize,
	"RESCORE_WORKERS":            4,
	"RESCORE_RATE_LIMIT":         0,
	"NOTIFY_TIMEOUT":             "3s",

	"MATCHING_WEIGHT_FIELD_OF_STUDY": matching.DefaultWeightsInput.FieldOfStudy,
	"MATCHING_WEIGHT_JOB_TYPE":       matching.DefaultWeightsInput.JobType,
	"MATCHING_WEIGHT_WORK_TYPE":      matching.DefaultWeightsInput.WorkType,
	"MATCHING_WEIGHT_SKILLS":         matching.DefaultWeightsInput.Skills,
	"MATCHING_WEIGHT_LOCATION":       matching.DefaultWeightsInput.Location,
	"MATCHING_WEIGHT_SALARY":         matching.DefaultWeightsInput.Salary,
}

// Load reads .env, the environment and an optional config file through the global viper
// instance, which also carries the CLI flags bound by cmd/server.
func Load() (Config, error) {
	_ = godotenv.Load()
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (Config, error) {
	v.AutomaticEnv()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	var missing []string
	req := func(key string) string {
		s := strings.TrimSpace(v.GetString(key))
		if s == "" {
			missing = append(missing, key)
		}
		return s
	}
	opt := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg := Config{}
	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: opt("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Log = LogConfig{
		JSON:  v.GetBool("json"),
		Debug: v.GetBool("debug"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     req("DB_HOST"),
		DBPort:     req("DB_PORT"),
		DBName:     req("DB_NAME"),
		DBUser:     req("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),

		ConnectTimeout:        v.GetDuration("DB_CONNECT_TIMEOUT"),
		PoolMaxConns:          v.GetInt32("DB_POOL_MAX_CONNS"),
		PoolMinConns:          v.GetInt32("DB_POOL_MIN_CONNS"),
		PoolMaxConnLifetime:   v.GetDuration("DB_POOL_MAX_CONN_LIFETIME"),
		PoolMaxConnIdleTime:   v.GetDuration("DB_POOL_MAX_CONN_IDLE_TIME"),
		PoolHealthCheckPeriod: v.GetDuration("DB_POOL_HEALTH_CHECK_PERIOD"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		CacheTTL: v.GetDuration("RANKING_CACHE_TTL"),
		Channel:  opt("REDIS_EVENTS_CHANNEL"),
	}

	cfg.JWT = JWTConfig{
		AccessSecret: req("JWT_ACCESS_SECRET"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	weights, err := matching.NewWeights(matching.WeightsInput{
		FieldOfStudy: v.GetFloat64("MATCHING_WEIGHT_FIELD_OF_STUDY"),
		JobType:      v.GetFloat64("MATCHING_WEIGHT_JOB_TYPE"),
		WorkType:     v.GetFloat64("MATCHING_WEIGHT_WORK_TYPE"),
		Skills:       v.GetFloat64("MATCHING_WEIGHT_SKILLS"),
		Location:     v.GetFloat64("MATCHING_WEIGHT_LOCATION"),
		Salary:       v.GetFloat64("MATCHING_WEIGHT_SALARY"),
	})
	if err != nil {
		return Config{}, fmt.Errorf("matching weights: %w", err)
	}

	pageSize := v.GetInt("MATCHING_PAGE_SIZE")
	if pageSize <= 0 || pageSize > matching.MaxPageSize {
		return Config{}, fmt.Errorf("MATCHING_PAGE_SIZE must be within 1..%d, got %d", matching.MaxPageSize, pageSize)
	}

	cfg.Matching = MatchingConfig{
		Weights:          weights,
		Workers:          v.GetInt("MATCHING_WORKERS"),
		MaxScannedPairs:  v.GetInt("MATCHING_MAX_SCANNED_PAIRS"),
		PageSize:         pageSize,
		RescoreWorkers:   v.GetInt("RESCORE_WORKERS"),
		RescoreRateLimit: v.GetInt("RESCORE_RATE_LIMIT"),
		NotifyTimeout:    v.GetDuration("NOTIFY_TIMEOUT"),
	}

	return cfg, nil
}
