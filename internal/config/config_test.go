package config

import (
	"testing"
	"time"

	"jobmatch/internal/domain/matching"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_NAME", "jobmatch-test")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_NAME", "jobmatch")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
}

func TestLoadFrom_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.HTTPPort)
	assert.Equal(t, "disable", cfg.Database.DBSSLMode)
	assert.Equal(t, 5*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, int32(10), cfg.Database.PoolMaxConns)
	assert.Equal(t, 60*time.Second, cfg.Redis.CacheTTL)
	assert.Equal(t, "matching:events", cfg.Redis.Channel)
	assert.Equal(t, matching.DefaultPageSize, cfg.Matching.PageSize)
	assert.Equal(t, matching.DefaultMaxScannedPairs, cfg.Matching.MaxScannedPairs)
	assert.Equal(t, 0.30, cfg.Matching.Weights.Of(matching.CriterionFieldOfStudy))
	assert.Equal(t, 4, cfg.Matching.RescoreWorkers)
	assert.Zero(t, cfg.Matching.RescoreRateLimit)
}

func TestLoadFrom_RescoreRateLimit(t *testing.T) {
	setRequired(t)
	t.Setenv("RESCORE_RATE_LIMIT", "25")

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Matching.RescoreRateLimit)
}

func TestLoadFrom_MissingRequired(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("JWT_ACCESS_SECRET", "")

	_, err := LoadFrom(viper.New())
	require.ErrorIs(t, err, errMissingRequiredEnv)
	assert.Contains(t, err.Error(), "DB_HOST")
	assert.Contains(t, err.Error(), "JWT_ACCESS_SECRET")
}

func TestLoadFrom_WeightOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("MATCHING_WEIGHT_FIELD_OF_STUDY", "0.25")
	t.Setenv("MATCHING_WEIGHT_SALARY", "0.10")

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.Matching.Weights.Of(matching.CriterionFieldOfStudy))
	assert.Equal(t, 0.10, cfg.Matching.Weights.Of(matching.CriterionSalary))
}

func TestLoadFrom_InvalidWeights(t *testing.T) {
	setRequired(t)
	t.Setenv("MATCHING_WEIGHT_SKILLS", "0.9")

	_, err := LoadFrom(viper.New())
	assert.ErrorIs(t, err, matching.ErrInvalidWeights)
}

func TestLoadFrom_PageSizeBounds(t *testing.T) {
	setRequired(t)
	t.Setenv("MATCHING_PAGE_SIZE", "500")

	_, err := LoadFrom(viper.New())
	assert.Error(t, err)
}
