package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"jobmatch/internal/domain/matching"

	"github.com/google/uuid"
)

type RankingCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

const (
	rankingKeyPrefix  = "ranking:company:"
	rankingLockPrefix = "ranking:lock:"

	// RankingCachePattern matches every cached company ranking page.
	RankingCachePattern = rankingKeyPrefix + "*"
)

type rankingCacheKeyInput struct {
	CompanyID string  `json:"company_id"`
	Field     string  `json:"field"`
	JobType   string  `json:"job_type"`
	WorkType  string  `json:"work_type"`
	City      string  `json:"city"`
	MinScore  float64 `json:"min_score"`
	Page      int     `json:"page"`
	PageSize  int     `json:"page_size"`
}

func normalizeKeyValue(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func CompanyRankingCacheKey(companyID uuid.UUID, opts matching.RankOptions) string {
	in := rankingCacheKeyInput{
		CompanyID: companyID.String(),
		Field:     normalizeKeyValue(opts.Filters.Field),
		JobType:   string(opts.Filters.JobType),
		WorkType:  string(opts.Filters.WorkType),
		City:      normalizeKeyValue(opts.Filters.City),
		MinScore:  opts.Filters.MinScore,
		Page:      opts.Page,
		PageSize:  opts.PageSize,
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return rankingKeyPrefix + hex.EncodeToString(sum[:])
}

func CompanyRankingLockKey(cacheKey string) string {
	return rankingLockPrefix + strings.TrimPrefix(strings.TrimSpace(cacheKey), rankingKeyPrefix)
}
