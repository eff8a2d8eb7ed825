package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"jobmatch/internal/domain/matching"
	"jobmatch/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RankQuery carries the listing parameters exactly as the caller sent them.
type RankQuery struct {
	Filters  matching.RawFilters
	Page     string
	PageSize string
}

type RankingUsecase interface {
	RankCandidates(ctx context.Context, companyID uuid.UUID, q RankQuery) (matching.Page, error)
	// ExportCandidates returns every surviving pairing in ranking order, ignoring pagination.
	ExportCandidates(ctx context.Context, companyID uuid.UUID, q RankQuery) (matching.Page, error)
	RankCompanies(ctx context.Context, candidateID uuid.UUID, q RankQuery) (matching.Page, error)
}

type RankingOptions struct {
	PageSize int
	CacheTTL time.Duration
}

type Ranking struct {
	requests repository.CandidateRequestRepository
	postings repository.JobPostingRepository
	ranker   *matching.Ranker
	cache    RankingCache
	opts     RankingOptions
	logger   *zap.Logger
}

func NewRankingUsecase(
	requests repository.CandidateRequestRepository,
	postings repository.JobPostingRepository,
	ranker *matching.Ranker,
	cache RankingCache,
	opts RankingOptions,
	logger *zap.Logger,
) *Ranking {
	if ranker == nil {
		ranker = matching.NewRanker(nil, 0, 0)
	}
	if opts.PageSize <= 0 {
		opts.PageSize = matching.DefaultPageSize
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranking{
		requests: requests,
		postings: postings,
		ranker:   ranker,
		cache:    cache,
		opts:     opts,
		logger:   logger.Named("ranking"),
	}
}

func (u *Ranking) parseQuery(q RankQuery) (matching.RankOptions, error) {
	f, err := matching.ParseFilters(q.Filters)
	if err != nil {
		return matching.RankOptions{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}

	opts := matching.RankOptions{Filters: f, Page: 1, PageSize: u.opts.PageSize}
	if s := strings.TrimSpace(q.Page); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return matching.RankOptions{}, fmt.Errorf("%w: page %q", ErrInvalidFilter, q.Page)
		}
		opts.Page = min(n, matching.MaxPage)
	}
	if s := strings.TrimSpace(q.PageSize); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return matching.RankOptions{}, fmt.Errorf("%w: page_size %q", ErrInvalidFilter, q.PageSize)
		}
		opts.PageSize = min(n, matching.MaxPageSize)
	}
	return opts, nil
}

func (u *Ranking) RankCandidates(ctx context.Context, companyID uuid.UUID, q RankQuery) (matching.Page, error) {
	if companyID == uuid.Nil {
		return matching.Page{}, ErrUnauthorized
	}
	opts, err := u.parseQuery(q)
	if err != nil {
		return matching.Page{}, err
	}

	cacheKey := CompanyRankingCacheKey(companyID, opts)
	if page, ok := u.cached(ctx, cacheKey); ok {
		return page, nil
	}
	if u.cache != nil {
		lockKey := CompanyRankingLockKey(cacheKey)
		ok, err := u.cache.SetIfNotExists(ctx, lockKey, "1", 30*time.Second)
		switch {
		case err == nil && ok:
			defer func() { _ = u.cache.Delete(context.WithoutCancel(ctx), lockKey) }()
		case err == nil:
			// another request is computing this page; give it a moment before doing the work twice
			if page, ok := u.waitForCached(ctx, cacheKey); ok {
				return page, nil
			}
			u.logger.Debug("ranking lock wait fallback", zap.String("key", cacheKey))
		}
	}

	page, err := u.rankCandidates(ctx, companyID, opts)
	if err != nil {
		return matching.Page{}, err
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, cacheKey, page, u.opts.CacheTTL); err != nil {
			u.logger.Debug("ranking cache write failed", zap.Error(err))
		}
	}
	return page, nil
}

func (u *Ranking) ExportCandidates(ctx context.Context, companyID uuid.UUID, q RankQuery) (matching.Page, error) {
	if companyID == uuid.Nil {
		return matching.Page{}, ErrUnauthorized
	}
	opts, err := u.parseQuery(q)
	if err != nil {
		return matching.Page{}, err
	}
	opts.Unpaged = true
	return u.rankCandidates(ctx, companyID, opts)
}

func (u *Ranking) rankCandidates(ctx context.Context, companyID uuid.UUID, opts matching.RankOptions) (matching.Page, error) {
	postings, err := u.postings.ListActiveByCompany(ctx, companyID)
	if err != nil {
		return matching.Page{}, internalError(err)
	}
	if len(postings) == 0 {
		return matching.Paginate(nil, opts.Page, opts.PageSize), nil
	}

	pool, err := u.requests.ListActive(ctx)
	if err != nil {
		return matching.Page{}, internalError(err)
	}

	start := time.Now()
	page, err := u.ranker.RankCandidates(ctx, postings, pool, opts)
	if err != nil {
		return matching.Page{}, rankError(err)
	}
	u.logger.Debug("candidates ranked",
		zap.String("company_id", companyID.String()),
		zap.Int("scanned", page.Scanned),
		zap.Int("total", page.Total),
		zap.Bool("truncated", page.Truncated),
		zap.Duration("took", time.Since(start)),
	)
	if page.Truncated {
		u.logger.Warn("ranking truncated at scanned pair cap", zap.String("company_id", companyID.String()))
	}
	return page, nil
}

func (u *Ranking) RankCompanies(ctx context.Context, candidateID uuid.UUID, q RankQuery) (matching.Page, error) {
	if candidateID == uuid.Nil {
		return matching.Page{}, ErrUnauthorized
	}
	opts, err := u.parseQuery(q)
	if err != nil {
		return matching.Page{}, err
	}

	req, err := u.requests.FindActiveByCandidate(ctx, candidateID)
	if err != nil {
		if errors.Is(err, repository.ErrCandidateRequestNotFound) {
			return matching.Page{}, ErrNotFound
		}
		return matching.Page{}, internalError(err)
	}

	postings, err := u.postings.ListActive(ctx)
	if err != nil {
		return matching.Page{}, internalError(err)
	}

	page, err := u.ranker.RankPostings(ctx, req, postings, opts)
	if err != nil {
		return matching.Page{}, rankError(err)
	}
	return page, nil
}

func (u *Ranking) cached(ctx context.Context, key string) (matching.Page, bool) {
	if u.cache == nil {
		return matching.Page{}, false
	}
	var page matching.Page
	hit, err := u.cache.GetJSON(ctx, key, &page)
	if err != nil || !hit {
		return matching.Page{}, false
	}
	u.logger.Debug("ranking cache hit", zap.String("key", key))
	return page, true
}

func (u *Ranking) waitForCached(ctx context.Context, key string) (matching.Page, bool) {
	jitter := time.Duration(time.Now().UnixNano()%201) * time.Millisecond
	t := time.NewTimer(300*time.Millisecond + jitter)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return matching.Page{}, false
	case <-t.C:
	}
	return u.cached(ctx, key)
}

func rankError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return internalError(err)
}
