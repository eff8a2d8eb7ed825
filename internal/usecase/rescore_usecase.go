package usecase

import (
	"context"
	"errors"
	"time"

	"jobmatch/internal/domain/candidate"
	"jobmatch/internal/domain/match"
	"jobmatch/internal/domain/matching"
	"jobmatch/internal/repository"
	"jobmatch/internal/worker"

	"go.uber.org/zap"
)

var (
	errRescoreSkipped    = errors.New("match left the pending state")
	errRescoreUnresolved = errors.New("no active request or posting to score against")
)

type RescoreReport struct {
	Scanned int
	Updated int
	Skipped int
	Failed  int
	Took    time.Duration
}

type RescoreUsecase interface {
	Run(ctx context.Context) (RescoreReport, error)
}

// Rescore recomputes the stored score of pending matches. A match without a request uses the
// candidate's active one; a match without a posting takes the company's best active posting.
// Matches that changed state in the meantime, or that still cannot be resolved, are skipped.
type Rescore struct {
	matches   repository.MatchRepository
	requests  repository.CandidateRequestRepository
	postings  repository.JobPostingRepository
	scorer    *matching.Scorer
	workers   int
	batchSize int
	rateLimit int
	logger    *zap.Logger
}

func NewRescoreUsecase(
	matches repository.MatchRepository,
	requests repository.CandidateRequestRepository,
	postings repository.JobPostingRepository,
	scorer *matching.Scorer,
	workers, batchSize int,
	logger *zap.Logger,
) *Rescore {
	if scorer == nil {
		scorer = matching.DefaultScorer()
	}
	if workers <= 0 {
		workers = 4
	}
	if batchSize <= 0 {
		batchSize = 1000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rescore{
		matches:   matches,
		requests:  requests,
		postings:  postings,
		scorer:    scorer,
		workers:   workers,
		batchSize: batchSize,
		logger:    logger.Named("rescore"),
	}
}

// SetRateLimit throttles the batch to rps task starts per second. Zero or less removes the limit.
func (u *Rescore) SetRateLimit(rps int) {
	u.rateLimit = rps
}

func (u *Rescore) Run(ctx context.Context) (RescoreReport, error) {
	start := time.Now()
	pending, err := u.matches.ListPending(ctx, u.batchSize)
	if err != nil {
		return RescoreReport{}, internalError(err)
	}
	report := RescoreReport{Scanned: len(pending)}
	if len(pending) == 0 {
		report.Took = time.Since(start)
		return report, nil
	}

	pool := worker.NewPool(u.workers, u.workers*2)
	pool.SetRateLimit(u.rateLimit)
	results := pool.Run(ctx)

	go func() {
		defer pool.Close()
		for _, m := range pending {
			m := m
			ok := pool.Submit(ctx, worker.Task{
				Key: m.ID.String(),
				Run: func(ctx context.Context) error {
					score, err := u.score(ctx, m)
					if err != nil {
						return err
					}
					updated, err := u.matches.UpdateScore(ctx, m.ID, score)
					if err != nil {
						return internalError(err)
					}
					if !updated {
						return errRescoreSkipped
					}
					return nil
				},
			})
			if !ok {
				return
			}
		}
	}()

	for res := range results {
		switch {
		case res.Err == nil:
			report.Updated++
		case errors.Is(res.Err, errRescoreSkipped), errors.Is(res.Err, errRescoreUnresolved):
			report.Skipped++
		default:
			report.Failed++
			u.logger.Warn("rescore failed", zap.String("match_id", res.Key), zap.Error(res.Err))
		}
	}
	report.Took = time.Since(start)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	u.logger.Info("rescore finished",
		zap.Int("scanned", report.Scanned),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.Duration("took", report.Took),
	)
	return report, nil
}

func (u *Rescore) score(ctx context.Context, m match.Match) (float64, error) {
	req, err := u.resolveRequest(ctx, m)
	if err != nil {
		return 0, err
	}
	m.CandidateRequestID = &req.ID

	if m.Scorable() {
		p, err := loadPosting(ctx, u.postings, *m.JobPostingID)
		if err != nil {
			return 0, err
		}
		return u.scorer.Score(req, p).Value, nil
	}

	postings, err := u.postings.ListActiveByCompany(ctx, m.CompanyID)
	if err != nil {
		return 0, internalError(err)
	}
	best, _, ok := u.scorer.ScoreAgainstCompany(req, postings)
	if !ok {
		return 0, errRescoreUnresolved
	}
	return best.Value, nil
}

// resolveRequest falls back to the candidate's active request for matches created without one.
func (u *Rescore) resolveRequest(ctx context.Context, m match.Match) (candidate.Request, error) {
	if m.CandidateRequestID != nil {
		return loadRequest(ctx, u.requests, *m.CandidateRequestID)
	}
	req, err := u.requests.FindActiveByCandidate(ctx, m.CandidateID)
	if err != nil {
		if errors.Is(err, repository.ErrCandidateRequestNotFound) {
			return candidate.Request{}, errRescoreUnresolved
		}
		return candidate.Request{}, internalError(err)
	}
	return req, nil
}
