package usecase

import (
	"context"
	"errors"

	"jobmatch/internal/domain/candidate"
	"jobmatch/internal/domain/job"
	"jobmatch/internal/domain/matching"
	"jobmatch/internal/repository"

	"github.com/google/uuid"
)

type ScoreResult struct {
	Request candidate.Request
	Posting job.Posting
	Score   matching.Score
}

type ScoringUsecase interface {
	Score(ctx context.Context, requestID, postingID uuid.UUID) (ScoreResult, error)
	// ScoreAgainstCompany scores the request against the company's best active posting.
	ScoreAgainstCompany(ctx context.Context, requestID, companyID uuid.UUID) (ScoreResult, error)
}

type Scoring struct {
	requests repository.CandidateRequestRepository
	postings repository.JobPostingRepository
	scorer   *matching.Scorer
}

func NewScoringUsecase(requests repository.CandidateRequestRepository, postings repository.JobPostingRepository, scorer *matching.Scorer) *Scoring {
	if scorer == nil {
		scorer = matching.DefaultScorer()
	}
	return &Scoring{requests: requests, postings: postings, scorer: scorer}
}

func (u *Scoring) Score(ctx context.Context, requestID, postingID uuid.UUID) (ScoreResult, error) {
	req, err := loadRequest(ctx, u.requests, requestID)
	if err != nil {
		return ScoreResult{}, err
	}
	p, err := loadPosting(ctx, u.postings, postingID)
	if err != nil {
		return ScoreResult{}, err
	}
	return ScoreResult{Request: req, Posting: p, Score: u.scorer.Score(req, p)}, nil
}

func (u *Scoring) ScoreAgainstCompany(ctx context.Context, requestID, companyID uuid.UUID) (ScoreResult, error) {
	if companyID == uuid.Nil {
		return ScoreResult{}, ErrInvalidInput
	}
	req, err := loadRequest(ctx, u.requests, requestID)
	if err != nil {
		return ScoreResult{}, err
	}
	postings, err := u.postings.ListActiveByCompany(ctx, companyID)
	if err != nil {
		return ScoreResult{}, internalError(err)
	}

	sc, p, ok := u.scorer.ScoreAgainstCompany(req, postings)
	if !ok {
		return ScoreResult{}, ErrNotFound
	}
	return ScoreResult{Request: req, Posting: p, Score: sc}, nil
}

func loadRequest(ctx context.Context, repo repository.CandidateRequestRepository, id uuid.UUID) (candidate.Request, error) {
	if id == uuid.Nil {
		return candidate.Request{}, ErrInvalidInput
	}
	req, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCandidateRequestNotFound) {
			return candidate.Request{}, ErrNotFound
		}
		return candidate.Request{}, internalError(err)
	}
	return req, nil
}

func loadPosting(ctx context.Context, repo repository.JobPostingRepository, id uuid.UUID) (job.Posting, error) {
	if id == uuid.Nil {
		return job.Posting{}, ErrInvalidInput
	}
	p, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrJobPostingNotFound) {
			return job.Posting{}, ErrNotFound
		}
		return job.Posting{}, internalError(err)
	}
	return p, nil
}
