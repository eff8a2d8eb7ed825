package usecase

import (
	"context"
	"testing"
	"time"

	"jobmatch/internal/domain/candidate"
	"jobmatch/internal/domain/job"
	"jobmatch/internal/domain/match"
	"jobmatch/internal/domain/matching"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRescore_Run(t *testing.T) {
	candidateID, companyID := uuid.New(), uuid.New()
	req := candidate.Request{ID: uuid.New(), CandidateID: candidateID, FieldOfStudy: "Accounting", JobType: job.JobTypeFullTime, WorkType: job.WorkTypeRemote, Skills: "excel", IsActive: true}
	p := job.Posting{ID: uuid.New(), CompanyID: companyID, FieldOfStudy: "Accounting", JobType: job.JobTypeFullTime, WorkType: job.WorkTypeRemote, RequiredSkills: "excel", IsActive: true}
	missing := uuid.New()

	matches := newFakeMatches()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	scorable := match.Match{ID: uuid.New(), CandidateID: candidateID, CompanyID: companyID, CandidateRequestID: &req.ID, JobPostingID: &p.ID, Status: match.StatusPending, CreatedAt: base}
	broken := match.Match{ID: uuid.New(), CandidateID: uuid.New(), CompanyID: companyID, CandidateRequestID: &missing, JobPostingID: &p.ID, Status: match.StatusPending, CreatedAt: base.Add(time.Minute)}
	unresolved := match.Match{ID: uuid.New(), CandidateID: uuid.New(), CompanyID: companyID, Status: match.StatusPending, CreatedAt: base.Add(2 * time.Minute)}
	for _, m := range []match.Match{scorable, broken, unresolved} {
		_, err := matches.Create(context.Background(), m, match.History{ID: uuid.New(), MatchID: m.ID, Action: match.ActionCreated})
		require.NoError(t, err)
	}

	uc := NewRescoreUsecase(matches, &fakeRequests{items: []candidate.Request{req}}, &fakePostings{items: []job.Posting{p}}, nil, 2, 0, nil)
	report, err := uc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Failed)

	stored, err := matches.FindByID(context.Background(), scorable.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.975, stored.Score, 1e-9)

	stored, err = matches.FindByID(context.Background(), unresolved.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.Score)
}

func TestRescore_ResolvesMissingRequestAndPosting(t *testing.T) {
	companyID, emptyCompanyID := uuid.New(), uuid.New()
	weak := job.Posting{ID: uuid.New(), CompanyID: companyID, FieldOfStudy: "Law", JobType: job.JobTypeInternship, WorkType: job.WorkTypeOffice, RequiredSkills: "litigation", IsActive: true, CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	strong := job.Posting{ID: uuid.New(), CompanyID: companyID, FieldOfStudy: "Accounting", JobType: job.JobTypeFullTime, WorkType: job.WorkTypeRemote, RequiredSkills: "excel", IsActive: true, CreatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)}

	newRequest := func() candidate.Request {
		return candidate.Request{ID: uuid.New(), CandidateID: uuid.New(), FieldOfStudy: "Accounting", JobType: job.JobTypeFullTime, WorkType: job.WorkTypeRemote, Skills: "excel", IsActive: true}
	}
	selected, withPosting, noPostings := newRequest(), newRequest(), newRequest()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	// created by a company select: no request, no posting
	selectMatch := match.Match{ID: uuid.New(), CandidateID: selected.CandidateID, CompanyID: companyID, Status: match.StatusPending, CreatedAt: base}
	postingOnly := match.Match{ID: uuid.New(), CandidateID: withPosting.CandidateID, CompanyID: companyID, JobPostingID: &weak.ID, Status: match.StatusPending, CreatedAt: base.Add(time.Minute)}
	nothingOpen := match.Match{ID: uuid.New(), CandidateID: noPostings.CandidateID, CompanyID: emptyCompanyID, Status: match.StatusPending, CreatedAt: base.Add(2 * time.Minute)}

	matches := newFakeMatches()
	for _, m := range []match.Match{selectMatch, postingOnly, nothingOpen} {
		_, err := matches.Create(context.Background(), m, match.History{ID: uuid.New(), MatchID: m.ID, Action: match.ActionCreated})
		require.NoError(t, err)
	}

	uc := NewRescoreUsecase(
		matches,
		&fakeRequests{items: []candidate.Request{selected, withPosting, noPostings}},
		&fakePostings{items: []job.Posting{weak, strong}},
		nil, 2, 0, nil,
	)
	report, err := uc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 2, report.Updated)
	assert.Equal(t, 1, report.Skipped)
	assert.Zero(t, report.Failed)

	scorer := matching.DefaultScorer()

	stored, err := matches.FindByID(context.Background(), selectMatch.ID)
	require.NoError(t, err)
	assert.InDelta(t, scorer.Score(selected, strong).Value, stored.Score, 1e-9)
	assert.Nil(t, stored.JobPostingID)

	stored, err = matches.FindByID(context.Background(), postingOnly.ID)
	require.NoError(t, err)
	assert.InDelta(t, scorer.Score(withPosting, weak).Value, stored.Score, 1e-9)
	assert.Less(t, stored.Score, scorer.Score(withPosting, strong).Value)

	stored, err = matches.FindByID(context.Background(), nothingOpen.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.Score)
}

func TestRescore_RateLimited(t *testing.T) {
	companyID := uuid.New()
	p := job.Posting{ID: uuid.New(), CompanyID: companyID, FieldOfStudy: "Accounting", JobType: job.JobTypeFullTime, WorkType: job.WorkTypeRemote, RequiredSkills: "excel", IsActive: true}

	matches := newFakeMatches()
	var requests []candidate.Request
	for i := 0; i < 3; i++ {
		req := candidate.Request{ID: uuid.New(), CandidateID: uuid.New(), FieldOfStudy: "Accounting", JobType: job.JobTypeFullTime, WorkType: job.WorkTypeRemote, Skills: "excel", IsActive: true}
		requests = append(requests, req)
		m := match.Match{ID: uuid.New(), CandidateID: req.CandidateID, CompanyID: companyID, CandidateRequestID: &req.ID, JobPostingID: &p.ID, Status: match.StatusPending}
		_, err := matches.Create(context.Background(), m, match.History{ID: uuid.New(), MatchID: m.ID, Action: match.ActionCreated})
		require.NoError(t, err)
	}

	uc := NewRescoreUsecase(matches, &fakeRequests{items: requests}, &fakePostings{items: []job.Posting{p}}, nil, 3, 0, nil)
	uc.SetRateLimit(20)
	report, err := uc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Updated)
	// three 50ms ticks before the last start
	assert.GreaterOrEqual(t, report.Took, 100*time.Millisecond)
}

func TestRescore_Empty(t *testing.T) {
	uc := NewRescoreUsecase(newFakeMatches(), &fakeRequests{}, &fakePostings{}, nil, 0, 0, nil)
	report, err := uc.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Scanned)
}
