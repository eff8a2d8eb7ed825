package matching

import (
	"context"
	"math"
	"testing"
	"time"

	"jobmatch/internal/domain/candidate"
	"jobmatch/internal/domain/job"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rankBase = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func newRequest(field string, jt job.JobType, wt job.WorkType, skills string, age int) candidate.Request {
	return candidate.Request{
		ID:           uuid.New(),
		CandidateID:  uuid.New(),
		FieldOfStudy: field,
		JobType:      jt,
		WorkType:     wt,
		Skills:       skills,
		IsActive:     true,
		CreatedAt:    rankBase.Add(time.Duration(age) * time.Minute),
	}
}

func newPosting(company uuid.UUID, field string, jt job.JobType, wt job.WorkType, skills string, age int) job.Posting {
	return job.Posting{
		ID:             uuid.New(),
		CompanyID:      company,
		FieldOfStudy:   field,
		JobType:        jt,
		WorkType:       wt,
		RequiredSkills: skills,
		IsActive:       true,
		CreatedAt:      rankBase.Add(time.Duration(age) * time.Minute),
	}
}

func requestPool() []candidate.Request {
	return []candidate.Request{
		newRequest("کامپیوتر", job.JobTypeFullTime, job.WorkTypeRemote, "go, postgres", 1),
		newRequest("نرم‌افزار", job.JobTypeFullTime, job.WorkTypeRemote, "go", 2),
		newRequest("کامپیوتر", job.JobTypeFullTime, job.WorkTypeRemote, "go, postgres", 3),
		newRequest("حسابداری", job.JobTypeProject, job.WorkTypeOffice, "excel", 4),
		newRequest("برق", job.JobTypeInternship, job.WorkTypeHybrid, "matlab", 5),
	}
}

func TestRankCandidates_OrderAndTies(t *testing.T) {
	company := uuid.New()
	postings := []job.Posting{newPosting(company, "کامپیوتر", job.JobTypeFullTime, job.WorkTypeRemote, "go, postgres", 0)}
	pool := requestPool()

	r := NewRanker(nil, 4, 0)
	page, err := r.RankCandidates(context.Background(), postings, pool, RankOptions{Filters: Filters{MinScore: 0}})
	require.NoError(t, err)

	require.Len(t, page.Items, 5)
	// identical requests tie on score; the older one wins
	assert.Equal(t, pool[0].ID, page.Items[0].Request.ID)
	assert.Equal(t, pool[2].ID, page.Items[1].Request.ID)
	for i := 1; i < len(page.Items); i++ {
		assert.GreaterOrEqual(t, page.Items[i-1].Score.Value, page.Items[i].Score.Value)
	}
	assert.Equal(t, 5, page.Scanned)
	assert.False(t, page.Truncated)
}

func TestRankCandidates_Idempotent(t *testing.T) {
	company := uuid.New()
	postings := []job.Posting{
		newPosting(company, "کامپیوتر", job.JobTypeFullTime, job.WorkTypeRemote, "go", 0),
		newPosting(company, "برق", job.JobTypeInternship, job.WorkTypeHybrid, "matlab", 1),
	}
	pool := requestPool()
	opts := RankOptions{Filters: Filters{MinScore: 0.2}, PageSize: 3}

	r := NewRanker(nil, 3, 0)
	first, err := r.RankCandidates(context.Background(), postings, pool, opts)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := r.RankCandidates(context.Background(), postings, pool, opts)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRankCandidates_ThresholdFiltersEverything(t *testing.T) {
	company := uuid.New()
	postings := []job.Posting{newPosting(company, "روانشناسی", job.JobTypeProject, job.WorkTypeOffice, "spss", 0)}

	page, err := NewRanker(nil, 2, 0).RankCandidates(context.Background(), postings, requestPool(), RankOptions{Filters: Filters{MinScore: 0.99}})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Zero(t, page.Total)
}

func TestRankCandidates_ResultsMeetThreshold(t *testing.T) {
	company := uuid.New()
	postings := []job.Posting{newPosting(company, "کامپیوتر", job.JobTypeFullTime, job.WorkTypeRemote, "go", 0)}

	page, err := NewRanker(nil, 2, 0).RankCandidates(context.Background(), postings, requestPool(), RankOptions{Filters: Filters{MinScore: 0.5}})
	require.NoError(t, err)
	require.NotEmpty(t, page.Items)
	for _, it := range page.Items {
		assert.GreaterOrEqual(t, it.Score.Value, 0.5)
	}
}

func TestRankCandidates_SkipsInactive(t *testing.T) {
	company := uuid.New()
	active := newPosting(company, "کامپیوتر", job.JobTypeFullTime, job.WorkTypeRemote, "go", 0)
	inactive := newPosting(company, "کامپیوتر", job.JobTypeFullTime, job.WorkTypeRemote, "go", 1)
	inactive.IsActive = false

	pool := requestPool()
	pool[0].IsActive = false

	page, err := NewRanker(nil, 2, 0).RankCandidates(context.Background(), []job.Posting{active, inactive}, pool, RankOptions{})
	require.NoError(t, err)
	for _, it := range page.Items {
		assert.Equal(t, active.ID, it.Posting.ID)
		assert.NotEqual(t, pool[0].ID, it.Request.ID)
	}
}

func TestRankCandidates_NoActivePostings(t *testing.T) {
	p := newPosting(uuid.New(), "کامپیوتر", job.JobTypeFullTime, job.WorkTypeRemote, "go", 0)
	p.IsActive = false

	page, err := NewRanker(nil, 2, 0).RankCandidates(context.Background(), []job.Posting{p}, requestPool(), RankOptions{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Scanned)
}

func TestRankCandidates_Pagination(t *testing.T) {
	company := uuid.New()
	postings := []job.Posting{newPosting(company, "کامپیوتر", job.JobTypeFullTime, job.WorkTypeRemote, "go", 0)}
	r := NewRanker(nil, 2, 0)
	pool := requestPool()

	all, err := r.RankCandidates(context.Background(), postings, pool, RankOptions{Unpaged: true})
	require.NoError(t, err)
	require.Equal(t, 5, all.Total)

	p2, err := r.RankCandidates(context.Background(), postings, pool, RankOptions{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, all.Items[2:4], p2.Items)
	assert.Equal(t, 3, p2.TotalPages)

	beyond, err := r.RankCandidates(context.Background(), postings, pool, RankOptions{Page: 9, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, 5, beyond.Total)
}

func TestRankCandidates_Truncates(t *testing.T) {
	company := uuid.New()
	postings := []job.Posting{
		newPosting(company, "کامپیوتر", job.JobTypeFullTime, job.WorkTypeRemote, "go", 0),
		newPosting(company, "برق", job.JobTypeInternship, job.WorkTypeHybrid, "matlab", 1),
	}
	pool := requestPool()

	page, err := NewRanker(nil, 2, 4).RankCandidates(context.Background(), postings, pool, RankOptions{Unpaged: true})
	require.NoError(t, err)
	assert.True(t, page.Truncated)
	assert.Equal(t, 4, page.Scanned)
	for _, it := range page.Items {
		assert.Contains(t, []uuid.UUID{pool[0].ID, pool[1].ID}, it.Request.ID)
	}
}

func TestRankCandidates_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	company := uuid.New()
	postings := []job.Posting{newPosting(company, "کامپیوتر", job.JobTypeFullTime, job.WorkTypeRemote, "go", 0)}
	_, err := NewRanker(nil, 2, 0).RankCandidates(ctx, postings, requestPool(), RankOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRankPostings_OneEntryPerCompany(t *testing.T) {
	req := newRequest("کامپیوتر", job.JobTypeFullTime, job.WorkTypeRemote, "go", 0)
	acme := uuid.New()
	globex := uuid.New()

	acmeBest := newPosting(acme, "کامپیوتر", job.JobTypeFullTime, job.WorkTypeRemote, "go", 5)
	postings := []job.Posting{
		newPosting(acme, "حسابداری", job.JobTypeProject, job.WorkTypeOffice, "excel", 1),
		acmeBest,
		newPosting(globex, "نرم‌افزار", job.JobTypeFullTime, job.WorkTypeHybrid, "go", 2),
	}

	page, err := NewRanker(nil, 2, 0).RankPostings(context.Background(), req, postings, RankOptions{Filters: Filters{MinScore: 0}})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, acme, page.Items[0].Posting.CompanyID)
	assert.Equal(t, acmeBest.ID, page.Items[0].Posting.ID)
	assert.InDelta(t, 0.975, page.Items[0].Score.Value, 1e-9)
	assert.Equal(t, globex, page.Items[1].Posting.CompanyID)
	assert.Equal(t, 3, page.Scanned)
}

func TestRankPostings_InactiveRequest(t *testing.T) {
	req := newRequest("کامپیوتر", job.JobTypeFullTime, job.WorkTypeRemote, "go", 0)
	req.IsActive = false
	postings := []job.Posting{newPosting(uuid.New(), "کامپیوتر", job.JobTypeFullTime, job.WorkTypeRemote, "go", 0)}

	page, err := NewRanker(nil, 2, 0).RankPostings(context.Background(), req, postings, RankOptions{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestRankPostings_FiltersApplyToPostings(t *testing.T) {
	req := newRequest("کامپیوتر", job.JobTypeFullTime, job.WorkTypeRemote, "go", 0)
	postings := []job.Posting{
		newPosting(uuid.New(), "کامپیوتر", job.JobTypeFullTime, job.WorkTypeRemote, "go", 0),
		newPosting(uuid.New(), "کامپیوتر", job.JobTypeInternship, job.WorkTypeRemote, "go", 1),
	}

	page, err := NewRanker(nil, 2, 0).RankPostings(context.Background(), req, postings, RankOptions{Filters: Filters{JobType: job.JobTypeInternship}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, postings[1].ID, page.Items[0].Posting.ID)
}

func TestPaginate_Clamps(t *testing.T) {
	items := make([]Ranked, 30)

	p := Paginate(items, 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Len(t, p.Items, DefaultPageSize)
	assert.Equal(t, 3, p.TotalPages)

	p = Paginate(items, 1, 1000)
	assert.Equal(t, MaxPageSize, p.PageSize)
	assert.Len(t, p.Items, 30)

	p = Paginate(nil, 1, 10)
	assert.NotNil(t, p.Items)
	assert.Zero(t, p.TotalPages)
}

func TestPaginate_HugePageIsEmpty(t *testing.T) {
	items := make([]Ranked, 3)

	var page Page
	assert.NotPanics(t, func() { page = Paginate(items, math.MaxInt, DefaultPageSize) })
	assert.Empty(t, page.Items)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 1, page.TotalPages)

	page = Paginate(nil, 2, DefaultPageSize)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.TotalPages)
}
