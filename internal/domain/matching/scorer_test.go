package matching

import (
	"testing"
	"time"

	"jobmatch/internal/domain/candidate"
	"jobmatch/internal/domain/job"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWeights_Validation(t *testing.T) {
	_, err := NewWeights(DefaultWeightsInput)
	require.NoError(t, err)

	in := DefaultWeightsInput
	in.Salary = 0.10
	_, err = NewWeights(in)
	assert.ErrorIs(t, err, ErrInvalidWeights)

	in = DefaultWeightsInput
	in.Location = -0.10
	in.Salary = 0.25
	_, err = NewWeights(in)
	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestNewScorer_RejectsZeroWeights(t *testing.T) {
	_, err := NewScorer(Weights{})
	assert.ErrorIs(t, err, ErrInvalidWeights)

	s, err := NewScorer(DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, 0.30, s.Weights().Of(CriterionFieldOfStudy))
}

func TestScore_EndToEndScenario(t *testing.T) {
	req := candidate.Request{
		FieldOfStudy:   "کامپیوتر",
		JobType:        job.JobTypeFullTime,
		WorkType:       job.WorkTypeRemote,
		Skills:         "python,django",
		ExpectedSalary: intPtr(0),
		IsActive:       true,
	}
	p := job.Posting{
		FieldOfStudy:   "نرم‌افزار",
		JobType:        job.JobTypeFullTime,
		WorkType:       job.WorkTypeRemote,
		RequiredSkills: "python",
		IsActive:       true,
	}

	sc := DefaultScorer().Score(req, p)

	assert.InDelta(t, 0.855, sc.Value, 1e-9)
	assert.Equal(t, Breakdown{
		FieldOfStudy: 0.6,
		JobType:      1.0,
		WorkType:     1.0,
		Skills:       1.0,
		Location:     1.0,
		Salary:       0.5,
	}, sc.Breakdown)
	assert.Equal(t, 85.5, sc.Percent())
}

func TestScore_IdenticalFieldsScoreOne(t *testing.T) {
	req := candidate.Request{
		FieldOfStudy:   "مکانیک",
		JobType:        job.JobTypeInternship,
		WorkType:       job.WorkTypeOffice,
		City:           "اصفهان",
		Province:       "اصفهان",
		Skills:         "solidworks, autocad",
		ExpectedSalary: intPtr(12),
		IsActive:       true,
	}
	p := job.Posting{
		FieldOfStudy:   "مکانیک",
		JobType:        job.JobTypeInternship,
		WorkType:       job.WorkTypeOffice,
		City:           "اصفهان",
		Province:       "اصفهان",
		RequiredSkills: "solidworks, autocad",
		MinSalary:      intPtr(10),
		MaxSalary:      intPtr(15),
		IsActive:       true,
	}

	assert.Equal(t, 1.0, DefaultScorer().Score(req, p).Value)
}

func TestScore_AlwaysInUnitInterval(t *testing.T) {
	fields := []string{"", "کامپیوتر", "برق", "history"}
	jobTypes := []job.JobType{job.JobTypeFullTime, job.JobTypeProject}
	workTypes := []job.WorkType{job.WorkTypeRemote, job.WorkTypeOffice, job.WorkTypeHybrid}
	salaries := []*int{nil, intPtr(5), intPtr(50)}

	s := DefaultScorer()
	for _, f := range fields {
		for _, jt := range jobTypes {
			for _, wt := range workTypes {
				for _, sal := range salaries {
					req := candidate.Request{FieldOfStudy: f, JobType: jt, WorkType: wt, Skills: "go", ExpectedSalary: sal, City: "a"}
					p := job.Posting{FieldOfStudy: "کامپیوتر", JobType: job.JobTypeFullTime, WorkType: wt, RequiredSkills: "go, sql", MinSalary: intPtr(10), City: "b"}
					v := s.Score(req, p).Value
					assert.GreaterOrEqual(t, v, 0.0)
					assert.LessOrEqual(t, v, 1.0)
				}
			}
		}
	}
}

func TestScore_RemoteKeepsFullLocationWeight(t *testing.T) {
	req := candidate.Request{City: "تبریز", WorkType: job.WorkTypeRemote}
	remote := job.Posting{City: "شیراز", WorkType: job.WorkTypeRemote}
	office := job.Posting{City: "شیراز", WorkType: job.WorkTypeOffice}

	s := DefaultScorer()
	assert.Equal(t, 1.0, s.Score(req, remote).Breakdown.Location)
	assert.Equal(t, 0.0, s.Score(req, office).Breakdown.Location)
}

func TestScoreAgainstCompany(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	req := candidate.Request{
		FieldOfStudy: "کامپیوتر",
		JobType:      job.JobTypeFullTime,
		WorkType:     job.WorkTypeRemote,
		Skills:       "go",
		IsActive:     true,
	}
	weak := job.Posting{ID: uuid.New(), FieldOfStudy: "حسابداری", JobType: job.JobTypeProject, WorkType: job.WorkTypeOffice, IsActive: true, CreatedAt: base}
	strong := job.Posting{ID: uuid.New(), FieldOfStudy: "کامپیوتر", JobType: job.JobTypeFullTime, WorkType: job.WorkTypeRemote, RequiredSkills: "go", IsActive: true, CreatedAt: base.Add(time.Hour)}
	inactive := strong
	inactive.ID = uuid.New()
	inactive.IsActive = false
	inactive.CreatedAt = base.Add(-time.Hour)

	sc, p, ok := DefaultScorer().ScoreAgainstCompany(req, []job.Posting{inactive, weak, strong})
	require.True(t, ok)
	assert.Equal(t, strong.ID, p.ID)
	assert.InDelta(t, 0.975, sc.Value, 1e-9)

	_, _, ok = DefaultScorer().ScoreAgainstCompany(req, []job.Posting{inactive})
	assert.False(t, ok)
}

func TestScoreAgainstCompany_TieGoesToOlderPosting(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	req := candidate.Request{FieldOfStudy: "برق", IsActive: true}
	older := job.Posting{ID: uuid.New(), FieldOfStudy: "برق", IsActive: true, CreatedAt: base}
	newer := job.Posting{ID: uuid.New(), FieldOfStudy: "برق", IsActive: true, CreatedAt: base.Add(time.Minute)}

	_, p, ok := DefaultScorer().ScoreAgainstCompany(req, []job.Posting{newer, older})
	require.True(t, ok)
	assert.Equal(t, older.ID, p.ID)
}
