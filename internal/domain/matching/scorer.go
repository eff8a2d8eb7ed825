package matching

import (
	"fmt"
	"math"
	"sort"

	"jobmatch/internal/domain/candidate"
	"jobmatch/internal/domain/job"
)

type Breakdown struct {
	FieldOfStudy float64 `json:"field_of_study"`
	JobType      float64 `json:"job_type"`
	WorkType     float64 `json:"work_type"`
	Skills       float64 `json:"skills"`
	Location     float64 `json:"location"`
	Salary       float64 `json:"salary"`
}

func (b Breakdown) Of(c Criterion) float64 {
	switch c {
	case CriterionFieldOfStudy:
		return b.FieldOfStudy
	case CriterionJobType:
		return b.JobType
	case CriterionWorkType:
		return b.WorkType
	case CriterionSkills:
		return b.Skills
	case CriterionLocation:
		return b.Location
	case CriterionSalary:
		return b.Salary
	default:
		return 0
	}
}

// Score is a compatibility value in [0,1].
type Score struct {
	Value     float64   `json:"value"`
	Breakdown Breakdown `json:"breakdown"`
}

// Percent is the value on the 0..100 display scale, rounded to one decimal.
func (s Score) Percent() float64 {
	return math.Round(s.Value*1000) / 10
}

type Scorer struct {
	weights Weights
}

func NewScorer(w Weights) (*Scorer, error) {
	if !w.valid {
		return nil, fmt.Errorf("%w: weights not built with NewWeights", ErrInvalidWeights)
	}
	return &Scorer{weights: w}, nil
}

func DefaultScorer() *Scorer {
	return &Scorer{weights: DefaultWeights()}
}

func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score evaluates all six criteria. Location is always part of the sum, so remote
// postings add their full location weight instead of redistributing it.
func (s *Scorer) Score(req candidate.Request, p job.Posting) Score {
	b := Breakdown{
		FieldOfStudy: FieldOfStudyScore(req.FieldOfStudy, p.FieldOfStudy),
		JobType:      JobTypeScore(req.JobType, p.JobType),
		WorkType:     WorkTypeScore(req.WorkType, p.WorkType),
		Skills:       SkillsScore(req.Skills, p.RequiredSkills),
		Location:     LocationScore(p.WorkType, req.City, req.Province, p.City, p.Province),
		Salary:       SalaryScore(req.ExpectedSalary, p.MinSalary, p.MaxSalary),
	}

	total := 0.0
	applied := 0.0
	for _, c := range Criteria {
		w := s.weights.Of(c)
		total += w * b.Of(c)
		applied += w
	}

	value := 0.0
	if applied > 0 {
		value = total / applied
	}
	return Score{Value: clamp01(value), Breakdown: b}
}

// ScoreAgainstCompany scores the request against every active posting of one company and
// keeps the best one. Equal scores go to the older posting. ok is false when none is active.
func (s *Scorer) ScoreAgainstCompany(req candidate.Request, postings []job.Posting) (best Score, posting job.Posting, ok bool) {
	active := make([]job.Posting, 0, len(postings))
	for _, p := range postings {
		if p.IsActive {
			active = append(active, p)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return postingBefore(active[i], active[j])
	})

	for _, p := range active {
		sc := s.Score(req, p)
		if !ok || sc.Value > best.Value {
			best, posting, ok = sc, p, true
		}
	}
	return best, posting, ok
}

func postingBefore(a, b job.Posting) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
