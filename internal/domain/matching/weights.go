package matching

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidWeights = errors.New("invalid criterion weights")

const weightSumTolerance = 1e-9

type Criterion string

const (
	CriterionFieldOfStudy Criterion = "field_of_study"
	CriterionJobType      Criterion = "job_type"
	CriterionWorkType     Criterion = "work_type"
	CriterionSkills       Criterion = "skills"
	CriterionLocation     Criterion = "location"
	CriterionSalary       Criterion = "salary"
)

// Criteria lists every criterion in evaluation order.
var Criteria = []Criterion{
	CriterionFieldOfStudy,
	CriterionJobType,
	CriterionWorkType,
	CriterionSkills,
	CriterionLocation,
	CriterionSalary,
}

// Weights is immutable once built by NewWeights; the zero value is not usable.
type Weights struct {
	fieldOfStudy float64
	jobType      float64
	workType     float64
	skills       float64
	location     float64
	salary       float64
	valid        bool
}

type WeightsInput struct {
	FieldOfStudy float64
	JobType      float64
	WorkType     float64
	Skills       float64
	Location     float64
	Salary       float64
}

var DefaultWeightsInput = WeightsInput{
	FieldOfStudy: 0.30,
	JobType:      0.20,
	WorkType:     0.15,
	Skills:       0.20,
	Location:     0.10,
	Salary:       0.05,
}

func DefaultWeights() Weights {
	w, err := NewWeights(DefaultWeightsInput)
	if err != nil {
		panic(err)
	}
	return w
}

func NewWeights(in WeightsInput) (Weights, error) {
	w := Weights{
		fieldOfStudy: in.FieldOfStudy,
		jobType:      in.JobType,
		workType:     in.WorkType,
		skills:       in.Skills,
		location:     in.Location,
		salary:       in.Salary,
	}

	sum := 0.0
	for _, c := range Criteria {
		v := w.Of(c)
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return Weights{}, fmt.Errorf("%w: %s=%v", ErrInvalidWeights, c, v)
		}
		sum += v
	}
	if math.Abs(sum-1) > weightSumTolerance {
		return Weights{}, fmt.Errorf("%w: sum=%v, want 1", ErrInvalidWeights, sum)
	}
	w.valid = true
	return w, nil
}

func (w Weights) Of(c Criterion) float64 {
	switch c {
	case CriterionFieldOfStudy:
		return w.fieldOfStudy
	case CriterionJobType:
		return w.jobType
	case CriterionWorkType:
		return w.workType
	case CriterionSkills:
		return w.skills
	case CriterionLocation:
		return w.location
	case CriterionSalary:
		return w.salary
	default:
		return 0
	}
}
