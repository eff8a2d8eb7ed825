package matching

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"jobmatch/internal/domain/candidate"
	"jobmatch/internal/domain/job"
)

var ErrInvalidFilter = errors.New("invalid filter")

// DefaultMinScorePercent applies when the caller sends no min_score.
const DefaultMinScorePercent = 50

// RawFilters carries the filter values exactly as the caller sent them.
type RawFilters struct {
	Field    string
	JobType  string
	WorkType string
	City     string
	MinScore string
}

// Filters are the parsed ranking pre-filters. MinScore is on the unit interval.
type Filters struct {
	Field    string
	JobType  job.JobType
	WorkType job.WorkType
	City     string
	MinScore float64
}

// ParseFilters is the one place where the 0..100 percentage used by callers is turned into
// the internal 0..1 threshold.
func ParseFilters(raw RawFilters) (Filters, error) {
	f := Filters{
		Field:    strings.ToLower(strings.TrimSpace(raw.Field)),
		City:     strings.ToLower(strings.TrimSpace(raw.City)),
		MinScore: DefaultMinScorePercent / 100.0,
	}

	if s := strings.TrimSpace(raw.JobType); s != "" {
		jt, ok := job.ParseJobType(s)
		if !ok {
			return Filters{}, fmt.Errorf("%w: job_type %q", ErrInvalidFilter, raw.JobType)
		}
		f.JobType = jt
	}
	if s := strings.TrimSpace(raw.WorkType); s != "" {
		wt, ok := job.ParseWorkType(s)
		if !ok {
			return Filters{}, fmt.Errorf("%w: work_type %q", ErrInvalidFilter, raw.WorkType)
		}
		f.WorkType = wt
	}
	if s := strings.TrimSpace(raw.MinScore); s != "" {
		pct, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Filters{}, fmt.Errorf("%w: min_score %q is not a number", ErrInvalidFilter, raw.MinScore)
		}
		if math.IsNaN(pct) || pct < 0 || pct > 100 {
			return Filters{}, fmt.Errorf("%w: min_score %v out of range 0-100", ErrInvalidFilter, pct)
		}
		f.MinScore = pct / 100
	}
	return f, nil
}

func (f Filters) AcceptsRequest(r candidate.Request) bool {
	return f.accepts(r.FieldOfStudy, r.JobType, r.WorkType, r.City)
}

func (f Filters) AcceptsPosting(p job.Posting) bool {
	return f.accepts(p.FieldOfStudy, p.JobType, p.WorkType, p.City)
}

func (f Filters) accepts(field string, jt job.JobType, wt job.WorkType, city string) bool {
	if f.Field != "" && !strings.Contains(strings.ToLower(field), f.Field) {
		return false
	}
	if f.JobType != "" && jt != f.JobType {
		return false
	}
	if f.WorkType != "" && wt != f.WorkType {
		return false
	}
	if f.City != "" && !strings.Contains(strings.ToLower(city), f.City) {
		return false
	}
	return true
}
