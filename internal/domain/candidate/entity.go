package candidate

import (
	"time"

	"jobmatch/internal/domain/job"

	"github.com/google/uuid"
)

// Request is a read-only snapshot of a job seeker's standing ask.
type Request struct {
	ID             uuid.UUID
	CandidateID    uuid.UUID
	FieldOfStudy   string
	JobType        job.JobType
	WorkType       job.WorkType
	City           string
	Province       string
	Skills         string
	ExpectedSalary *int
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
