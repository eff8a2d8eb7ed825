package job

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type JobType string

const (
	JobTypeInternship JobType = "internship"
	JobTypePartTime   JobType = "part_time"
	JobTypeFullTime   JobType = "full_time"
	JobTypeProject    JobType = "project"
	JobTypeFreelance  JobType = "freelance"
)

type WorkType string

const (
	WorkTypeRemote WorkType = "remote"
	WorkTypeOffice WorkType = "office"
	WorkTypeHybrid WorkType = "hybrid"
)

// ParseJobType accepts the enum value in any case and surrounding whitespace.
func ParseJobType(s string) (JobType, bool) {
	switch jt := JobType(strings.ToLower(strings.TrimSpace(s))); jt {
	case JobTypeInternship, JobTypePartTime, JobTypeFullTime, JobTypeProject, JobTypeFreelance:
		return jt, true
	default:
		return "", false
	}
}

func ParseWorkType(s string) (WorkType, bool) {
	switch wt := WorkType(strings.ToLower(strings.TrimSpace(s))); wt {
	case WorkTypeRemote, WorkTypeOffice, WorkTypeHybrid:
		return wt, true
	default:
		return "", false
	}
}

// Posting is a read-only snapshot of a company's standing opening.
type Posting struct {
	ID                uuid.UUID
	CompanyID         uuid.UUID
	Title             string
	FieldOfStudy      string
	JobType           JobType
	WorkType          WorkType
	City              string
	Province          string
	RequiredSkills    string
	MinSalary         *int
	MaxSalary         *int
	NumberOfPositions int
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
