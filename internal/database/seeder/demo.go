package seeder

import (
	"context"

	"jobmatch/internal/database"
	"jobmatch/internal/domain/candidate"
	"jobmatch/internal/domain/job"

	"github.com/google/uuid"
)

// Fixed ids so the demo data can be referenced from docs and curl sessions.
var (
	DemoAdminID     = uuid.MustParse("00000000-0000-4000-8000-000000000001")
	DemoCompanyA    = uuid.MustParse("00000000-0000-4000-8000-0000000000a1")
	DemoCompanyB    = uuid.MustParse("00000000-0000-4000-8000-0000000000a2")
	DemoCandidate1  = uuid.MustParse("00000000-0000-4000-8000-0000000000c1")
	DemoCandidate2  = uuid.MustParse("00000000-0000-4000-8000-0000000000c2")
	DemoCandidate3  = uuid.MustParse("00000000-0000-4000-8000-0000000000c3")
	DemoCandidate4  = uuid.MustParse("00000000-0000-4000-8000-0000000000c4")
	demoPostingBase = "00000000-0000-4000-8000-00000000b0"
	demoRequestBase = "00000000-0000-4000-8000-00000000d0"
)

func intPtr(v int) *int { return &v }

func demoPostings() []job.Posting {
	return []job.Posting{
		{
			ID: uuid.MustParse(demoPostingBase + "01"), CompanyID: DemoCompanyA, Title: "Backend Engineer (Go)",
			FieldOfStudy: "Computer Engineering", JobType: job.JobTypeFullTime, WorkType: job.WorkTypeHybrid,
			City: "Tehran", Province: "Tehran", RequiredSkills: "go, postgresql, redis",
			MinSalary: intPtr(30_000_000), MaxSalary: intPtr(45_000_000), NumberOfPositions: 2,
		},
		{
			ID: uuid.MustParse(demoPostingBase + "02"), CompanyID: DemoCompanyA, Title: "Data Analyst Intern",
			FieldOfStudy: "Statistics", JobType: job.JobTypeInternship, WorkType: job.WorkTypeRemote,
			RequiredSkills: "python, sql", NumberOfPositions: 1,
		},
		{
			ID: uuid.MustParse(demoPostingBase + "03"), CompanyID: DemoCompanyB, Title: "Frontend Developer",
			FieldOfStudy: "Software Engineering", JobType: job.JobTypePartTime, WorkType: job.WorkTypeOffice,
			City: "Isfahan", Province: "Isfahan", RequiredSkills: "typescript, react",
			MinSalary: intPtr(15_000_000), NumberOfPositions: 1,
		},
	}
}

func demoRequests() []candidate.Request {
	return []candidate.Request{
		{
			ID: uuid.MustParse(demoRequestBase + "01"), CandidateID: DemoCandidate1,
			FieldOfStudy: "Computer Engineering", JobType: job.JobTypeFullTime, WorkType: job.WorkTypeHybrid,
			City: "Tehran", Province: "Tehran", Skills: "go, redis, docker", ExpectedSalary: intPtr(40_000_000),
		},
		{
			ID: uuid.MustParse(demoRequestBase + "02"), CandidateID: DemoCandidate2,
			FieldOfStudy: "Software Engineering", JobType: job.JobTypeFullTime, WorkType: job.WorkTypeRemote,
			City: "Shiraz", Province: "Fars", Skills: "typescript, react, node",
		},
		{
			ID: uuid.MustParse(demoRequestBase + "03"), CandidateID: DemoCandidate3,
			FieldOfStudy: "Statistics", JobType: job.JobTypeInternship, WorkType: job.WorkTypeRemote,
			City: "Tabriz", Province: "East Azerbaijan", Skills: "advanced python, sql basics",
		},
		{
			ID: uuid.MustParse(demoRequestBase + "04"), CandidateID: DemoCandidate4,
			FieldOfStudy: "Psychology", JobType: job.JobTypeProject, WorkType: job.WorkTypeOffice,
			City: "Isfahan", Province: "Isfahan", Skills: "research, spss", ExpectedSalary: intPtr(10_000_000),
		},
	}
}

type AccountsSeeder struct{}

func (AccountsSeeder) Name() string { return "accounts" }

func (AccountsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "accounts", "id", "kind", "is_active"); err != nil {
		return err
	}

	items := []struct {
		ID   uuid.UUID
		Kind string
	}{
		{DemoAdminID, "admin"},
		{DemoCompanyA, "company"},
		{DemoCompanyB, "company"},
		{DemoCandidate1, "candidate"},
		{DemoCandidate2, "candidate"},
		{DemoCandidate3, "candidate"},
		{DemoCandidate4, "candidate"},
	}

	return database.InTx(ctx, db, func(tx database.Tx) error {
		for _, it := range items {
			if _, err := tx.Exec(ctx,
				`INSERT INTO accounts (id, kind, is_active) VALUES ($1, $2, TRUE) ON CONFLICT (id) DO NOTHING`,
				it.ID, it.Kind,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

type JobPostingsSeeder struct{}

func (JobPostingsSeeder) Name() string { return "job_postings" }

func (JobPostingsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "job_postings",
		"id", "company_id", "title", "field_of_study", "job_type", "work_type", "city", "province",
		"required_skills", "min_salary", "max_salary", "number_of_positions",
	); err != nil {
		return err
	}

	return database.InTx(ctx, db, func(tx database.Tx) error {
		for _, p := range demoPostings() {
			if _, err := tx.Exec(ctx,
				`INSERT INTO job_postings (
					id, company_id, title, field_of_study, job_type, work_type, city, province,
					required_skills, min_salary, max_salary, number_of_positions
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
				ON CONFLICT (id) DO NOTHING`,
				p.ID, p.CompanyID, p.Title, p.FieldOfStudy, string(p.JobType), string(p.WorkType), p.City, p.Province,
				p.RequiredSkills, p.MinSalary, p.MaxSalary, p.NumberOfPositions,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

type CandidateRequestsSeeder struct{}

func (CandidateRequestsSeeder) Name() string { return "candidate_requests" }

func (CandidateRequestsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "candidate_requests",
		"id", "candidate_id", "field_of_study", "job_type", "work_type", "city", "province", "skills", "expected_salary",
	); err != nil {
		return err
	}

	return database.InTx(ctx, db, func(tx database.Tx) error {
		for _, r := range demoRequests() {
			if _, err := tx.Exec(ctx,
				`INSERT INTO candidate_requests (
					id, candidate_id, field_of_study, job_type, work_type, city, province, skills, expected_salary
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (id) DO NOTHING`,
				r.ID, r.CandidateID, r.FieldOfStudy, string(r.JobType), string(r.WorkType), r.City, r.Province,
				r.Skills, r.ExpectedSalary,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
