package repository

import (
	"context"

	"jobmatch/internal/database"
	"jobmatch/internal/domain/job"

	"github.com/google/uuid"
)

type JobPostingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (job.Posting, error)
	ListActiveByCompany(ctx context.Context, companyID uuid.UUID) ([]job.Posting, error)
	// ListActive returns active postings of active company accounts.
	ListActive(ctx context.Context) ([]job.Posting, error)
}

type PostgresJobPostingRepository struct {
	db database.DB
}

func NewPostgresJobPostingRepository(db database.DB) *PostgresJobPostingRepository {
	return &PostgresJobPostingRepository{db: db}
}

const jobPostingColumns = `jp.id, jp.company_id, jp.title, jp.field_of_study, jp.job_type, jp.work_type,
	jp.city, jp.province, jp.required_skills, jp.min_salary, jp.max_salary, jp.number_of_positions,
	jp.is_active, jp.created_at, jp.updated_at`

func scanJobPosting(s scanner) (job.Posting, error) {
	var (
		p        job.Posting
		jobType  string
		workType string
	)
	err := s.Scan(
		&p.ID, &p.CompanyID, &p.Title, &p.FieldOfStudy, &jobType, &workType,
		&p.City, &p.Province, &p.RequiredSkills, &p.MinSalary, &p.MaxSalary, &p.NumberOfPositions,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return job.Posting{}, err
	}
	p.JobType = job.JobType(jobType)
	p.WorkType = job.WorkType(workType)
	return p, nil
}

func (r *PostgresJobPostingRepository) FindByID(ctx context.Context, id uuid.UUID) (job.Posting, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+jobPostingColumns+`
		 FROM job_postings jp
		 WHERE jp.id = $1`,
		id,
	)
	p, err := scanJobPosting(row)
	if err != nil {
		if isNoRows(err) {
			return job.Posting{}, ErrJobPostingNotFound
		}
		return job.Posting{}, err
	}
	return p, nil
}

func (r *PostgresJobPostingRepository) ListActiveByCompany(ctx context.Context, companyID uuid.UUID) ([]job.Posting, error) {
	return r.list(ctx,
		`SELECT `+jobPostingColumns+`
		 FROM job_postings jp
		 WHERE jp.company_id = $1 AND jp.is_active = true
		 ORDER BY jp.created_at ASC, jp.id ASC`,
		companyID,
	)
}

func (r *PostgresJobPostingRepository) ListActive(ctx context.Context) ([]job.Posting, error) {
	return r.list(ctx,
		`SELECT `+jobPostingColumns+`
		 FROM job_postings jp
		 JOIN accounts a ON a.id = jp.company_id
		 WHERE jp.is_active = true AND a.is_active = true
		 ORDER BY jp.created_at ASC, jp.id ASC`,
	)
}

func (r *PostgresJobPostingRepository) list(ctx context.Context, query string, args ...any) ([]job.Posting, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Posting, 0)
	for rows.Next() {
		p, err := scanJobPosting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
