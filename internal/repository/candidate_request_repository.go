package repository

import (
	"context"

	"jobmatch/internal/database"
	"jobmatch/internal/domain/candidate"
	"jobmatch/internal/domain/job"

	"github.com/google/uuid"
)

type CandidateRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (candidate.Request, error)
	// FindActiveByCandidate returns the candidate's most recently updated active request.
	FindActiveByCandidate(ctx context.Context, candidateID uuid.UUID) (candidate.Request, error)
	// ListActive returns active requests of active candidate accounts, oldest first.
	ListActive(ctx context.Context) ([]candidate.Request, error)
}

type PostgresCandidateRequestRepository struct {
	db database.DB
}

func NewPostgresCandidateRequestRepository(db database.DB) *PostgresCandidateRequestRepository {
	return &PostgresCandidateRequestRepository{db: db}
}

const candidateRequestColumns = `cr.id, cr.candidate_id, cr.field_of_study, cr.job_type, cr.work_type,
	cr.city, cr.province, cr.skills, cr.expected_salary, cr.is_active, cr.created_at, cr.updated_at`

func scanCandidateRequest(s scanner) (candidate.Request, error) {
	var (
		r        candidate.Request
		jobType  string
		workType string
	)
	err := s.Scan(
		&r.ID, &r.CandidateID, &r.FieldOfStudy, &jobType, &workType,
		&r.City, &r.Province, &r.Skills, &r.ExpectedSalary, &r.IsActive, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return candidate.Request{}, err
	}
	r.JobType = job.JobType(jobType)
	r.WorkType = job.WorkType(workType)
	return r, nil
}

func (r *PostgresCandidateRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (candidate.Request, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+candidateRequestColumns+`
		 FROM candidate_requests cr
		 WHERE cr.id = $1`,
		id,
	)
	req, err := scanCandidateRequest(row)
	if err != nil {
		if isNoRows(err) {
			return candidate.Request{}, ErrCandidateRequestNotFound
		}
		return candidate.Request{}, err
	}
	return req, nil
}

func (r *PostgresCandidateRequestRepository) FindActiveByCandidate(ctx context.Context, candidateID uuid.UUID) (candidate.Request, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+candidateRequestColumns+`
		 FROM candidate_requests cr
		 WHERE cr.candidate_id = $1 AND cr.is_active = true
		 ORDER BY cr.updated_at DESC, cr.id ASC
		 LIMIT 1`,
		candidateID,
	)
	req, err := scanCandidateRequest(row)
	if err != nil {
		if isNoRows(err) {
			return candidate.Request{}, ErrCandidateRequestNotFound
		}
		return candidate.Request{}, err
	}
	return req, nil
}

func (r *PostgresCandidateRequestRepository) ListActive(ctx context.Context) ([]candidate.Request, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+candidateRequestColumns+`
		 FROM candidate_requests cr
		 JOIN accounts a ON a.id = cr.candidate_id
		 WHERE cr.is_active = true AND a.is_active = true
		 ORDER BY cr.created_at ASC, cr.id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]candidate.Request, 0)
	for rows.Next() {
		req, err := scanCandidateRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
