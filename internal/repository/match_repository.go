package repository

import (
	"context"
	"fmt"

	"jobmatch/internal/database"
	"jobmatch/internal/domain/match"

	"github.com/google/uuid"
)

// MatchRepository persists matches together with their audit trail. Every method that
// changes a match writes the accompanying history row in the same transaction.
type MatchRepository interface {
	Create(ctx context.Context, m match.Match, h match.History) (match.Match, error)
	FindByID(ctx context.Context, id uuid.UUID) (match.Match, error)
	// Transition moves a pending match to status. It fails with ErrStatusConflict when the
	// match is no longer pending at write time.
	Transition(ctx context.Context, id uuid.UUID, status match.Status, notes *string, h match.History) (match.Match, error)
	// SetMessage stores a contact message on one side of an accepted match.
	SetMessage(ctx context.Context, id uuid.UUID, candidateSide bool, message string, h match.History) (match.Match, error)
	AppendHistory(ctx context.Context, h match.History) error
	ListHistory(ctx context.Context, matchID uuid.UUID) ([]match.History, error)
	ListByParty(ctx context.Context, partyID uuid.UUID, status match.Status) ([]match.Match, error)
	// ListPending returns pending matches oldest first, including those whose request or posting
	// is still unresolved.
	ListPending(ctx context.Context, limit int) ([]match.Match, error)
	UpdateScore(ctx context.Context, id uuid.UUID, score float64) (bool, error)
}

type PostgresMatchRepository struct {
	db database.DB
}

func NewPostgresMatchRepository(db database.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

const matchColumns = `id, candidate_id, company_id, candidate_request_id, job_posting_id, match_score, status,
	candidate_message, company_message, notes, created_at, updated_at`

func scanMatch(s scanner) (match.Match, error) {
	var (
		m      match.Match
		status string
	)
	err := s.Scan(
		&m.ID, &m.CandidateID, &m.CompanyID, &m.CandidateRequestID, &m.JobPostingID, &m.Score, &status,
		&m.CandidateMessage, &m.CompanyMessage, &m.Notes, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return match.Match{}, err
	}
	m.Status = match.Status(status)
	return m, nil
}

func (r *PostgresMatchRepository) Create(ctx context.Context, m match.Match, h match.History) (match.Match, error) {
	var created match.Match
	err := database.InTx(ctx, r.db, func(tx database.Tx) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO matches (id, candidate_id, company_id, candidate_request_id, job_posting_id, match_score, status)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT DO NOTHING
			 RETURNING `+matchColumns,
			m.ID, m.CandidateID, m.CompanyID, m.CandidateRequestID, m.JobPostingID, m.Score, string(m.Status),
		)
		var err error
		created, err = scanMatch(row)
		if err != nil {
			if isNoRows(err) || isUniqueViolation(err) {
				return ErrDuplicateMatch
			}
			return err
		}
		return insertHistory(ctx, tx, h)
	})
	if err != nil {
		return match.Match{}, err
	}
	return created, nil
}

func (r *PostgresMatchRepository) FindByID(ctx context.Context, id uuid.UUID) (match.Match, error) {
	row := r.db.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
	m, err := scanMatch(row)
	if err != nil {
		if isNoRows(err) {
			return match.Match{}, ErrMatchNotFound
		}
		return match.Match{}, err
	}
	return m, nil
}

func (r *PostgresMatchRepository) Transition(ctx context.Context, id uuid.UUID, status match.Status, notes *string, h match.History) (match.Match, error) {
	return r.updateWithHistory(ctx, id, h,
		`UPDATE matches
		 SET status = $2, notes = COALESCE($3, notes), updated_at = now()
		 WHERE id = $1 AND status = 'pending'
		 RETURNING `+matchColumns,
		id, string(status), notes,
	)
}

func (r *PostgresMatchRepository) SetMessage(ctx context.Context, id uuid.UUID, candidateSide bool, message string, h match.History) (match.Match, error) {
	column := "company_message"
	if candidateSide {
		column = "candidate_message"
	}
	return r.updateWithHistory(ctx, id, h,
		fmt.Sprintf(`UPDATE matches
		 SET %s = $2, updated_at = now()
		 WHERE id = $1 AND status = 'accepted'
		 RETURNING `+matchColumns, column),
		id, message,
	)
}

// updateWithHistory runs a guarded single-row UPDATE and, when it hit, the history insert in
// one transaction. A miss is ErrMatchNotFound or ErrStatusConflict depending on whether the
// row exists.
func (r *PostgresMatchRepository) updateWithHistory(ctx context.Context, id uuid.UUID, h match.History, query string, args ...any) (match.Match, error) {
	var updated match.Match
	err := database.InTx(ctx, r.db, func(tx database.Tx) error {
		var err error
		updated, err = scanMatch(tx.QueryRow(ctx, query, args...))
		if err != nil {
			if !isNoRows(err) {
				return err
			}
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM matches WHERE id = $1)`, id).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return ErrMatchNotFound
			}
			return ErrStatusConflict
		}
		return insertHistory(ctx, tx, h)
	})
	if err != nil {
		return match.Match{}, err
	}
	return updated, nil
}

func (r *PostgresMatchRepository) AppendHistory(ctx context.Context, h match.History) error {
	return insertHistory(ctx, r.db, h)
}

type execer interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
}

func insertHistory(ctx context.Context, ex execer, h match.History) error {
	_, err := ex.Exec(ctx,
		`INSERT INTO match_history (id, match_id, action, actor_id, message)
		 VALUES ($1, $2, $3, $4, $5)`,
		h.ID, h.MatchID, string(h.Action), h.ActorID, h.Message,
	)
	if err != nil {
		return fmt.Errorf("insert match history: %w", err)
	}
	return nil
}

func (r *PostgresMatchRepository) ListHistory(ctx context.Context, matchID uuid.UUID) ([]match.History, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, match_id, action, actor_id, message, created_at
		 FROM match_history
		 WHERE match_id = $1
		 ORDER BY created_at ASC, id ASC`,
		matchID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]match.History, 0)
	for rows.Next() {
		var (
			h      match.History
			action string
		)
		if err := rows.Scan(&h.ID, &h.MatchID, &action, &h.ActorID, &h.Message, &h.CreatedAt); err != nil {
			return nil, err
		}
		h.Action = match.Action(action)
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByParty lists matches where partyID is candidate or company. An empty status lists all.
func (r *PostgresMatchRepository) ListByParty(ctx context.Context, partyID uuid.UUID, status match.Status) ([]match.Match, error) {
	return r.list(ctx,
		`SELECT `+matchColumns+`
		 FROM matches
		 WHERE (candidate_id = $1 OR company_id = $1)
		   AND ($2::text = '' OR status = $2::text)
		 ORDER BY created_at DESC, id ASC`,
		partyID, string(status),
	)
}

func (r *PostgresMatchRepository) ListPending(ctx context.Context, limit int) ([]match.Match, error) {
	if limit <= 0 {
		limit = 1000
	}
	return r.list(ctx,
		`SELECT `+matchColumns+`
		 FROM matches
		 WHERE status = 'pending'
		 ORDER BY created_at ASC, id ASC
		 LIMIT $1`,
		limit,
	)
}

// UpdateScore rewrites the score of a still pending match. It reports false when the match
// left pending in the meantime.
func (r *PostgresMatchRepository) UpdateScore(ctx context.Context, id uuid.UUID, score float64) (bool, error) {
	n, err := r.db.Exec(ctx,
		`UPDATE matches SET match_score = $2, updated_at = now() WHERE id = $1 AND status = 'pending'`,
		id, score,
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresMatchRepository) list(ctx context.Context, query string, args ...any) ([]match.Match, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]match.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
