package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrAccountNotFound          = errors.New("account not found")
	ErrCandidateRequestNotFound = errors.New("candidate request not found")
	ErrJobPostingNotFound       = errors.New("job posting not found")
	ErrMatchNotFound            = errors.New("match not found")
	ErrDuplicateMatch           = errors.New("match already exists for pairing")
	ErrStatusConflict           = errors.New("match status changed concurrently")
)

type scanner interface {
	Scan(dest ...any) error
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
