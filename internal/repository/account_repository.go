package repository

import (
	"context"

	"jobmatch/internal/database"

	"github.com/google/uuid"
)

const (
	AccountKindCandidate = "candidate"
	AccountKindCompany   = "company"
	AccountKindAdmin     = "admin"
)

// Account is the slice of the account subsystem the engine reads for eligibility checks.
type Account struct {
	ID       uuid.UUID
	Kind     string
	IsActive bool
}

type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (Account, error)
}

type PostgresAccountRepository struct {
	db database.DB
}

func NewPostgresAccountRepository(db database.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

func (r *PostgresAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (Account, error) {
	row := r.db.QueryRow(ctx, `SELECT id, kind, is_active FROM accounts WHERE id = $1`, id)

	var a Account
	if err := row.Scan(&a.ID, &a.Kind, &a.IsActive); err != nil {
		if isNoRows(err) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, err
	}
	return a, nil
}
