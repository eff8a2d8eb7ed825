package seeder

import (
	"context"

	"jobmatch/internal/database"
)

// Seeder inserts a fixed dataset. Running it twice must be harmless.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
