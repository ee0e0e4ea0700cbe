package repository

import "context"

// RefDataRepository provides the read-only country and city lookup lists
// consumed by the presentation layer for dropdown population.
type RefDataRepository interface {
	Countries(ctx context.Context) ([]string, error)
	Cities(ctx context.Context) ([]string, error)
}
