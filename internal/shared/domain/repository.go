package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the base interface for all repositories, keyed by
// aggregate id. The scheduling run-history store is its one implementation.
type Repository[T AggregateRoot] interface {
	Save(ctx context.Context, aggregate T) error
	FindByID(ctx context.Context, id uuid.UUID) (T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
