package repository

import (
	"context"

	"wish-lottery-backend/internal/features/wishlist/models"
)

// Repository persists the two wishlist collections as whole units. Both
// collections keep insertion order; every mutation rewrites the stored
// value for its collection.
type Repository interface {
	ListNames(ctx context.Context) ([]models.PresetName, error)
	ListWishes(ctx context.Context) ([]models.Wish, error)
	SaveNames(ctx context.Context, names []models.PresetName) error
	SaveWishes(ctx context.Context, wishes []models.Wish) error
	// ReplaceAll rewrites both collections together, for cascading deletes
	// and backup import. Either both collections are replaced or neither.
	ReplaceAll(ctx context.Context, names []models.PresetName, wishes []models.Wish) error
}
