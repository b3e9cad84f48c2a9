package service

import (
	"context"
	"io"

	"wish-lottery-backend/internal/features/wishlist/models"
)

// WishlistService mediates all writes to the name and wish collections and
// enforces their consistency rules: unique names, one wish per name, and
// confirm-then-commit cascading deletes.
type WishlistService interface {
	AddName(ctx context.Context, name string) (*models.PresetName, error)
	ListNames(ctx context.Context) ([]models.NameStatus, error)
	AvailableNames(ctx context.Context) ([]models.PresetName, error)
	DeleteName(ctx context.Context, id string, confirm bool) (*models.DeletionOutcome, error)
	ClearNames(ctx context.Context, confirm bool) (*models.DeletionOutcome, error)

	SubmitWish(ctx context.Context, nameID, text string) (*models.Wish, error)
	ListWishes(ctx context.Context) ([]models.Wish, error)
	DeleteWish(ctx context.Context, id string) error
	ClearWishes(ctx context.Context) error

	Stats(ctx context.Context) (*models.Stats, error)

	Export(ctx context.Context) (*models.BackupDocument, error)
	Import(ctx context.Context, raw []byte, confirm bool) (*models.ImportSummary, error)
	ImportNames(ctx context.Context, r io.Reader) (int, error)
	NameTemplateCSV() []byte
}
