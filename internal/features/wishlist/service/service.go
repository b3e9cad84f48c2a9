package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	apperrors "wish-lottery-backend/internal/common/errors"
	"wish-lottery-backend/internal/common/logger"
	"wish-lottery-backend/internal/features/wishlist/models"
	"wish-lottery-backend/internal/features/wishlist/repository"
)

type wishlistService struct {
	repo repository.Repository
}

func NewWishlistService(repo repository.Repository) WishlistService {
	return &wishlistService{repo: repo}
}

func (s *wishlistService) AddName(ctx context.Context, name string) (*models.PresetName, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, apperrors.NewEmptyNameError()
	}

	names, err := s.repo.ListNames(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list names", err)
	}

	for _, n := range names {
		if n.Name == trimmed {
			return nil, apperrors.NewDuplicateNameError(trimmed)
		}
	}

	record := models.PresetName{
		ID:   uuid.New().String(),
		Name: trimmed,
	}
	names = append(names, record)

	if err := s.repo.SaveNames(ctx, names); err != nil {
		return nil, apperrors.NewStorageError("save names", err)
	}

	logger.Info().Str("name", record.Name).Msg("Preset name added")
	return &record, nil
}

func (s *wishlistService) ListNames(ctx context.Context) ([]models.NameStatus, error) {
	names, err := s.repo.ListNames(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list names", err)
	}
	wishes, err := s.repo.ListWishes(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list wishes", err)
	}

	submitted := wishNameSet(wishes)
	out := make([]models.NameStatus, 0, len(names))
	for _, n := range names {
		out = append(out, models.NameStatus{
			PresetName: n,
			Submitted:  submitted[n.Name],
		})
	}
	return out, nil
}

// AvailableNames returns, in store order, every preset name that has no
// wish yet.
func (s *wishlistService) AvailableNames(ctx context.Context) ([]models.PresetName, error) {
	names, err := s.repo.ListNames(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list names", err)
	}
	wishes, err := s.repo.ListWishes(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list wishes", err)
	}

	submitted := wishNameSet(wishes)
	available := make([]models.PresetName, 0, len(names))
	for _, n := range names {
		if !submitted[n.Name] {
			available = append(available, n)
		}
	}
	return available, nil
}

// DeleteName removes one preset name. When the name has a dependent wish
// the delete is destructive: without confirm nothing is applied and the
// caller gets a confirmation-required error carrying the dependent count.
// A confirmed delete removes the name and its wishes together.
func (s *wishlistService) DeleteName(ctx context.Context, id string, confirm bool) (*models.DeletionOutcome, error) {
	names, err := s.repo.ListNames(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list names", err)
	}

	idx := -1
	for i, n := range names {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, apperrors.NewNotFoundError("preset name", id)
	}
	record := names[idx]

	wishes, err := s.repo.ListWishes(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list wishes", err)
	}

	remaining := make([]models.Wish, 0, len(wishes))
	dependents := 0
	for _, w := range wishes {
		if w.Name == record.Name {
			dependents++
			continue
		}
		remaining = append(remaining, w)
	}

	if dependents > 0 && !confirm {
		return nil, apperrors.NewConfirmationRequiredError("delete name", dependents)
	}

	names = append(names[:idx], names[idx+1:]...)

	if dependents > 0 {
		if err := s.repo.ReplaceAll(ctx, names, remaining); err != nil {
			return nil, apperrors.NewStorageError("replace collections", err)
		}
	} else {
		if err := s.repo.SaveNames(ctx, names); err != nil {
			return nil, apperrors.NewStorageError("save names", err)
		}
	}

	logger.Info().
		Str("name", record.Name).
		Int("deleted_wishes", dependents).
		Msg("Preset name deleted")

	return &models.DeletionOutcome{DeletedNames: 1, DeletedWishes: dependents}, nil
}

// ClearNames removes every preset name. If any wish exists the clear is
// destructive and follows the same confirm-then-commit contract, removing
// all wishes with the names.
func (s *wishlistService) ClearNames(ctx context.Context, confirm bool) (*models.DeletionOutcome, error) {
	names, err := s.repo.ListNames(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list names", err)
	}
	if len(names) == 0 {
		return &models.DeletionOutcome{}, nil
	}

	wishes, err := s.repo.ListWishes(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list wishes", err)
	}

	if len(wishes) > 0 && !confirm {
		return nil, apperrors.NewConfirmationRequiredError("clear names", len(wishes))
	}

	if err := s.repo.ReplaceAll(ctx, []models.PresetName{}, []models.Wish{}); err != nil {
		return nil, apperrors.NewStorageError("replace collections", err)
	}

	logger.Info().
		Int("deleted_names", len(names)).
		Int("deleted_wishes", len(wishes)).
		Msg("Preset names cleared")

	return &models.DeletionOutcome{DeletedNames: len(names), DeletedWishes: len(wishes)}, nil
}

// SubmitWish creates the one wish a preset name is allowed. The text is
// trimmed before validation; wishes are immutable once created.
func (s *wishlistService) SubmitWish(ctx context.Context, nameID, text string) (*models.Wish, error) {
	names, err := s.repo.ListNames(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list names", err)
	}

	var record *models.PresetName
	for i := range names {
		if names[i].ID == nameID {
			record = &names[i]
			break
		}
	}
	if record == nil {
		return nil, apperrors.NewNoSuchNameError(nameID)
	}

	wishes, err := s.repo.ListWishes(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list wishes", err)
	}

	for _, w := range wishes {
		if w.Name == record.Name {
			return nil, apperrors.NewAlreadySubmittedError(record.Name)
		}
	}

	trimmed := strings.TrimSpace(text)
	length := utf8.RuneCountInString(trimmed)
	switch {
	case length == 0:
		return nil, apperrors.NewEmptyWishError()
	case length < models.MinWishLength:
		return nil, apperrors.NewWishTooShortError(length, models.MinWishLength)
	case length > models.MaxWishLength:
		return nil, apperrors.NewWishTooLongError(length, models.MaxWishLength)
	}

	wish := models.Wish{
		ID:        uuid.New().String(),
		Name:      record.Name,
		Text:      trimmed,
		CreatedAt: time.Now().UTC(),
	}
	wishes = append(wishes, wish)

	if err := s.repo.SaveWishes(ctx, wishes); err != nil {
		return nil, apperrors.NewStorageError("save wishes", err)
	}

	logger.Info().Str("name", wish.Name).Msg("Wish submitted")
	return &wish, nil
}

func (s *wishlistService) ListWishes(ctx context.Context) ([]models.Wish, error) {
	wishes, err := s.repo.ListWishes(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list wishes", err)
	}
	return wishes, nil
}

func (s *wishlistService) DeleteWish(ctx context.Context, id string) error {
	wishes, err := s.repo.ListWishes(ctx)
	if err != nil {
		return apperrors.NewStorageError("list wishes", err)
	}

	idx := -1
	for i, w := range wishes {
		if w.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return apperrors.NewNotFoundError("wish", id)
	}

	wishes = append(wishes[:idx], wishes[idx+1:]...)
	if err := s.repo.SaveWishes(ctx, wishes); err != nil {
		return apperrors.NewStorageError("save wishes", err)
	}

	logger.Info().Str("wish_id", id).Msg("Wish deleted")
	return nil
}

func (s *wishlistService) ClearWishes(ctx context.Context) error {
	if err := s.repo.SaveWishes(ctx, []models.Wish{}); err != nil {
		return apperrors.NewStorageError("save wishes", err)
	}
	logger.Info().Msg("Wishes cleared")
	return nil
}

func (s *wishlistService) Stats(ctx context.Context) (*models.Stats, error) {
	names, err := s.repo.ListNames(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list names", err)
	}
	wishes, err := s.repo.ListWishes(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError("list wishes", err)
	}

	return &models.Stats{
		Names:     len(names),
		Submitted: len(wishes),
		Pending:   len(names) - len(wishes),
	}, nil
}

func wishNameSet(wishes []models.Wish) map[string]bool {
	set := make(map[string]bool, len(wishes))
	for _, w := range wishes {
		set[w.Name] = true
	}
	return set
}
