package memory

import (
	"context"
	"sync"

	"wish-lottery-backend/internal/features/wishlist/models"
	"wish-lottery-backend/internal/features/wishlist/repository"
)

// memoryRepository keeps both collections in process memory. It backs the
// STORE_BACKEND=memory mode and the service tests.
type memoryRepository struct {
	mu     sync.RWMutex
	names  []models.PresetName
	wishes []models.Wish
}

func NewMemoryRepository() repository.Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) ListNames(ctx context.Context) ([]models.PresetName, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyNames(r.names), nil
}

func (r *memoryRepository) ListWishes(ctx context.Context) ([]models.Wish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyWishes(r.wishes), nil
}

func (r *memoryRepository) SaveNames(ctx context.Context, names []models.PresetName) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = copyNames(names)
	return nil
}

func (r *memoryRepository) SaveWishes(ctx context.Context, wishes []models.Wish) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wishes = copyWishes(wishes)
	return nil
}

func (r *memoryRepository) ReplaceAll(ctx context.Context, names []models.PresetName, wishes []models.Wish) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = copyNames(names)
	r.wishes = copyWishes(wishes)
	return nil
}

func copyNames(src []models.PresetName) []models.PresetName {
	dst := make([]models.PresetName, len(src))
	copy(dst, src)
	return dst
}

func copyWishes(src []models.Wish) []models.Wish {
	dst := make([]models.Wish, len(src))
	copy(dst, src)
	return dst
}
