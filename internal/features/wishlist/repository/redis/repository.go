package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"wish-lottery-backend/internal/features/wishlist/models"
	"wish-lottery-backend/internal/features/wishlist/repository"
)

const (
	keyPresetNames = "preset-names"
	keyWishes      = "wishes"
)

type redisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) repository.Repository {
	return &redisRepository{client: client}
}

func (r *redisRepository) ListNames(ctx context.Context) ([]models.PresetName, error) {
	names := []models.PresetName{}
	if err := r.load(ctx, keyPresetNames, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (r *redisRepository) ListWishes(ctx context.Context) ([]models.Wish, error) {
	wishes := []models.Wish{}
	if err := r.load(ctx, keyWishes, &wishes); err != nil {
		return nil, err
	}
	return wishes, nil
}

func (r *redisRepository) SaveNames(ctx context.Context, names []models.PresetName) error {
	data, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to marshal names: %w", err)
	}
	return r.client.Set(ctx, keyPresetNames, data, 0).Err()
}

func (r *redisRepository) SaveWishes(ctx context.Context, wishes []models.Wish) error {
	data, err := json.Marshal(wishes)
	if err != nil {
		return fmt.Errorf("failed to marshal wishes: %w", err)
	}
	return r.client.Set(ctx, keyWishes, data, 0).Err()
}

func (r *redisRepository) ReplaceAll(ctx context.Context, names []models.PresetName, wishes []models.Wish) error {
	nameData, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to marshal names: %w", err)
	}
	wishData, err := json.Marshal(wishes)
	if err != nil {
		return fmt.Errorf("failed to marshal wishes: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, keyPresetNames, nameData, 0)
	pipe.Set(ctx, keyWishes, wishData, 0)

	_, err = pipe.Exec(ctx)
	return err
}

// load reads a JSON array stored under key; a missing key is an empty
// collection, not an error.
func (r *redisRepository) load(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
