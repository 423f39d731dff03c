package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"car-rental-platform/internal/core/domain"
	"car-rental-platform/internal/core/ports"
)

// catalogTTL bounds staleness of cached catalog entries. Car model data
// changes rarely, so a generous window is fine.
const catalogTTL = 15 * time.Minute

// CachedCarModelRepository is a read-through Redis cache in front of the car
// model repository. Cache failures degrade to the inner repository; they are
// logged, never surfaced.
type CachedCarModelRepository struct {
	inner  ports.CarModelRepository
	rdb    *redis.Client
	logger *slog.Logger
}

func NewCachedCarModelRepository(inner ports.CarModelRepository, addr string, logger *slog.Logger) (*CachedCarModelRepository, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &CachedCarModelRepository{inner: inner, rdb: rdb, logger: logger}, nil
}

func (c *CachedCarModelRepository) Create(ctx context.Context, m domain.CarModel) error {
	if err := c.inner.Create(ctx, m); err != nil {
		return err
	}
	// Invalidate in case the id was re-seeded.
	if err := c.rdb.Del(ctx, cacheKey(m.ID)).Err(); err != nil {
		c.logger.Warn("failed to invalidate car model cache", "car_model_id", m.ID, "error", err)
	}
	return nil
}

func (c *CachedCarModelRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CarModel, error) {
	key := cacheKey(id)

	if data, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var cached domain.CarModel
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	model, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(model); err == nil {
		if err := c.rdb.Set(ctx, key, data, catalogTTL).Err(); err != nil {
			c.logger.Warn("failed to cache car model", "car_model_id", id, "error", err)
		}
	}

	return model, nil
}

func (c *CachedCarModelRepository) ListAll(ctx context.Context) ([]domain.CarModel, error) {
	return c.inner.ListAll(ctx)
}

func (c *CachedCarModelRepository) Close() error {
	return c.rdb.Close()
}

func cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("carmodel:%s", id)
}
