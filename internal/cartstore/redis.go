package cartstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/junimomarket/junimo-market/internal/models"
	"github.com/redis/go-redis/v9"
)

const cartKeyPrefix = "cart:"

type redisPersistence struct {
	client *redis.Client
}

// NewRedisPersistence stores each cart as one JSON value. Writes replace
// the whole collection, so within a single consumer there are no partial
// updates to lose.
func NewRedisPersistence(client *redis.Client) Persistence {
	return &redisPersistence{client: client}
}

func (p *redisPersistence) Load(ctx context.Context, key string) ([]models.CartLine, error) {

	data, err := p.client.Get(ctx, cartKeyPrefix+key).Bytes()
	if err != nil {

		if err == redis.Nil {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to load cart %s: %w", key, err)
	}

	var lines []models.CartLine

	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart %s: %w", key, err)
	}

	return lines, nil
}

func (p *redisPersistence) Save(ctx context.Context, key string, lines []models.CartLine) error {

	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to marshal cart %s: %w", key, err)
	}

	if err := p.client.Set(ctx, cartKeyPrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save cart %s: %w", key, err)
	}

	return nil
}

func (p *redisPersistence) Clear(ctx context.Context, key string) error {

	if err := p.client.Del(ctx, cartKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to clear cart %s: %w", key, err)
	}

	return nil
}
