// Package redis stores the latest prescription per user as a JSON blob in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"example.com/exerciserx/internal/domain"
)

// Repository provides Redis-backed persistence for prescription records.
type Repository struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRepository constructs a Repository. A zero ttl keeps entries until they are overwritten.
func NewRepository(client goredis.UniversalClient, prefix string, ttl time.Duration) *Repository {
	return &Repository{client: client, prefix: prefix, ttl: ttl}
}

func (r *Repository) key(userID string) string {
	return r.prefix + userID
}

// Save overwrites the user's record.
func (r *Repository) Save(ctx context.Context, record domain.Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return r.client.Set(ctx, r.key(record.UserID), payload, r.ttl).Err()
}

// Latest returns the user's record or (nil, nil) when the key is absent or expired.
func (r *Repository) Latest(ctx context.Context, userID string) (*domain.Record, error) {
	payload, err := r.client.Get(ctx, r.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var record domain.Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("decode record for %s: %w", userID, err)
	}
	return &record, nil
}
