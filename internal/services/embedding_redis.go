package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const roleEmbeddingKey = "career-guide:role-embedding:%s"

type redisEmbeddingStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisEmbeddingStore keeps each role vector in a hash next to its text
// hash. A zero ttl keeps entries until the role changes.
func NewRedisEmbeddingStore(client *redis.Client, ttl time.Duration) EmbeddingStore {
	return &redisEmbeddingStore{client: client, ttl: ttl}
}

// Get implements EmbeddingStore.
func (r *redisEmbeddingStore) Get(ctx context.Context, roleID uuid.UUID) (*RoleEmbedding, error) {
	vals, err := r.client.HMGet(ctx, fmt.Sprintf(roleEmbeddingKey, roleID), "vector", "text_hash").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read role embedding: %w", err)
	}

	if len(vals) < 2 || vals[0] == nil || vals[1] == nil {
		return nil, ErrEmbeddingNotFound
	}

	vectorJSON, ok := vals[0].(string)
	if !ok || vectorJSON == "" {
		return nil, errors.New("role embedding has invalid format")
	}
	hash, ok := vals[1].(string)
	if !ok {
		return nil, errors.New("role embedding hash has invalid format")
	}

	var vector []float32
	if err := json.Unmarshal([]byte(vectorJSON), &vector); err != nil {
		return nil, fmt.Errorf("failed to decode role embedding: %w", err)
	}

	return &RoleEmbedding{RoleID: roleID, TextHash: hash, Vector: vector}, nil
}

// Put implements EmbeddingStore.
func (r *redisEmbeddingStore) Put(ctx context.Context, entry RoleEmbedding) error {
	vectorJSON, err := json.Marshal(entry.Vector)
	if err != nil {
		return fmt.Errorf("failed to encode role embedding: %w", err)
	}

	key := fmt.Sprintf(roleEmbeddingKey, entry.RoleID)

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, "vector", vectorJSON, "text_hash", entry.TextHash)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache role embedding: %w", err)
	}
	return nil
}

// Delete implements EmbeddingStore.
func (r *redisEmbeddingStore) Delete(ctx context.Context, roleID uuid.UUID) error {
	if err := r.client.Del(ctx, fmt.Sprintf(roleEmbeddingKey, roleID)).Err(); err != nil {
		return fmt.Errorf("failed to delete role embedding: %w", err)
	}
	return nil
}
