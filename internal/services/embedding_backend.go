package services

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"alfredoptarigan/career-guide/internal/config"
	"alfredoptarigan/career-guide/internal/logger"
)

// OpenEmbeddingStore builds the role-embedding store selected by
// EMBEDDING_CACHE. The returned closer releases any client connection.
func OpenEmbeddingStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (EmbeddingStore, func() error, error) {
	log = logger.OrNop(log)
	noop := func() error { return nil }

	switch cfg.Matching.EmbeddingCache {
	case config.CacheMemory, "":
		return NewMemoryEmbeddingStore(), noop, nil

	case config.CacheRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.Info("✅ Redis embedding cache connected", zap.String("addr", cfg.Redis.Addr))
		return NewRedisEmbeddingStore(client, cfg.Redis.EmbeddingTTL), client.Close, nil

	case config.CacheQdrant:
		store, err := NewQdrantEmbeddingStore(cfg.Qdrant, log)
		if err != nil {
			return nil, nil, err
		}
		if err := store.InitCollection(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("failed to initialize qdrant collection: %w", err)
		}
		return store, store.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown embedding cache backend %q", cfg.Matching.EmbeddingCache)
}
