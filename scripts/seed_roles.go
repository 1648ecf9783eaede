package main

import (
	"context"
	"errors"
	"log"

	"go.uber.org/zap"

	"alfredoptarigan/career-guide/internal/config"
	"alfredoptarigan/career-guide/internal/logger"
	"alfredoptarigan/career-guide/internal/repositories"
	"alfredoptarigan/career-guide/internal/services"
)

// Seeds the default role catalog and precomputes role embeddings in the
// configured cache so the first match request does not pay for them.
func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	zl.Info("🚀 Starting role seeding...")

	db, err := config.InitDatabase(cfg, zl)
	if err != nil {
		zl.Fatal("❌ Failed to initialize database", zap.Error(err))
	}

	roleRepo := repositories.NewJobRoleRepository(db)
	seeded, err := roleRepo.EnsureDefaultRoles()
	if err != nil {
		zl.Fatal("❌ Failed to seed roles", zap.Error(err))
	}
	zl.Info("✅ Role catalog ready", zap.Int("inserted", seeded))

	inference, err := services.NewGeminiService(cfg.Gemini, zl)
	if errors.Is(err, services.ErrInferenceUnavailable) {
		zl.Warn("⚠️ GEMINI_API_KEY not set, skipping embedding warm-up")
		return
	}
	if err != nil {
		zl.Fatal("❌ Failed to initialize Gemini", zap.Error(err))
	}

	ctx := context.Background()

	store, closeStore, err := services.OpenEmbeddingStore(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("❌ Failed to open embedding cache", zap.Error(err))
	}
	defer func() { _ = closeStore() }()

	if cfg.Matching.EmbeddingCache == config.CacheMemory {
		zl.Warn("⚠️ EMBEDDING_CACHE=memory does not outlive this process, nothing to warm")
		return
	}

	roles, err := roleRepo.List()
	if err != nil {
		zl.Fatal("❌ Failed to list roles", zap.Error(err))
	}

	cache := services.NewRoleEmbeddingCache(store, inference, zl)

	successCount := 0
	failCount := 0
	for _, role := range roles {
		if _, err := cache.Vector(ctx, role); err != nil {
			zl.Error("❌ Failed to embed role", zap.String("title", role.Title), zap.Error(err))
			failCount++
			continue
		}
		successCount++
	}

	zl.Info("📊 Embedding warm-up finished",
		zap.Int("success", successCount),
		zap.Int("failed", failCount),
	)
}
