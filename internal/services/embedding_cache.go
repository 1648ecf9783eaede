package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/career-guide/internal/logger"
	"alfredoptarigan/career-guide/internal/models"
)

// ErrEmbeddingNotFound is returned by stores on a cache miss.
var ErrEmbeddingNotFound = errors.New("embedding not found")

// RoleEmbedding is a cached vector together with the hash of the role text it
// was computed from.
type RoleEmbedding struct {
	RoleID   uuid.UUID
	TextHash string
	Vector   []float32
}

// EmbeddingStore persists role embeddings outside the role catalog.
type EmbeddingStore interface {
	Get(ctx context.Context, roleID uuid.UUID) (*RoleEmbedding, error)
	Put(ctx context.Context, entry RoleEmbedding) error
	Delete(ctx context.Context, roleID uuid.UUID) error
}

// RoleText is the descriptive text embedded for a role.
func RoleText(role models.JobRole) string {
	return fmt.Sprintf("%s %s %s", role.Title, role.Description, strings.Join(role.RequiredSkills, " "))
}

func RoleTextHash(role models.JobRole) string {
	sum := sha256.Sum256([]byte(RoleText(role)))
	return hex.EncodeToString(sum[:])
}

// RoleEmbeddingCache computes role embeddings lazily and reuses them until
// the role text changes. Store failures degrade to recomputation.
type RoleEmbeddingCache struct {
	store    EmbeddingStore
	provider EmbeddingProvider
	logger   *zap.Logger
}

func NewRoleEmbeddingCache(store EmbeddingStore, provider EmbeddingProvider, log *zap.Logger) *RoleEmbeddingCache {
	return &RoleEmbeddingCache{
		store:    store,
		provider: provider,
		logger:   logger.OrNop(log).Named("embedding_cache"),
	}
}

// Vector returns the embedding for role, computing and storing it on a miss.
func (c *RoleEmbeddingCache) Vector(ctx context.Context, role models.JobRole) ([]float32, error) {
	hash := RoleTextHash(role)

	cached, err := c.store.Get(ctx, role.ID)
	switch {
	case err == nil && cached.TextHash == hash && len(cached.Vector) > 0:
		return cached.Vector, nil
	case err != nil && !errors.Is(err, ErrEmbeddingNotFound):
		c.logger.Warn("⚠️ Embedding store read failed", zap.String("role_id", role.ID.String()), zap.Error(err))
	}

	vector, err := c.provider.Embed(ctx, RoleText(role))
	if err != nil {
		return nil, fmt.Errorf("failed to embed role %s: %w", role.ID, err)
	}

	if err := c.store.Put(ctx, RoleEmbedding{RoleID: role.ID, TextHash: hash, Vector: vector}); err != nil {
		c.logger.Warn("⚠️ Embedding store write failed", zap.String("role_id", role.ID.String()), zap.Error(err))
	}

	return vector, nil
}

// Invalidate drops the cached embedding for a role.
func (c *RoleEmbeddingCache) Invalidate(ctx context.Context, roleID uuid.UUID) error {
	if err := c.store.Delete(ctx, roleID); err != nil && !errors.Is(err, ErrEmbeddingNotFound) {
		return fmt.Errorf("failed to invalidate embedding: %w", err)
	}
	return nil
}

type memoryEmbeddingStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]RoleEmbedding
}

func NewMemoryEmbeddingStore() EmbeddingStore {
	return &memoryEmbeddingStore{entries: make(map[uuid.UUID]RoleEmbedding)}
}

// Get implements EmbeddingStore.
func (m *memoryEmbeddingStore) Get(_ context.Context, roleID uuid.UUID) (*RoleEmbedding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[roleID]
	if !ok {
		return nil, ErrEmbeddingNotFound
	}
	entry.Vector = append([]float32(nil), entry.Vector...)
	return &entry, nil
}

// Put implements EmbeddingStore.
func (m *memoryEmbeddingStore) Put(_ context.Context, entry RoleEmbedding) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry.Vector = append([]float32(nil), entry.Vector...)
	m.entries[entry.RoleID] = entry
	return nil
}

// Delete implements EmbeddingStore.
func (m *memoryEmbeddingStore) Delete(_ context.Context, roleID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, roleID)
	return nil
}
