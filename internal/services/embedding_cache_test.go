package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/career-guide/internal/config"
	"alfredoptarigan/career-guide/internal/models"
)

type failingStore struct{}

func (failingStore) Get(context.Context, uuid.UUID) (*RoleEmbedding, error) {
	return nil, errors.New("store down")
}

func (failingStore) Put(context.Context, RoleEmbedding) error { return errors.New("store down") }

func (failingStore) Delete(context.Context, uuid.UUID) error { return errors.New("store down") }

func TestRoleEmbeddingCache_RecomputesWhenTextChanges(t *testing.T) {
	provider := &fakeInference{}
	cache := NewRoleEmbeddingCache(NewMemoryEmbeddingStore(), provider, nil)
	role := models.JobRole{ID: uuid.New(), Title: "SRE", Description: "Keep it up", RequiredSkills: []string{"Linux"}}
	ctx := context.Background()

	_, err := cache.Vector(ctx, role)
	require.NoError(t, err)
	_, err = cache.Vector(ctx, role)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.embedCount())

	role.RequiredSkills = append(role.RequiredSkills, "Go")
	_, err = cache.Vector(ctx, role)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.embedCount())
}

func TestRoleEmbeddingCache_StoreFailureDegradesToEmbed(t *testing.T) {
	provider := &fakeInference{}
	cache := NewRoleEmbeddingCache(failingStore{}, provider, nil)

	vector, err := cache.Vector(context.Background(), models.JobRole{ID: uuid.New(), Title: "SRE"})
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, vector)
}

func TestRoleEmbeddingCache_Invalidate(t *testing.T) {
	provider := &fakeInference{}
	store := NewMemoryEmbeddingStore()
	cache := NewRoleEmbeddingCache(store, provider, nil)
	role := models.JobRole{ID: uuid.New(), Title: "SRE"}
	ctx := context.Background()

	_, err := cache.Vector(ctx, role)
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(ctx, role.ID))

	_, err = store.Get(ctx, role.ID)
	assert.ErrorIs(t, err, ErrEmbeddingNotFound)
}

func TestRoleTextHash_Stable(t *testing.T) {
	role := models.JobRole{Title: "A", Description: "B", RequiredSkills: []string{"C"}}
	assert.Equal(t, "A B C", RoleText(role))
	assert.Equal(t, RoleTextHash(role), RoleTextHash(role))
	assert.Len(t, RoleTextHash(role), 64)
}

func TestOpenEmbeddingStore(t *testing.T) {
	cfg := &config.Config{}

	store, closeFn, err := OpenEmbeddingStore(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, store)
	assert.NoError(t, closeFn())

	cfg.Matching.EmbeddingCache = "etcd"
	_, _, err = OpenEmbeddingStore(context.Background(), cfg, nil)
	assert.Error(t, err)
}
