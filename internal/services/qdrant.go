package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"alfredoptarigan/career-guide/internal/config"
	"alfredoptarigan/career-guide/internal/logger"
)

// QdrantEmbeddingStore keeps role vectors as points keyed by role ID. Only
// point lookups are used; similarity is scored by the matcher.
type QdrantEmbeddingStore interface {
	EmbeddingStore
	InitCollection(ctx context.Context) error
	Close() error
}

type qdrantEmbeddingStore struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	logger         *zap.Logger
}

func NewQdrantEmbeddingStore(cfg config.QdrantConfig, log *zap.Logger) (QdrantEmbeddingStore, error) {
	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantEmbeddingStore{
		client:         client,
		collectionName: cfg.Collection,
		vectorSize:     cfg.VectorSize,
		logger:         logger.OrNop(log).Named("qdrant"),
	}, nil
}

// InitCollection implements QdrantEmbeddingStore.
func (q *qdrantEmbeddingStore) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		q.logger.Info("✅ Collection already exists", zap.String("collection", q.collectionName))
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	q.logger.Info("✅ Qdrant collection created", zap.String("collection", q.collectionName))
	return nil
}

// Get implements EmbeddingStore.
func (q *qdrantEmbeddingStore) Get(ctx context.Context, roleID uuid.UUID) (*RoleEmbedding, error) {
	points, err := q.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: q.collectionName,
		Ids:            []*qdrant.PointId{qdrant.NewIDUUID(roleID.String())},
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get point: %w", err)
	}

	if len(points) == 0 {
		return nil, ErrEmbeddingNotFound
	}

	point := points[0]
	entry := &RoleEmbedding{RoleID: roleID}

	if hash, ok := point.Payload["text_hash"]; ok {
		if val, ok := hash.GetKind().(*qdrant.Value_StringValue); ok {
			entry.TextHash = val.StringValue
		}
	}

	if vec := point.GetVectors().GetVector(); vec != nil {
		if dense := vec.GetDense(); dense != nil {
			entry.Vector = dense.GetData()
		} else {
			entry.Vector = vec.GetData()
		}
	}

	if len(entry.Vector) == 0 {
		return nil, ErrEmbeddingNotFound
	}

	return entry, nil
}

// Put implements EmbeddingStore.
func (q *qdrantEmbeddingStore) Put(ctx context.Context, entry RoleEmbedding) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(entry.RoleID.String()),
		Vectors: qdrant.NewVectors(entry.Vector...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"role_id":   entry.RoleID.String(),
			"text_hash": entry.TextHash,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// Delete implements EmbeddingStore.
func (q *qdrantEmbeddingStore) Delete(ctx context.Context, roleID uuid.UUID) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points:         qdrant.NewPointsSelector(qdrant.NewIDUUID(roleID.String())),
	})
	if err != nil {
		return fmt.Errorf("failed to delete point: %w", err)
	}

	return nil
}

// Close implements QdrantEmbeddingStore.
func (q *qdrantEmbeddingStore) Close() error {
	return q.client.Close()
}
