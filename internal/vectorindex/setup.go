package vectorindex

import (
	"context"
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/studystack/materials/internal/logger"
	"github.com/studystack/materials/internal/material"
)

// Index wraps the Qdrant client for material embeddings. A disabled Index
// is valid and no-ops every write.
type Index struct {
	api    *qdrant.Client
	cfg    Config
	logger *logger.Logger
}

// Hit is one similarity search result.
type Hit struct {
	MaterialID string  `json:"materialId"`
	Score      float32 `json:"score"`
}

// NewIndex connects to Qdrant when the index is enabled. Connection errors
// are returned; collection bootstrap happens in EnsureCollection so startup
// ordering stays with the Fx lifecycle.
func NewIndex(cfg Config, log *logger.Logger) (*Index, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ix := &Index{cfg: cfg, logger: log}
	if !cfg.Enabled {
		return ix, nil
	}

	api, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("vectorindex: create client: %w", err)
	}
	ix.api = api
	return ix, nil
}

// Enabled reports whether the index is active.
func (ix *Index) Enabled() bool {
	return ix.cfg.Enabled
}

// EnsureCollection creates the materials collection when it is missing.
// Safe to call repeatedly.
func (ix *Index) EnsureCollection(ctx context.Context) error {
	if !ix.cfg.Enabled {
		return nil
	}

	exists, err := ix.api.CollectionExists(ctx, ix.cfg.Collection)
	if err != nil {
		return fmt.Errorf("vectorindex: check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = ix.api.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: ix.cfg.Collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(ix.cfg.Dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("vectorindex: create collection %q: %w", ix.cfg.Collection, err)
	}
	ix.logger.Info("created vector collection", nil, map[string]interface{}{
		"collection": ix.cfg.Collection,
		"dimension":  ix.cfg.Dimension,
	})
	return nil
}

// UpsertMaterial writes one material point keyed by the material id.
func (ix *Index) UpsertMaterial(ctx context.Context, m *material.Material, embedding []float64) error {
	if !ix.cfg.Enabled {
		return nil
	}

	vector := make([]float32, len(embedding))
	for i, v := range embedding {
		vector[i] = float32(v)
	}

	wait := true
	_, err := ix.api.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: ix.cfg.Collection,
		Wait:           &wait,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(m.ID),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(map[string]any{
					"owner_id":  m.OwnerID,
					"mime_type": m.MimeType,
				}),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("vectorindex: upsert %s: %w", m.ID, err)
	}
	return nil
}

// Search returns the topK closest materials for the query vector, scoped to
// one owner.
func (ix *Index) Search(ctx context.Context, ownerID string, vector []float64, topK int) ([]Hit, error) {
	if !ix.cfg.Enabled {
		return nil, fmt.Errorf("vectorindex: index is disabled")
	}

	query := make([]float32, len(vector))
	for i, v := range vector {
		query[i] = float32(v)
	}

	limit := uint64(topK)
	points, err := ix.api.Query(ctx, &qdrant.QueryPoints{
		CollectionName: ix.cfg.Collection,
		Query:          qdrant.NewQuery(query...),
		Limit:          &limit,
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("owner_id", ownerID),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("vectorindex: search: %w", err)
	}

	hits := make([]Hit, 0, len(points))
	for _, p := range points {
		var id string
		switch v := p.Id.PointIdOptions.(type) {
		case *qdrant.PointId_Uuid:
			id = v.Uuid
		case *qdrant.PointId_Num:
			id = fmt.Sprintf("%d", v.Num)
		}
		hits = append(hits, Hit{MaterialID: id, Score: p.Score})
	}
	return hits, nil
}

// Delete removes a material point, used when a material is deleted.
func (ix *Index) Delete(ctx context.Context, id string) error {
	if !ix.cfg.Enabled {
		return nil
	}

	wait := true
	_, err := ix.api.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: ix.cfg.Collection,
		Wait:           &wait,
		Points:         qdrant.NewPointsSelector(qdrant.NewID(id)),
	})
	if err != nil {
		return fmt.Errorf("vectorindex: delete %s: %w", id, err)
	}
	return nil
}

// HealthCheck probes the Qdrant server. A disabled index is always healthy.
func (ix *Index) HealthCheck(ctx context.Context) error {
	if !ix.cfg.Enabled {
		return nil
	}
	if _, err := ix.api.HealthCheck(ctx); err != nil {
		return fmt.Errorf("vectorindex: health check: %w", err)
	}
	return nil
}
