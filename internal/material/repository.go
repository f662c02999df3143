package material

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Store is the persistence surface consumed by the processing pipeline and
// the HTTP layer. Implementations must make each call individually atomic.
type Store interface {
	// GetMaterial loads a material by id, or ErrNotFound.
	GetMaterial(ctx context.Context, id string) (*Material, error)

	// CreateMaterial inserts a new record, or ErrDuplicate.
	CreateMaterial(ctx context.Context, m *Material) error

	// ClaimForProcessing atomically transitions a material into the
	// processing state and clears any prior error message. It returns
	// false when the material exists but cannot be claimed: it is
	// completed, or another run currently holds it in processing and is
	// not yet stale. A processing record older than staleAfter is treated
	// as orphaned and may be reclaimed.
	ClaimForProcessing(ctx context.Context, id string, staleAfter time.Duration) (bool, error)

	// UpdateStatus records a status transition. errorMessage is stored for
	// StatusFailed and cleared otherwise.
	UpdateStatus(ctx context.Context, id string, status Status, errorMessage string) error

	// UpdateResult persists the extraction and embedding output, transitions
	// the material to completed and clears any prior error message.
	UpdateResult(ctx context.Context, id string, text string, embedding []float64) error

	// DeleteMaterial removes a material record, or ErrNotFound.
	DeleteMaterial(ctx context.Context, id string) error
}

// Repository is the GORM-backed Store implementation.
type Repository struct {
	db *gorm.DB
}

// NewRepository returns a Repository bound to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the materials table.
func (r *Repository) Migrate() error {
	if err := r.db.AutoMigrate(&Material{}); err != nil {
		return fmt.Errorf("material: migrate: %w", err)
	}
	return nil
}

func (r *Repository) GetMaterial(ctx context.Context, id string) (*Material, error) {
	var m Material
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &m, nil
}

func (r *Repository) CreateMaterial(ctx context.Context, m *Material) error {
	if m.Status == "" {
		m.Status = StatusPending
	}
	return translateError(r.db.WithContext(ctx).Create(m).Error)
}

// ClaimForProcessing relies on a single conditional UPDATE so that exactly
// one concurrent caller wins the claim; losers observe zero affected rows.
// This is the persistence-layer half of the "single in-flight run per id"
// guarantee (the in-process half is the pipeline's singleflight group).
func (r *Repository) ClaimForProcessing(ctx context.Context, id string, staleAfter time.Duration) (bool, error) {
	staleBefore := time.Now().Add(-staleAfter)

	res := r.db.WithContext(ctx).
		Model(&Material{}).
		Where("id = ?", id).
		Where(
			r.db.Where("status IN ?", []Status{StatusPending, StatusFailed}).
				Or("status = ? AND updated_at < ?", StatusProcessing, staleBefore),
		).
		Updates(map[string]interface{}{
			"status":        StatusProcessing,
			"error_message": nil,
		})

	if res.Error != nil {
		return false, translateError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id string, status Status, errorMessage string) error {
	if !status.Valid() {
		return fmt.Errorf("material: invalid status %q", status)
	}

	values := map[string]interface{}{
		"status":        status,
		"error_message": nil,
	}
	if status == StatusFailed {
		values["error_message"] = errorMessage
	}

	res := r.db.WithContext(ctx).
		Model(&Material{}).
		Where("id = ?", id).
		Updates(values)

	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteMaterial(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&Material{}, "id = ?", id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) UpdateResult(ctx context.Context, id string, text string, embedding []float64) error {
	res := r.db.WithContext(ctx).
		Model(&Material{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         StatusCompleted,
			"extracted_text": text,
			"embedding":      pq.Float64Array(embedding),
			"error_message":  nil,
		})

	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
