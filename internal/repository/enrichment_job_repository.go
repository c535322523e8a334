package repository

import (
	"context"
	"database/sql"
	"time"

	"patchpulse/internal/entity"

	"gorm.io/gorm"
)

// EnrichmentJobRepository defines the interface for queued enrichment jobs.
type EnrichmentJobRepository interface {
	Create(ctx context.Context, job *entity.EnrichmentJob) error
	FindByID(ctx context.Context, id uint) (*entity.EnrichmentJob, error)
	MarkRunning(ctx context.Context, id uint) error
	MarkCompleted(ctx context.Context, id uint, output string) error
	MarkFailed(ctx context.Context, id uint, errMsg string) error
}

// NewEnrichmentJobRepository creates a new instance of EnrichmentJobRepository.
func NewEnrichmentJobRepository(db *gorm.DB) EnrichmentJobRepository {
	return &enrichmentJobRepository{db: db}
}

type enrichmentJobRepository struct {
	db *gorm.DB
}

func (r *enrichmentJobRepository) Create(ctx context.Context, job *entity.EnrichmentJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *enrichmentJobRepository) FindByID(ctx context.Context, id uint) (*entity.EnrichmentJob, error) {
	var job entity.EnrichmentJob
	result := r.db.WithContext(ctx).First(&job, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &job, nil
}

func (r *enrichmentJobRepository) MarkRunning(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&entity.EnrichmentJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     entity.JobStatusRunning,
			"started_at": sql.NullTime{Time: time.Now(), Valid: true},
		}).Error
}

func (r *enrichmentJobRepository) MarkCompleted(ctx context.Context, id uint, output string) error {
	return r.db.WithContext(ctx).Model(&entity.EnrichmentJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       entity.JobStatusCompleted,
			"output":       sql.NullString{String: output, Valid: output != ""},
			"completed_at": sql.NullTime{Time: time.Now(), Valid: true},
		}).Error
}

func (r *enrichmentJobRepository) MarkFailed(ctx context.Context, id uint, errMsg string) error {
	return r.db.WithContext(ctx).Model(&entity.EnrichmentJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        entity.JobStatusFailed,
			"error_message": sql.NullString{String: errMsg, Valid: errMsg != ""},
			"completed_at":  sql.NullTime{Time: time.Now(), Valid: true},
		}).Error
}
