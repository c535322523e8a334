package repository

import (
	"context"
	"time"

	"patchpulse/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PatchNoteRepository defines the interface for interacting with patch notes
// and their enriched summaries.
type PatchNoteRepository interface {
	Create(ctx context.Context, patch *entity.PatchNote) error
	FindByID(ctx context.Context, id uint) (*entity.PatchNote, error)
	FindByGameSince(ctx context.Context, gameID uint, since time.Time) ([]entity.PatchNote, error)
	FindLatestEnriched(ctx context.Context, gameID uint, limit int) ([]entity.PatchNote, error)
	FindSummary(ctx context.Context, patchNoteID uint) (*entity.PatchSummary, error)
	UpsertSummary(ctx context.Context, summary *entity.PatchSummary) error
}

// NewPatchNoteRepository creates a new instance of PatchNoteRepository.
func NewPatchNoteRepository(db *gorm.DB) PatchNoteRepository {
	return &patchNoteRepository{db: db}
}

type patchNoteRepository struct {
	db *gorm.DB
}

func (r *patchNoteRepository) Create(ctx context.Context, patch *entity.PatchNote) error {
	return r.db.WithContext(ctx).Create(patch).Error
}

func (r *patchNoteRepository) FindByID(ctx context.Context, id uint) (*entity.PatchNote, error) {
	var patch entity.PatchNote
	result := r.db.WithContext(ctx).Preload("Game").Preload("Summary").First(&patch, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &patch, nil
}

func (r *patchNoteRepository) FindByGameSince(ctx context.Context, gameID uint, since time.Time) ([]entity.PatchNote, error) {
	var patches []entity.PatchNote
	err := r.db.WithContext(ctx).
		Preload("Summary").
		Where("game_id = ? AND published_at > ?", gameID, since).
		Order("published_at desc").
		Find(&patches).Error
	if err != nil {
		return nil, err
	}
	return patches, nil
}

// FindLatestEnriched returns the most recent patches for a game that already
// carry a summary.
func (r *patchNoteRepository) FindLatestEnriched(ctx context.Context, gameID uint, limit int) ([]entity.PatchNote, error) {
	var patches []entity.PatchNote
	err := r.db.WithContext(ctx).
		Preload("Summary").
		Joins("JOIN patch_summaries ON patch_summaries.patch_note_id = patch_notes.id").
		Where("patch_notes.game_id = ?", gameID).
		Order("patch_notes.published_at desc").
		Limit(limit).
		Find(&patches).Error
	if err != nil {
		return nil, err
	}
	return patches, nil
}

func (r *patchNoteRepository) FindSummary(ctx context.Context, patchNoteID uint) (*entity.PatchSummary, error) {
	var summary entity.PatchSummary
	result := r.db.WithContext(ctx).Where("patch_note_id = ?", patchNoteID).First(&summary)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &summary, nil
}

// UpsertSummary writes the summary, converging concurrent enrichments on the
// patch_note_id unique index instead of duplicating rows.
func (r *patchNoteRepository) UpsertSummary(ctx context.Context, summary *entity.PatchSummary) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "patch_note_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"summary", "tldr", "change_tags", "impact_score", "priority",
			"buffs", "nerfs", "new_systems", "updated_at",
		}),
	}).Create(summary).Error
}
