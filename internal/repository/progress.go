package repository

import (
	"context"
	"fmt"
	"time"

	"neurogrid-backend/internal/model"
	"neurogrid-backend/internal/repository/reperrors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository interface {
	Find(ctx context.Context, userID, courseID string) (*model.CourseProgress, error)
	// CreateIfMissing inserts the record unless one already exists for the
	// same (user, course) pair.
	CreateIfMissing(ctx context.Context, progress *model.CourseProgress) error
	// Update writes progress only if the stored version still equals
	// progress.Version, returning reperrors.ErrConflict otherwise.
	Update(ctx context.Context, progress *model.CourseProgress) error
}

type progressRepoImpl struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepoImpl{
		db: db,
	}
}

func (r *progressRepoImpl) Find(ctx context.Context, userID, courseID string) (*model.CourseProgress, error) {
	var progress model.CourseProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error

	if err != nil {
		return nil, err
	}

	return &progress, nil
}

func (r *progressRepoImpl) CreateIfMissing(ctx context.Context, progress *model.CourseProgress) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(progress).Error
}

func (r *progressRepoImpl) Update(ctx context.Context, progress *model.CourseProgress) error {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&model.CourseProgress{}).
		Where("id = ? AND version = ?", progress.ID, progress.Version).
		Updates(map[string]interface{}{
			"lessons":             progress.Lessons,
			"progress_percentage": progress.ProgressPercentage,
			"completed":           progress.Completed,
			"completed_at":        progress.CompletedAt,
			"version":             gorm.Expr("version + 1"),
			"updated_at":          now,
		})

	if result.Error != nil {
		return fmt.Errorf("update course progress: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return reperrors.ErrConflict
	}

	progress.Version++
	progress.UpdatedAt = now
	return nil
}
