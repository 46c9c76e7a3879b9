package repository

import (
	"context"

	"neurogrid-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository interface {
	Add(ctx context.Context, tx *gorm.DB, userID, itemID string) error
	// ListItemIDs is the read side of the enrolled-items set, kept for
	// admin tooling.
	ListItemIDs(ctx context.Context, userID string) ([]string, error)
}

type enrollmentRepoImpl struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepoImpl{
		db: db,
	}
}

// Add is a set insert: an existing (user, item) pair is left as is. A new
// pair bumps the course's enrollment count.
func (r *enrollmentRepoImpl) Add(ctx context.Context, tx *gorm.DB, userID, itemID string) error {
	result := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "item_id"}},
		DoNothing: true,
	}).Create(&model.UserEnrollment{
		UserID: userID,
		ItemID: itemID,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return nil
	}

	return tx.WithContext(ctx).Model(&model.Course{}).
		Where("id = ?", itemID).
		UpdateColumn("enrollment_count", gorm.Expr("enrollment_count + 1")).Error
}

func (r *enrollmentRepoImpl) ListItemIDs(ctx context.Context, userID string) ([]string, error) {
	var itemIDs []string
	err := r.db.WithContext(ctx).
		Model(&model.UserEnrollment{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("item_id", &itemIDs).Error

	if err != nil {
		return nil, err
	}

	return itemIDs, nil
}
