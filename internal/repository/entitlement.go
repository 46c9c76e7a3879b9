package repository

import (
	"context"
	"time"

	"neurogrid-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EntitlementRepository interface {
	// Grant inserts an active entitlement and reports false when the user
	// already holds an active one for the package.
	Grant(ctx context.Context, tx *gorm.DB, entitlement *model.Entitlement) (bool, error)
	FindActive(ctx context.Context, userID, packageID string) (*model.Entitlement, error)
	ListActive(ctx context.Context, userID string) ([]*model.Entitlement, error)
	// Deactivate is the expiry/admin revocation path; no request flow calls it.
	Deactivate(ctx context.Context, userID, packageID string) error
}

type entitlementRepoImpl struct {
	db *gorm.DB
}

func NewEntitlementRepository(db *gorm.DB) EntitlementRepository {
	return &entitlementRepoImpl{
		db: db,
	}
}

func activeKey(userID, packageID string) *string {
	key := userID + "|" + packageID
	return &key
}

func (r *entitlementRepoImpl) Grant(ctx context.Context, tx *gorm.DB, entitlement *model.Entitlement) (bool, error) {
	entitlement.Active = true
	entitlement.ActiveKey = activeKey(entitlement.UserID, entitlement.PackageID)

	result := tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(entitlement)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func (r *entitlementRepoImpl) FindActive(ctx context.Context, userID, packageID string) (*model.Entitlement, error) {
	var entitlement model.Entitlement
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND package_id = ? AND active = ?", userID, packageID, true).
		First(&entitlement).Error

	if err != nil {
		return nil, err
	}

	return &entitlement, nil
}

func (r *entitlementRepoImpl) ListActive(ctx context.Context, userID string) ([]*model.Entitlement, error) {
	var entitlements []*model.Entitlement
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Order("purchased_at ASC").
		Find(&entitlements).Error

	if err != nil {
		return nil, err
	}

	return entitlements, nil
}

func (r *entitlementRepoImpl) Deactivate(ctx context.Context, userID, packageID string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Entitlement{}).
		Where("user_id = ? AND package_id = ? AND active = ?", userID, packageID, true).
		Updates(map[string]interface{}{
			"active":     false,
			"active_key": nil,
			"updated_at": time.Now().UTC(),
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
