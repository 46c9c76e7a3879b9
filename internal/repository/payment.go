package repository

import (
	"context"
	"time"

	"neurogrid-backend/internal/model"

	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.PaymentRecord) error
	FindBySessionID(ctx context.Context, sessionID string) (*model.PaymentRecord, error)
	// TransitionStatus moves the record from one status to another and
	// reports false when the stored status was no longer `from`.
	TransitionStatus(ctx context.Context, sessionID string, from, to model.PaymentStatus) (bool, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*model.PaymentRecord, error)
}

type paymentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepoImpl{
		db: db,
	}
}

func (r *paymentRepoImpl) Create(ctx context.Context, payment *model.PaymentRecord) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepoImpl) FindBySessionID(ctx context.Context, sessionID string) (*model.PaymentRecord, error) {
	var payment model.PaymentRecord
	err := r.db.WithContext(ctx).
		Where("gateway_session_id = ?", sessionID).
		First(&payment).Error

	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepoImpl) TransitionStatus(ctx context.Context, sessionID string, from, to model.PaymentStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.PaymentRecord{}).
		Where("gateway_session_id = ? AND status = ?", sessionID, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func (r *paymentRepoImpl) ListByUser(ctx context.Context, userID string, limit int) ([]*model.PaymentRecord, error) {
	var payments []*model.PaymentRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&payments).Error

	if err != nil {
		return nil, err
	}

	return payments, nil
}
