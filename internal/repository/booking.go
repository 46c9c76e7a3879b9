package repository

import (
	"context"

	"neurogrid-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository interface {
	CreateConfirmed(ctx context.Context, userID, paymentID string) (string, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Booking, error)
}

type bookingRepoImpl struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepoImpl{
		db: db,
	}
}

func (r *bookingRepoImpl) CreateConfirmed(ctx context.Context, userID, paymentID string) (string, error) {
	booking := &model.Booking{
		ID:          uuid.NewString(),
		UserID:      userID,
		PaymentID:   &paymentID,
		BookingType: "consultation",
		Status:      model.BookingStatusConfirmed,
	}

	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return "", err
	}

	return booking.ID, nil
}

func (r *bookingRepoImpl) ListByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	var bookings []*model.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error

	if err != nil {
		return nil, err
	}

	return bookings, nil
}
