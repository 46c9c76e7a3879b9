package service

import (
	"context"
	"fmt"

	"neurogrid-backend/internal/dto"
	"neurogrid-backend/internal/model"
	"neurogrid-backend/internal/repository"
)

type BookingService interface {
	MyBookings(ctx context.Context, principal *model.Principal) ([]*dto.Booking, error)
}

type bookingServiceImpl struct {
	bookingRepo repository.BookingRepository
}

func NewBookingService(bookingRepo repository.BookingRepository) BookingService {
	return &bookingServiceImpl{
		bookingRepo: bookingRepo,
	}
}

func (s *bookingServiceImpl) MyBookings(ctx context.Context, principal *model.Principal) ([]*dto.Booking, error) {
	bookings, err := s.bookingRepo.ListByUser(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	out := make([]*dto.Booking, len(bookings))
	for i, b := range bookings {
		out[i] = &dto.Booking{
			ID:          b.ID,
			BookingType: b.BookingType,
			Status:      string(b.Status),
			CreatedAt:   b.CreatedAt,
		}
		if b.PaymentID != nil {
			out[i].PaymentID = *b.PaymentID
		}
	}
	return out, nil
}
