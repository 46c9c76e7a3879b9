package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"neurogrid-backend/internal/model"

	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func TestPaymentRepository_TransitionStatusIsConditional(t *testing.T) {
	ctx := context.Background()
	repo := NewPaymentRepository(newTestDB(t))

	err := repo.Create(ctx, &model.PaymentRecord{
		ID:               "pay-1",
		UserID:           "user-1",
		GatewaySessionID: strPtr("cs_1"),
		Amount:           299,
		Currency:         "usd",
		PaymentType:      model.PaymentTypeCourse,
		ItemID:           "professional",
		Status:           model.PaymentStatusPending,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	ok, err := repo.TransitionStatus(ctx, "cs_1", model.PaymentStatusPending, model.PaymentStatusCompleted)
	if err != nil || !ok {
		t.Fatalf("expected first transition to apply, got ok=%v err=%v", ok, err)
	}

	ok, err = repo.TransitionStatus(ctx, "cs_1", model.PaymentStatusPending, model.PaymentStatusCompleted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected second transition to be a no-op")
	}

	ok, err = repo.TransitionStatus(ctx, "cs_1", model.PaymentStatusPending, model.PaymentStatusFailed)
	if err != nil || ok {
		t.Errorf("expected completed record to stay completed, got ok=%v err=%v", ok, err)
	}

	got, err := repo.FindBySessionID(ctx, "cs_1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != model.PaymentStatusCompleted {
		t.Errorf("expected status completed, got %s", got.Status)
	}
}

func TestPaymentRepository_FindBySessionID_NotFound(t *testing.T) {
	repo := NewPaymentRepository(newTestDB(t))

	_, err := repo.FindBySessionID(context.Background(), "cs_missing")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestPaymentRepository_SessionIDIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewPaymentRepository(newTestDB(t))

	first := &model.PaymentRecord{ID: "pay-1", UserID: "u", GatewaySessionID: strPtr("cs_dup"), Currency: "usd", PaymentType: model.PaymentTypeConsultation, ItemID: "consultation", Status: model.PaymentStatusPending}
	second := &model.PaymentRecord{ID: "pay-2", UserID: "u", GatewaySessionID: strPtr("cs_dup"), Currency: "usd", PaymentType: model.PaymentTypeConsultation, ItemID: "consultation", Status: model.PaymentStatusPending}

	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if err := repo.Create(ctx, second); err == nil {
		t.Error("expected duplicate session id to be rejected")
	}
}

func TestPaymentRepository_ListByUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewPaymentRepository(db)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "new"} {
		err := repo.Create(ctx, &model.PaymentRecord{
			ID:               id,
			UserID:           "user-1",
			GatewaySessionID: strPtr("cs_" + id),
			Currency:         "usd",
			PaymentType:      model.PaymentTypeConsultation,
			ItemID:           "consultation",
			Status:           model.PaymentStatusPending,
			CreatedAt:        base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	if err := repo.Create(ctx, &model.PaymentRecord{ID: "other", UserID: "user-2", GatewaySessionID: strPtr("cs_other"), Currency: "usd", PaymentType: model.PaymentTypeConsultation, ItemID: "consultation", Status: model.PaymentStatusPending}); err != nil {
		t.Fatalf("create other: %v", err)
	}

	payments, err := repo.ListByUser(ctx, "user-1", 50)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(payments) != 2 || payments[0].ID != "new" || payments[1].ID != "old" {
		t.Errorf("unexpected payments order: %+v", payments)
	}
}
