package repository

import (
	"context"
	"errors"
	"testing"

	"neurogrid-backend/internal/model"

	"gorm.io/gorm"
)

func TestEntitlementRepository_AtMostOneActive(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewEntitlementRepository(db)

	created, err := repo.Grant(ctx, db, &model.Entitlement{ID: "e1", UserID: "user-1", PackageID: "starter"})
	if err != nil || !created {
		t.Fatalf("expected first grant to be created, got created=%v err=%v", created, err)
	}

	created, err = repo.Grant(ctx, db, &model.Entitlement{ID: "e2", UserID: "user-1", PackageID: "starter"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected second active grant to be a no-op")
	}

	// different package is independent
	created, err = repo.Grant(ctx, db, &model.Entitlement{ID: "e3", UserID: "user-1", PackageID: "enterprise"})
	if err != nil || !created {
		t.Fatalf("expected grant for other package, got created=%v err=%v", created, err)
	}

	active, err := repo.ListActive(ctx, "user-1")
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 2 {
		t.Errorf("expected 2 active entitlements, got %d", len(active))
	}
}

func TestEntitlementRepository_DeactivateAllowsRegrant(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewEntitlementRepository(db)

	if _, err := repo.Grant(ctx, db, &model.Entitlement{ID: "e1", UserID: "user-1", PackageID: "starter"}); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := repo.Deactivate(ctx, "user-1", "starter"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := repo.FindActive(ctx, "user-1", "starter"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected no active entitlement, got %v", err)
	}

	created, err := repo.Grant(ctx, db, &model.Entitlement{ID: "e2", UserID: "user-1", PackageID: "starter"})
	if err != nil || !created {
		t.Fatalf("expected re-grant after deactivation, got created=%v err=%v", created, err)
	}

	if err := repo.Deactivate(ctx, "user-1", "missing"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound for missing entitlement, got %v", err)
	}
}

func TestEnrollmentRepository_AddIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewEnrollmentRepository(db)

	for i := 0; i < 2; i++ {
		if err := repo.Add(ctx, db, "user-1", "professional"); err != nil {
			t.Fatalf("add #%d: %v", i, err)
		}
	}

	items, err := repo.ListItemIDs(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0] != "professional" {
		t.Errorf("expected single enrollment, got %v", items)
	}
}

func TestEnrollmentRepository_AddCountsNewEnrollmentsOnly(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	if err := NewCourseRepository(db).Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	repo := NewEnrollmentRepository(db)

	for _, user := range []string{"user-1", "user-1", "user-2"} {
		if err := repo.Add(ctx, db, user, "starter"); err != nil {
			t.Fatalf("add %s: %v", user, err)
		}
	}

	var course model.Course
	if err := db.Where("id = ?", "starter").First(&course).Error; err != nil {
		t.Fatalf("find course: %v", err)
	}
	if course.EnrollmentCount != 2 {
		t.Errorf("expected enrollment count 2, got %d", course.EnrollmentCount)
	}

	// items without a catalog course still enroll
	if err := repo.Add(ctx, db, "user-1", "consultation"); err != nil {
		t.Fatalf("add non-course item: %v", err)
	}
}
