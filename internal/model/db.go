package model

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentType string

const (
	PaymentTypeCourse       PaymentType = "course"
	PaymentTypeConsultation PaymentType = "consultation"
	PaymentTypeSubscription PaymentType = "subscription"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// IsTerminal reports whether no further gateway-driven transition applies.
func (s PaymentStatus) IsTerminal() bool {
	return s != PaymentStatusPending
}

type PaymentRecord struct {
	ID               string            `gorm:"primaryKey;size:36;not null"`
	UserID           string            `gorm:"size:64;index;not null"`
	GatewaySessionID *string           `gorm:"size:255;uniqueIndex"` // nil until the gateway returned a session
	Amount           float64           `gorm:"not null"`
	Currency         string            `gorm:"size:8;not null"`
	PaymentType      PaymentType       `gorm:"size:32;index;not null"`
	ItemID           string            `gorm:"size:64;not null"` // package id or booking context
	Status           PaymentStatus     `gorm:"size:32;index;not null"`
	Metadata         datatypes.JSONMap `gorm:"type:json"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Entitlement struct {
	ID          string `gorm:"primaryKey;size:36;not null"`
	UserID      string `gorm:"size:64;index;not null"`
	PackageID   string `gorm:"size:64;index;not null"`
	PaymentID   string `gorm:"size:36;index"`
	PurchasedAt time.Time
	ExpiresAt   *time.Time // nil = lifetime
	Active      bool `gorm:"not null;default:true"`

	// ActiveKey is user|package while active and NULL otherwise, so the
	// unique index allows any number of inactive rows but one active row.
	ActiveKey *string `gorm:"size:160;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserEnrollment is the user's enrolled-items set.
type UserEnrollment struct {
	UserID    string `gorm:"primaryKey;size:64"`
	ItemID    string `gorm:"primaryKey;size:64;index"`
	CreatedAt time.Time
}

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

type Booking struct {
	ID          string        `gorm:"primaryKey;size:36;not null"`
	UserID      string        `gorm:"size:64;index;not null"`
	PaymentID   *string       `gorm:"size:36;uniqueIndex"`
	BookingType string        `gorm:"size:32;not null"` // consultation, onboarding, training
	Status      BookingStatus `gorm:"size:32;index;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
