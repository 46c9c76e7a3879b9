package notifier

import (
	"context"
	"time"

	"neurogrid-backend/internal/model"

	"go.uber.org/zap"
)

const (
	EventPaymentCompleted = "payment.completed"
	EventCourseCompleted  = "course.completed"
)

// Event is the message published for downstream mailers and CRM sync.
type Event struct {
	Type       string            `json:"event_type"`
	UserID     string            `json:"user_id"`
	OccurredAt time.Time         `json:"occurred_at"`
	Data       map[string]string `json:"data"`
}

// Notifier is best-effort: implementations log failures and never return
// them, so callers cannot be affected by a broken downstream.
type Notifier interface {
	PaymentCompleted(ctx context.Context, payment *model.PaymentRecord)
	CourseCompleted(ctx context.Context, progress *model.CourseProgress)
}

func paymentCompletedEvent(payment *model.PaymentRecord) Event {
	return Event{
		Type:       EventPaymentCompleted,
		UserID:     payment.UserID,
		OccurredAt: time.Now().UTC(),
		Data: map[string]string{
			"payment_id":   payment.ID,
			"payment_type": string(payment.PaymentType),
			"item_id":      payment.ItemID,
		},
	}
}

func courseCompletedEvent(progress *model.CourseProgress) Event {
	return Event{
		Type:       EventCourseCompleted,
		UserID:     progress.UserID,
		OccurredAt: time.Now().UTC(),
		Data: map[string]string{
			"course_id": progress.CourseID,
		},
	}
}

type logNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier is used when no broker is configured.
func NewLogNotifier(logger *zap.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) PaymentCompleted(ctx context.Context, payment *model.PaymentRecord) {
	n.logger.Info("payment completed",
		zap.String("payment_id", payment.ID),
		zap.String("user_id", payment.UserID),
		zap.String("payment_type", string(payment.PaymentType)),
	)
}

func (n *logNotifier) CourseCompleted(ctx context.Context, progress *model.CourseProgress) {
	n.logger.Info("course completed",
		zap.String("user_id", progress.UserID),
		zap.String("course_id", progress.CourseID),
	)
}
