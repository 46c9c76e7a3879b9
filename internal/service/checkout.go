package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"neurogrid-backend/internal/client"
	"neurogrid-backend/internal/config"
	"neurogrid-backend/internal/dto"
	"neurogrid-backend/internal/metrics"
	"neurogrid-backend/internal/model"
	"neurogrid-backend/internal/notifier"
	"neurogrid-backend/internal/repository"
	"neurogrid-backend/internal/service/serverrors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const paymentHistoryLimit = 50

type CheckoutService interface {
	CreateSession(ctx context.Context, principal *model.Principal, paymentType model.PaymentType, itemReference, originURL string) (*dto.CheckoutSession, error)
	GetStatus(ctx context.Context, principal *model.Principal, sessionID string) (*dto.CheckoutStatus, error)
	Packages(ctx context.Context) []*dto.Package
	History(ctx context.Context, principal *model.Principal) ([]*dto.PaymentHistoryItem, error)
}

// BookingCreator books the consultation a completed payment paid for.
type BookingCreator interface {
	CreateConfirmed(ctx context.Context, userID, paymentID string) (string, error)
}

type checkoutServiceImpl struct {
	db              *gorm.DB
	gateway         client.PaymentGateway
	cfg             config.Checkout
	paymentRepo     repository.PaymentRepository
	entitlementRepo repository.EntitlementRepository
	enrollmentRepo  repository.EnrollmentRepository
	bookings        BookingCreator
	notifier        notifier.Notifier
	logger          *zap.Logger
}

func NewCheckoutService(
	db *gorm.DB,
	gateway client.PaymentGateway,
	cfg config.Checkout,
	paymentRepo repository.PaymentRepository,
	entitlementRepo repository.EntitlementRepository,
	enrollmentRepo repository.EnrollmentRepository,
	bookings BookingCreator,
	notifier notifier.Notifier,
	logger *zap.Logger,
) CheckoutService {
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	return &checkoutServiceImpl{
		db:              db,
		gateway:         gateway,
		cfg:             cfg,
		paymentRepo:     paymentRepo,
		entitlementRepo: entitlementRepo,
		enrollmentRepo:  enrollmentRepo,
		bookings:        bookings,
		notifier:        notifier,
		logger:          logger,
	}
}

func (s *checkoutServiceImpl) CreateSession(ctx context.Context, principal *model.Principal, paymentType model.PaymentType, itemReference, originURL string) (*dto.CheckoutSession, error) {
	q, err := quote(paymentType, itemReference)
	if err != nil {
		return nil, err
	}

	origin := strings.TrimRight(originURL, "/")
	if origin == "" {
		origin = strings.TrimRight(s.cfg.DefaultOrigin, "/")
	}

	gatewayCtx, cancel := s.gatewayContext(ctx)
	defer cancel()

	sess, err := s.gateway.CreateSession(gatewayCtx, &client.CreateSessionRequest{
		Amount:     q.Amount,
		Currency:   s.cfg.Currency,
		ItemName:   q.ItemName,
		SuccessURL: origin + "/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  origin + "/payment/cancel",
		Metadata: map[string]string{
			"user_id":      principal.UserID,
			"user_email":   principal.Email,
			"payment_type": string(paymentType),
			"item_id":      q.ItemID,
			"item_name":    q.ItemName,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create checkout session: %w", serverrors.ErrGateway, err)
	}

	metadata := datatypes.JSONMap{
		"item_name":  q.ItemName,
		"user_email": principal.Email,
	}
	if paymentType == model.PaymentTypeCourse {
		metadata["package_id"] = q.ItemID
	}

	sessionID := sess.SessionID
	payment := &model.PaymentRecord{
		ID:               uuid.NewString(),
		UserID:           principal.UserID,
		GatewaySessionID: &sessionID,
		Amount:           q.Amount,
		Currency:         s.cfg.Currency,
		PaymentType:      paymentType,
		ItemID:           q.ItemID,
		Status:           model.PaymentStatusPending,
		Metadata:         metadata,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("store payment record: %w", err)
	}

	metrics.CheckoutSessionsCreated.WithLabelValues(string(paymentType)).Inc()
	s.logger.Info("checkout session created",
		zap.String("payment_id", payment.ID),
		zap.String("session_id", sessionID),
		zap.String("user_id", principal.UserID),
		zap.String("payment_type", string(paymentType)),
		zap.String("item_id", q.ItemID),
	)

	return &dto.CheckoutSession{
		SessionID: sessionID,
		URL:       sess.RedirectURL,
		PaymentID: payment.ID,
	}, nil
}

func (s *checkoutServiceImpl) GetStatus(ctx context.Context, principal *model.Principal, sessionID string) (*dto.CheckoutStatus, error) {
	payment, err := s.paymentRepo.FindBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment session %s: %w", sessionID, serverrors.ErrNotFound)
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}

	if payment.UserID != principal.UserID {
		return nil, fmt.Errorf("payment session %s: %w", sessionID, serverrors.ErrForbidden)
	}

	gatewayCtx, cancel := s.gatewayContext(ctx)
	defer cancel()

	st, err := s.gateway.GetSessionStatus(gatewayCtx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: get checkout status: %w", serverrors.ErrGateway, err)
	}

	switch {
	case st.PaymentStatus == client.GatewayPaymentPaid && payment.Status != model.PaymentStatusCompleted:
		if err := s.completePayment(ctx, payment); err != nil {
			return nil, err
		}
	case st.Status == client.GatewaySessionExpired && !payment.Status.IsTerminal():
		if err := s.failPayment(ctx, payment); err != nil {
			return nil, err
		}
	}

	return &dto.CheckoutStatus{
		SessionID:     sessionID,
		Status:        st.Status,
		PaymentStatus: st.PaymentStatus,
		AmountTotal:   st.AmountTotal,
		Currency:      st.Currency,
		Metadata:      st.Metadata,
	}, nil
}

func (s *checkoutServiceImpl) Packages(ctx context.Context) []*dto.Package {
	ids := packageIDs()
	packages := make([]*dto.Package, len(ids))
	for i, id := range ids {
		info := neuralPackages[id]
		packages[i] = &dto.Package{
			ID:       id,
			Name:     info.Name,
			Price:    info.Price,
			Currency: strings.ToUpper(s.cfg.Currency),
			Features: info.Features,
		}
	}
	return packages
}

func (s *checkoutServiceImpl) History(ctx context.Context, principal *model.Principal) ([]*dto.PaymentHistoryItem, error) {
	payments, err := s.paymentRepo.ListByUser(ctx, principal.UserID, paymentHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	items := make([]*dto.PaymentHistoryItem, len(payments))
	for i, p := range payments {
		itemName, _ := p.Metadata["item_name"].(string)
		items[i] = &dto.PaymentHistoryItem{
			ID:          p.ID,
			Amount:      p.Amount,
			Currency:    p.Currency,
			Status:      string(p.Status),
			PaymentType: string(p.PaymentType),
			ItemName:    itemName,
			CreatedAt:   p.CreatedAt,
		}
	}
	return items, nil
}

func (s *checkoutServiceImpl) gatewayContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.GatewayTimeout <= 0 {
		return context.WithTimeout(ctx, 5*time.Second)
	}
	return context.WithTimeout(ctx, s.cfg.GatewayTimeout)
}

// completePayment applies pending -> completed once per session; only the
// caller whose conditional update lands runs the side effects.
func (s *checkoutServiceImpl) completePayment(ctx context.Context, payment *model.PaymentRecord) error {
	sessionID := *payment.GatewaySessionID
	transitioned, err := s.paymentRepo.TransitionStatus(ctx, sessionID, model.PaymentStatusPending, model.PaymentStatusCompleted)
	if err != nil {
		return fmt.Errorf("mark payment completed: %w", err)
	}
	if !transitioned {
		s.logger.Debug("payment already transitioned by another request",
			zap.String("payment_id", payment.ID),
			zap.String("session_id", sessionID),
		)
		return nil
	}

	payment.Status = model.PaymentStatusCompleted
	metrics.PaymentTransitions.WithLabelValues(string(model.PaymentStatusCompleted)).Inc()

	// the status is already committed, so the grant must not be cut short
	// by the caller going away
	sideCtx := context.WithoutCancel(ctx)
	s.processSuccessfulPayment(sideCtx, payment)
	s.notifier.PaymentCompleted(sideCtx, payment)
	return nil
}

func (s *checkoutServiceImpl) failPayment(ctx context.Context, payment *model.PaymentRecord) error {
	transitioned, err := s.paymentRepo.TransitionStatus(ctx, *payment.GatewaySessionID, model.PaymentStatusPending, model.PaymentStatusFailed)
	if err != nil {
		return fmt.Errorf("mark payment failed: %w", err)
	}
	if transitioned {
		payment.Status = model.PaymentStatusFailed
		metrics.PaymentTransitions.WithLabelValues(string(model.PaymentStatusFailed)).Inc()
		s.logger.Info("checkout session expired", zap.String("payment_id", payment.ID))
	}
	return nil
}

// processSuccessfulPayment grants what the payment bought. Failures are
// logged and counted, never returned: the payment stays completed and the
// grant is repaired out of band.
func (s *checkoutServiceImpl) processSuccessfulPayment(ctx context.Context, payment *model.PaymentRecord) {
	var err error
	switch payment.PaymentType {
	case model.PaymentTypeCourse:
		err = s.grantCourseAccess(ctx, payment)
	case model.PaymentTypeConsultation:
		var bookingID string
		bookingID, err = s.bookings.CreateConfirmed(ctx, payment.UserID, payment.ID)
		if err == nil {
			s.logger.Info("consultation booked",
				zap.String("payment_id", payment.ID),
				zap.String("booking_id", bookingID),
			)
		}
	default:
		metrics.UnhandledPaymentTypes.WithLabelValues(string(payment.PaymentType)).Inc()
		s.logger.Warn("completed payment has no side effect for its type",
			zap.String("payment_id", payment.ID),
			zap.String("payment_type", string(payment.PaymentType)),
		)
		return
	}

	if err != nil {
		metrics.SideEffectFailures.WithLabelValues(string(payment.PaymentType)).Inc()
		s.logger.Error("failed to process successful payment",
			zap.String("payment_id", payment.ID),
			zap.String("user_id", payment.UserID),
			zap.String("payment_type", string(payment.PaymentType)),
			zap.Error(err),
		)
	}
}

func (s *checkoutServiceImpl) grantCourseAccess(ctx context.Context, payment *model.PaymentRecord) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := s.entitlementRepo.Grant(ctx, tx, &model.Entitlement{
			ID:          uuid.NewString(),
			UserID:      payment.UserID,
			PackageID:   payment.ItemID,
			PaymentID:   payment.ID,
			PurchasedAt: time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("grant entitlement: %w", err)
		}
		if !created {
			s.logger.Info("user already holds an active entitlement",
				zap.String("user_id", payment.UserID),
				zap.String("package_id", payment.ItemID),
			)
		}

		if err := s.enrollmentRepo.Add(ctx, tx, payment.UserID, payment.ItemID); err != nil {
			return fmt.Errorf("add enrollment: %w", err)
		}
		return nil
	})
}
