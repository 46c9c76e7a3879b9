package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"neurogrid-backend/internal/client"
	"neurogrid-backend/internal/config"
	"neurogrid-backend/internal/model"

	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := client.InitDBClient(config.Database{
		Driver:       "sqlite",
		URL:          filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000",
		MaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("init test db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// fakeGateway hands out sequential session ids and reports whatever status
// the test put in statuses.
type fakeGateway struct {
	mu        sync.Mutex
	next      int
	created   []*client.CreateSessionRequest
	statuses  map[string]*client.SessionStatus
	createErr error
	statusErr error
	lookups   atomic.Int32
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{statuses: map[string]*client.SessionStatus{}}
}

func (g *fakeGateway) CreateSession(ctx context.Context, req *client.CreateSessionRequest) (*client.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.createErr != nil {
		return nil, g.createErr
	}
	g.next++
	id := fmt.Sprintf("cs_test_%d", g.next)
	g.created = append(g.created, req)
	g.statuses[id] = &client.SessionStatus{
		SessionID:     id,
		Status:        client.GatewaySessionOpen,
		PaymentStatus: client.GatewayPaymentUnpaid,
		AmountTotal:   req.Amount,
		Currency:      req.Currency,
		Metadata:      req.Metadata,
	}
	return &client.Session{SessionID: id, RedirectURL: "https://checkout.test/" + id}, nil
}

func (g *fakeGateway) GetSessionStatus(ctx context.Context, sessionID string) (*client.SessionStatus, error) {
	g.lookups.Add(1)
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.statusErr != nil {
		return nil, g.statusErr
	}
	st, ok := g.statuses[sessionID]
	if !ok {
		return nil, fmt.Errorf("no such session %s", sessionID)
	}
	cp := *st
	return &cp, nil
}

func (g *fakeGateway) set(sessionID, status, paymentStatus string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statuses[sessionID].Status = status
	g.statuses[sessionID].PaymentStatus = paymentStatus
}

type stubBookings struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (b *stubBookings) CreateConfirmed(ctx context.Context, userID, paymentID string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return "", b.err
	}
	b.calls = append(b.calls, paymentID)
	return "booking-" + paymentID, nil
}

type stubNotifier struct {
	payments atomic.Int32
	courses  atomic.Int32
}

func (n *stubNotifier) PaymentCompleted(ctx context.Context, payment *model.PaymentRecord) {
	n.payments.Add(1)
}

func (n *stubNotifier) CourseCompleted(ctx context.Context, progress *model.CourseProgress) {
	n.courses.Add(1)
}

type stubCatalog struct {
	lessons int64
}

func (c stubCatalog) CountLessons(ctx context.Context, courseID string) (int64, error) {
	return c.lessons, nil
}

// blockingGateway never answers; calls end only when ctx does.
type blockingGateway struct{}

func (blockingGateway) CreateSession(ctx context.Context, req *client.CreateSessionRequest) (*client.Session, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingGateway) GetSessionStatus(ctx context.Context, sessionID string) (*client.SessionStatus, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
