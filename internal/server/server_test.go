package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"neurogrid-backend/internal/dto"
	"neurogrid-backend/internal/metrics"
	"neurogrid-backend/internal/model"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type nopCheckout struct{}

func (nopCheckout) CreateSession(context.Context, *model.Principal, model.PaymentType, string, string) (*dto.CheckoutSession, error) {
	return &dto.CheckoutSession{}, nil
}
func (nopCheckout) GetStatus(context.Context, *model.Principal, string) (*dto.CheckoutStatus, error) {
	return &dto.CheckoutStatus{}, nil
}
func (nopCheckout) Packages(context.Context) []*dto.Package { return nil }
func (nopCheckout) History(context.Context, *model.Principal) ([]*dto.PaymentHistoryItem, error) {
	return nil, nil
}

type nopCourses struct{}

func (nopCourses) ListPublished(context.Context) ([]*dto.Course, error) { return nil, nil }
func (nopCourses) ListAll(context.Context) ([]*dto.Course, error)       { return nil, nil }
func (nopCourses) Get(context.Context, string) (*dto.Course, error)     { return &dto.Course{}, nil }
func (nopCourses) Create(context.Context, *model.Principal, *dto.CreateCourseRequest) (string, error) {
	return "", nil
}
func (nopCourses) TogglePublish(context.Context, string) (bool, error) { return false, nil }
func (nopCourses) CheckAccess(context.Context, *model.Principal, string) (*dto.CourseAccess, error) {
	return &dto.CourseAccess{}, nil
}
func (nopCourses) UpdateLessonProgress(context.Context, *model.Principal, string, string, *dto.LessonProgressRequest) (*dto.CourseProgress, error) {
	return &dto.CourseProgress{}, nil
}
func (nopCourses) MyCourses(context.Context, *model.Principal) ([]*dto.MyCourse, error) {
	return nil, nil
}

type nopBookings struct{}

func (nopBookings) MyBookings(context.Context, *model.Principal) ([]*dto.Booking, error) {
	return nil, nil
}

func TestServer_Routes(t *testing.T) {
	metrics.Register()
	srv := NewServer(nopCheckout{}, nopCourses{}, nopBookings{}, []byte("secret"), zaptest.NewLogger(t))

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodGet, "/api/payments/packages", http.StatusOK},
		{http.MethodGet, "/api/courses", http.StatusOK},
		{http.MethodGet, "/api/courses/starter", http.StatusOK},
		{http.MethodGet, "/api/courses/my-courses", http.StatusUnauthorized},
		{http.MethodGet, "/api/payments/history", http.StatusUnauthorized},
		{http.MethodPost, "/api/courses", http.StatusUnauthorized},
		{http.MethodGet, "/api/bookings/my-bookings", http.StatusUnauthorized},
		{http.MethodGet, "/api/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("%s %s: expected %d, got %d", tt.method, tt.path, tt.want, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Errorf("expected request metrics to be exported, got %d", rec.Code)
	}
}

func TestServer_FailedRequestIsLoggedAndCounted(t *testing.T) {
	metrics.Register()
	core, logs := observer.New(zapcore.InfoLevel)
	srv := NewServer(nopCheckout{}, nopCourses{}, nopBookings{}, []byte("secret"), zap.New(core))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bookings/my-bookings", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	entries := logs.FilterMessage("HTTP Request").AllUntimed()
	if len(entries) != 1 {
		t.Fatalf("expected one request log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusUnauthorized) {
		t.Errorf("expected logged status 401, got %v", fields["status"])
	}
	if _, ok := fields["error"]; !ok {
		t.Error("expected the handler error on the request log")
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	want := `http_requests_total{endpoint="/api/bookings/my-bookings",method="GET",status="401"}`
	if !strings.Contains(rec.Body.String(), want) {
		t.Errorf("expected %s in metrics output", want)
	}
}
