package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"neurogrid-backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var secret = []byte("test-secret")

func TestParseToken(t *testing.T) {
	token, err := SignToken(secret, &model.Principal{UserID: "u1", Email: "u1@example.com", Role: model.RoleInstructor}, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	p, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.UserID != "u1" || p.Email != "u1@example.com" || p.Role != model.RoleInstructor {
		t.Errorf("unexpected principal %+v", p)
	}

	if _, err := ParseToken([]byte("other-secret"), token); err == nil {
		t.Error("expected signature mismatch to fail")
	}
}

func TestParseToken_Rejects(t *testing.T) {
	expired, _ := SignToken(secret, &model.Principal{UserID: "u1"}, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	if _, err := ParseToken(secret, expired); err == nil {
		t.Error("expected expired token to fail")
	}

	noSubject, _ := SignToken(secret, &model.Principal{}, jwt.RegisteredClaims{})
	if _, err := ParseToken(secret, noSubject); err == nil {
		t.Error("expected token without subject to fail")
	}

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := ParseToken(secret, none); err == nil {
		t.Error("expected unsigned token to fail")
	}
}

func TestParseToken_DefaultsToUserRole(t *testing.T) {
	token, _ := SignToken(secret, &model.Principal{UserID: "u1"}, jwt.RegisteredClaims{})

	p, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Role != model.RoleUser {
		t.Errorf("expected role user, got %s", p.Role)
	}
}

func TestAuthMiddleware_SetsPrincipal(t *testing.T) {
	e := echo.New()
	var got *model.Principal
	h := AuthMiddleware(secret)(func(c echo.Context) error {
		got, _ = PrincipalFrom(c)
		return c.NoContent(http.StatusNoContent)
	})

	token, _ := SignToken(secret, &model.Principal{UserID: "u1", Role: model.RoleAdmin}, jwt.RegisteredClaims{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()

	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.UserID != "u1" || got.Role != model.RoleAdmin {
		t.Errorf("unexpected principal %+v", got)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	h := RequireRole(model.RoleInstructor, model.RoleAdmin)(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	tests := []struct {
		principal *model.Principal
		want      int
	}{
		{nil, http.StatusUnauthorized},
		{&model.Principal{UserID: "u1", Role: model.RoleUser}, http.StatusForbidden},
		{&model.Principal{UserID: "u1", Role: model.RoleInstructor}, 0},
		{&model.Principal{UserID: "u1", Role: model.RoleAdmin}, 0},
	}
	for _, tt := range tests {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		if tt.principal != nil {
			c.Set(principalKey, tt.principal)
		}

		err := h(c)
		if tt.want == 0 {
			if err != nil {
				t.Errorf("expected access, got %v", err)
			}
			continue
		}
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != tt.want {
			t.Errorf("expected %d, got %v", tt.want, err)
		}
	}
}
