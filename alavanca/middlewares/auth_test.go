package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"alavanca/alavanca/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestRequireAuthRejectsMissingAndBadTokens(t *testing.T) {
	cfg := config.Config{JWTSecret: "segredo"}
	handler := RequireAuth(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run without a valid token")
	}))

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"garbage token":  "Bearer not.a.jwt",
		"wrong secret": "Bearer " + signToken(t, "outro", jwt.MapClaims{
			"user_id": uuid.New().String(),
			"exp":     time.Now().Add(time.Hour).Unix(),
		}),
		"expired": "Bearer " + signToken(t, "segredo", jwt.MapClaims{
			"user_id": uuid.New().String(),
			"exp":     time.Now().Add(-time.Hour).Unix(),
		}),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rr.Code)
			}
		})
	}
}

func TestRequireAuthAttachesUserID(t *testing.T) {
	cfg := config.Config{JWTSecret: "segredo"}
	userID := uuid.New()
	var seen uuid.UUID
	handler := RequireAuth(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "segredo", jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if seen != userID {
		t.Errorf("expected user id %s in context, got %s", userID, seen)
	}
}

func TestOptionalAuthPassesAnonymous(t *testing.T) {
	cfg := config.Config{JWTSecret: "segredo"}
	called := false
	handler := OptionalAuth(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := UserIDFromContext(r.Context()); ok {
			t.Error("anonymous request must carry no user id")
		}
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/", nil))
	if !called {
		t.Error("anonymous request must reach the handler")
	}
}

func TestOptionalAuthIgnoresInvalidToken(t *testing.T) {
	cfg := config.Config{JWTSecret: "segredo"}
	handler := OptionalAuth(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); ok {
			t.Error("invalid token must not attach a user id")
		}
	}))

	req := httptest.NewRequest("POST", "/", nil)
	req.Header.Set("Authorization", "Bearer junk")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("invalid token must still pass through, got %d", rr.Code)
	}
}
