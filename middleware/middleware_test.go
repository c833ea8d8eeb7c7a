package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"parkhub/globals"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
)

func signToken(t *testing.T, userID, role string) string {
	t.Helper()
	claims := &Claims{
		Username: "tester",
		UserID:   userID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func stubTokenCache(t *testing.T, fn func(hash, field string) (string, error)) {
	t.Helper()
	orig := lookupToken
	lookupToken = fn
	t.Cleanup(func() { lookupToken = orig })
}

func TestAuthenticateMissingToken(t *testing.T) {
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler must not run without a token")
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/", nil), nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthenticateValidToken(t *testing.T) {
	token := signToken(t, "u-1", "admin")
	stubTokenCache(t, func(hash, field string) (string, error) {
		return token, nil
	})

	called := false
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
		if uid, _ := r.Context().Value(globals.UserIDKey).(string); uid != "u-1" {
			t.Errorf("user id not set, got %q", uid)
		}
		if role, _ := r.Context().Value(globals.RoleKey).(string); role != "admin" {
			t.Errorf("role not set, got %q", role)
		}
	})

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler(w, r, nil)

	if !called {
		t.Fatal("handler was not called")
	}
}

func TestAuthenticateRevokedSession(t *testing.T) {
	token := signToken(t, "u-2", "driver")
	// logout removed the cache entry
	stubTokenCache(t, func(hash, field string) (string, error) {
		return "", redis.Nil
	})

	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("revoked session must not reach the handler")
	})

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler(w, r, nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthenticateSupersededSession(t *testing.T) {
	token := signToken(t, "u-3", "driver")
	// a later login stored a different token
	stubTokenCache(t, func(hash, field string) (string, error) {
		return "some-newer-token", nil
	})

	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("superseded session must not reach the handler")
	})

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler(w, r, nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthenticateCacheUnavailable(t *testing.T) {
	token := signToken(t, "u-4", "driver")
	stubTokenCache(t, func(hash, field string) (string, error) {
		return "", fmt.Errorf("connection refused")
	})

	called := false
	handler := Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
	})

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	handler(httptest.NewRecorder(), r, nil)

	if !called {
		t.Fatal("cache outage must not lock out valid tokens")
	}
}

func TestOptionalAuthWithoutToken(t *testing.T) {
	called := false
	handler := OptionalAuth(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
		if uid, _ := r.Context().Value(globals.UserIDKey).(string); uid != "" {
			t.Errorf("unexpected user id %q", uid)
		}
	})

	handler(httptest.NewRecorder(), httptest.NewRequest("POST", "/", nil), nil)
	if !called {
		t.Fatal("anonymous request must pass through")
	}
}

func TestOptionalAuthWithToken(t *testing.T) {
	token := signToken(t, "u-5", "driver")

	called := false
	handler := OptionalAuth(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
		if uid, _ := r.Context().Value(globals.UserIDKey).(string); uid != "u-5" {
			t.Errorf("user id not attached, got %q", uid)
		}
	})

	r := httptest.NewRequest("POST", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	handler(httptest.NewRecorder(), r, nil)
	if !called {
		t.Fatal("handler was not called")
	}
}

func TestRequireRoleRejectsOtherRoles(t *testing.T) {
	token := signToken(t, "u-6", "driver")
	stubTokenCache(t, func(hash, field string) (string, error) {
		return token, nil
	})

	handler := RequireRole("admin", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("driver must not pass an admin gate")
	})

	r := httptest.NewRequest("DELETE", "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler(w, r, nil)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}
