package ratelim

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
)

func okHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusOK)
}

func TestLimitAllowsFirstRequest(t *testing.T) {
	rl := NewRateLimiter()
	handler := rl.Limit(okHandler)

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	handler(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestLimitRejectsBurstOverflow(t *testing.T) {
	rl := NewRateLimiter()
	handler := rl.Limit(okHandler)

	denied := 0
	for i := 0; i < 50; i++ {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "10.0.0.2:1234"
		w := httptest.NewRecorder()
		handler(w, r, nil)
		if w.Code == http.StatusTooManyRequests {
			denied++
		}
	}

	if denied == 0 {
		t.Fatal("expected some requests beyond the burst to be rejected")
	}
}

func TestLimitIsPerClient(t *testing.T) {
	rl := NewRateLimiter()
	handler := rl.Limit(okHandler)

	// exhaust one client's burst
	for i := 0; i < 50; i++ {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "10.0.0.3:1234"
		handler(httptest.NewRecorder(), r, nil)
	}

	// a different client is unaffected
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.4:1234"
	w := httptest.NewRecorder()
	handler(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for fresh client, got %d", w.Code)
	}
}
