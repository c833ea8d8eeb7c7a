package reports

import (
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func window(from, to time.Time) Window {
	return Window{From: from, To: to}
}

func TestClipMinutesFullyInside(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	start := from.Add(2 * time.Hour)
	end := start.Add(45 * time.Minute)
	if got := ClipMinutes(start, &end, window(from, to)); got != 45 {
		t.Fatalf("got %v, want 45", got)
	}
}

func TestClipMinutesClipsBothEnds(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(time.Hour)

	// session spans the whole window and then some
	start := from.Add(-2 * time.Hour)
	end := to.Add(3 * time.Hour)
	if got := ClipMinutes(start, &end, window(from, to)); got != 60 {
		t.Fatalf("spanning session should contribute the full window, got %v", got)
	}
}

func TestClipMinutesOutsideWindow(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(time.Hour)

	start := to.Add(time.Hour)
	end := start.Add(30 * time.Minute)
	if got := ClipMinutes(start, &end, window(from, to)); got != 0 {
		t.Fatalf("session after window should contribute 0, got %v", got)
	}

	start = from.Add(-2 * time.Hour)
	end = from.Add(-time.Hour)
	if got := ClipMinutes(start, &end, window(from, to)); got != 0 {
		t.Fatalf("session before window should contribute 0, got %v", got)
	}
}

func TestClipMinutesOpenSession(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(time.Hour)

	// still open: counts until the window's upper bound
	start := from.Add(30 * time.Minute)
	if got := ClipMinutes(start, nil, window(from, to)); got != 30 {
		t.Fatalf("open session should end at window bound, got %v", got)
	}
}

func TestClipMinutesSessionStartingAtUpperBound(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(time.Hour)

	// window is half-open: an interval starting exactly at to is out
	if got := ClipMinutes(to, nil, window(from, to)); got != 0 {
		t.Fatalf("session starting at window end should contribute 0, got %v", got)
	}
}

func TestIntervalPipelineExcludesStartAtUpperBound(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	win := window(from, from.Add(time.Hour))

	stage := intervalPipeline("checkIn", "checkOut", win)[0]
	if stage[0].Key != "$match" {
		t.Fatalf("expected $match first, got %s", stage[0].Key)
	}
	expr, ok := stage[0].Value.(bson.M)["$expr"].(bson.M)
	if !ok {
		t.Fatalf("expected $expr match, got %v", stage[0].Value)
	}
	and, ok := expr["$and"].(bson.A)
	if !ok || len(and) == 0 {
		t.Fatalf("expected $and clauses, got %v", expr)
	}

	// the start bound must be strict: a session starting exactly at the
	// window end produces no row at all
	startClause := and[0].(bson.M)
	if _, ok := startClause["$lt"]; !ok {
		t.Fatalf("start bound must use $lt, got %v", startClause)
	}
}

func TestWindowFromRequestDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/reports/usage", nil)
	win := windowFromRequest(r)

	if !win.To.After(win.From) {
		t.Fatal("default window must be forward")
	}
	if d := win.To.Sub(win.From); d != 30*24*time.Hour {
		t.Fatalf("default window should be 30 days, got %v", d)
	}
}

func TestWindowFromRequestExplicit(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/api/reports/usage?from=2025-06-01T00:00:00Z&to=2025-06-08T00:00:00Z", nil)
	win := windowFromRequest(r)

	if !win.From.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("from: got %v", win.From)
	}
	if !win.To.Equal(time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("to: got %v", win.To)
	}
}
