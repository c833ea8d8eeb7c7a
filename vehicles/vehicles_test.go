package vehicles

import (
	"testing"
	"time"
)

func TestStayHours(t *testing.T) {
	exit := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

	if got := StayHours("2025-06-01", "10:00:00", exit); got != 2.5 {
		t.Fatalf("got %v, want 2.5", got)
	}
	if got := StayHours("2025-06-01", "12:15:00", exit); got != 0.25 {
		t.Fatalf("got %v, want 0.25", got)
	}
}

func TestStayHoursRounding(t *testing.T) {
	exit := time.Date(2025, 6, 1, 11, 0, 10, 0, time.UTC)
	// 1h10s = 1.00277... hours, rounds to 1.0
	if got := StayHours("2025-06-01", "10:00:00", exit); got != 1.0 {
		t.Fatalf("got %v, want 1.0", got)
	}
}

func TestStayHoursBadInput(t *testing.T) {
	exit := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if got := StayHours("not-a-date", "10:00:00", exit); got != 0 {
		t.Fatalf("parse failure should yield 0, got %v", got)
	}
	// exit before entry
	if got := StayHours("2025-06-02", "10:00:00", exit); got != 0 {
		t.Fatalf("negative stay should yield 0, got %v", got)
	}
}
