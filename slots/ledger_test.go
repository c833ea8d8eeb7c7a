package slots

import (
	"testing"
	"time"
)

func TestDurationMins(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		delta time.Duration
		want  int
	}{
		{"five minutes", 5 * time.Minute, 5},
		{"rounds up past half", 5*time.Minute + 31*time.Second, 6},
		{"rounds down below half", 5*time.Minute + 29*time.Second, 5},
		{"drive-through bills one minute", 10 * time.Second, 1},
		{"zero bills one minute", 0, 1},
		{"ninety minutes", 90 * time.Minute, 90},
	}

	for _, tc := range cases {
		if got := DurationMins(base, base.Add(tc.delta)); got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}
