package utils

import (
	"strings"
	"testing"
)

func TestGenerateRandomString(t *testing.T) {
	s := GenerateRandomString(16)
	if len(s) != 16 {
		t.Fatalf("expected length 16, got %d", len(s))
	}
}

func TestGenerateRandomDigitString(t *testing.T) {
	s := GenerateRandomDigitString(10)
	if len(s) != 10 {
		t.Fatalf("expected length 10, got %d", len(s))
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			t.Fatalf("non-digit %q in %s", r, s)
		}
	}
}

func TestGenerateReservationID(t *testing.T) {
	id := GenerateReservationID()
	if !strings.HasPrefix(id, "RES") {
		t.Fatalf("expected RES prefix, got %s", id)
	}
	if id != strings.ToUpper(id) {
		t.Fatalf("reservation id must be uppercase: %s", id)
	}
}

func TestGenerateVehicleID(t *testing.T) {
	id := GenerateVehicleID()
	if !strings.HasPrefix(id, "V") || len(id) < 5 {
		t.Fatalf("unexpected vehicle id %s", id)
	}
}
