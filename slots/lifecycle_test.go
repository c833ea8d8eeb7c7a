package slots

import (
	"errors"
	"testing"

	"parkhub/models"
)

func TestNextStatusTransitions(t *testing.T) {
	cases := []struct {
		action  string
		current string
		want    string
		wantErr bool
	}{
		{ActionCheckIn, models.StatusAvailable, models.StatusOccupied, false},
		{ActionCheckIn, models.StatusOccupied, "", true},
		{ActionCheckIn, models.StatusMaintenance, "", true},
		{ActionCheckOut, models.StatusOccupied, models.StatusAvailable, false},
		{ActionCheckOut, models.StatusAvailable, "", true},
		{ActionCheckOut, models.StatusMaintenance, "", true},
		{ActionMaintenanceStart, models.StatusAvailable, models.StatusMaintenance, false},
		{ActionMaintenanceStart, models.StatusMaintenance, models.StatusMaintenance, false},
		{ActionMaintenanceStart, models.StatusOccupied, "", true},
		{ActionMaintenanceEnd, models.StatusMaintenance, models.StatusAvailable, false},
		{ActionMaintenanceEnd, models.StatusAvailable, models.StatusAvailable, false},
	}

	for _, tc := range cases {
		got, err := NextStatus(tc.action, tc.current)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%s from %s: expected error, got %q", tc.action, tc.current, got)
				continue
			}
			var stateErr *StateError
			if !errors.As(err, &stateErr) {
				t.Errorf("%s from %s: expected StateError, got %T", tc.action, tc.current, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s from %s: unexpected error %v", tc.action, tc.current, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s from %s: got %q, want %q", tc.action, tc.current, got, tc.want)
		}
	}
}

func TestNextStatusMessages(t *testing.T) {
	_, err := NextStatus(ActionCheckIn, models.StatusOccupied)
	if err == nil || err.Error() != "Slot is occupied, cannot check-in" {
		t.Fatalf("unexpected message: %v", err)
	}

	_, err = NextStatus(ActionMaintenanceStart, models.StatusOccupied)
	if err == nil || err.Error() != "Cannot start maintenance while occupied" {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestNextStatusUnknownAction(t *testing.T) {
	_, err := NextStatus("vacuum", models.StatusAvailable)
	if err == nil {
		t.Fatal("expected error for unknown action")
	}
	var stateErr *StateError
	if errors.As(err, &stateErr) {
		t.Fatal("unknown action should not be a StateError")
	}
}
