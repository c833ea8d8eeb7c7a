package slots

import (
	"context"
	"strings"
	"testing"
	"time"

	"parkhub/db"
	"parkhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func captureEvents(t *testing.T) chan models.SlotEvent {
	t.Helper()
	ch := make(chan models.SlotEvent, 4)
	orig := publish
	publish = func(_ context.Context, e models.SlotEvent) { ch <- e }
	t.Cleanup(func() { publish = orig })
	return ch
}

func waitEvent(t *testing.T, ch chan models.SlotEvent) models.SlotEvent {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for slot event")
		return models.SlotEvent{}
	}
}

func TestTransitionEvent(t *testing.T) {
	slot := &models.ParkingSlot{ID: primitive.NewObjectID(), SlotID: "A-1"}
	mins := 42
	usage := &models.SlotUsage{ID: primitive.NewObjectID(), DurationMins: &mins}
	logEntry := &models.MaintenanceLog{ID: primitive.NewObjectID()}

	e := transitionEvent(ActionCheckIn, slot, nil, nil)
	if e.Status != models.StatusOccupied || e.Action != ActionCheckIn || e.SlotID != "A-1" {
		t.Fatalf("check-in event: %+v", e)
	}

	e = transitionEvent(ActionCheckOut, slot, usage, nil)
	if e.Status != models.StatusAvailable || e.Minutes != 42 {
		t.Fatalf("check-out event: %+v", e)
	}

	e = transitionEvent(ActionMaintenanceStart, slot, nil, logEntry)
	if e.Status != models.StatusMaintenance || e.LogID != logEntry.ID.Hex() {
		t.Fatalf("maintenance-start event: %+v", e)
	}

	e = transitionEvent(ActionMaintenanceEnd, slot, nil, logEntry)
	if e.Status != models.StatusAvailable || e.LogID != logEntry.ID.Hex() {
		t.Fatalf("maintenance-end event: %+v", e)
	}
}

// Reservations take and release slots through DoCheckIn/DoCheckOut
// directly, without going through the HTTP handlers, so the transitions
// themselves must emit.
func TestDoCheckInEmitsEvent(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("check-in", func(mt *mtest.T) {
		db.SlotsCollection = mt.Coll
		db.SlotUsageCollection = mt.Coll

		slot := &models.ParkingSlot{ID: primitive.NewObjectID(), SlotID: "A-1"}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "parkhub.parkingslots", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: slot.ID},
				{Key: "slotId", Value: "A-1"},
				{Key: "status", Value: models.StatusAvailable},
			}),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
		)

		events := captureEvents(mt.T)
		if _, err := DoCheckIn(context.Background(), slot); err != nil {
			mt.Fatalf("check-in: %v", err)
		}

		event := waitEvent(mt.T, events)
		if event.Action != ActionCheckIn || event.Status != models.StatusOccupied || event.SlotID != "A-1" {
			mt.Fatalf("unexpected event: %+v", event)
		}
	})
}

func TestDoCheckOutEmitsEventWithMinutes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("check-out", func(mt *mtest.T) {
		db.SlotsCollection = mt.Coll
		db.SlotUsageCollection = mt.Coll

		slot := &models.ParkingSlot{ID: primitive.NewObjectID(), SlotID: "A-1"}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "parkhub.parkingslots", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: slot.ID},
				{Key: "slotId", Value: "A-1"},
				{Key: "status", Value: models.StatusOccupied},
			}),
			mtest.CreateCursorResponse(0, "parkhub.slotusages", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "slot", Value: slot.ID},
				{Key: "checkIn", Value: primitive.NewDateTimeFromTime(time.Now().Add(-5 * time.Minute))},
				{Key: "checkOut", Value: nil},
			}),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
		)

		events := captureEvents(mt.T)
		usage, err := DoCheckOut(context.Background(), slot)
		if err != nil {
			mt.Fatalf("check-out: %v", err)
		}
		if usage.DurationMins == nil || *usage.DurationMins != 5 {
			mt.Fatalf("unexpected duration: %+v", usage.DurationMins)
		}

		event := waitEvent(mt.T, events)
		if event.Action != ActionCheckOut || event.Minutes != 5 {
			mt.Fatalf("unexpected event: %+v", event)
		}
	})
}

// Starting maintenance while already in maintenance closes the earlier
// log instead of leaving two open entries for the slot.
func TestDoMaintenanceStartClosesEarlierLog(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("restart", func(mt *mtest.T) {
		db.SlotsCollection = mt.Coll
		db.MaintenanceCollection = mt.Coll

		slot := &models.ParkingSlot{ID: primitive.NewObjectID(), SlotID: "A-1"}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "parkhub.parkingslots", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: slot.ID},
				{Key: "slotId", Value: "A-1"},
				{Key: "status", Value: models.StatusMaintenance},
			}),
			mtest.CreateCursorResponse(0, "parkhub.maintenancelogs", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "slot", Value: slot.ID},
				{Key: "startAt", Value: primitive.NewDateTimeFromTime(time.Now().Add(-time.Hour))},
				{Key: "endAt", Value: nil},
			}),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(),
		)

		events := captureEvents(mt.T)
		if _, err := DoMaintenanceStart(context.Background(), slot, "pump swap"); err != nil {
			mt.Fatalf("maintenance start: %v", err)
		}

		event := waitEvent(mt.T, events)
		if event.Action != ActionMaintenanceStart {
			mt.Fatalf("unexpected event: %+v", event)
		}

		sawClose := false
		for {
			evt := mt.GetStartedEvent()
			if evt == nil {
				break
			}
			if evt.CommandName == "update" && strings.Contains(evt.Command.String(), "endAt") {
				sawClose = true
			}
		}
		if !sawClose {
			mt.Fatal("earlier open log was never closed")
		}
	})
}
