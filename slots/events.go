package slots

import (
	"time"

	"parkhub/globals"
	"parkhub/models"
	"parkhub/mq"
)

// publish is swappable in tests.
var publish = mq.Emit

// emitEvent publishes one event for a successful slot mutation. It is
// fire-and-forget: the Redis fan-out happens off the request goroutine
// and a dead transport never fails the caller.
func emitEvent(event models.SlotEvent) {
	event.Ts = time.Now().UnixMilli()
	go publish(globals.Ctx, event)
}

// transitionEvent builds the single event a successful lifecycle
// transition emits.
func transitionEvent(action string, slot *models.ParkingSlot, usage *models.SlotUsage, logEntry *models.MaintenanceLog) models.SlotEvent {
	event := models.SlotEvent{ID: slot.ID.Hex(), SlotID: slot.SlotID, Action: action}
	switch action {
	case ActionCheckIn:
		event.Status = models.StatusOccupied
	case ActionCheckOut:
		event.Status = models.StatusAvailable
		if usage != nil && usage.DurationMins != nil {
			event.Minutes = *usage.DurationMins
		}
	case ActionMaintenanceStart:
		event.Status = models.StatusMaintenance
		if logEntry != nil {
			event.LogID = logEntry.ID.Hex()
		}
	case ActionMaintenanceEnd:
		event.Status = models.StatusAvailable
		if logEntry != nil {
			event.LogID = logEntry.ID.Hex()
		}
	}
	return event
}
