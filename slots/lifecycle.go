package slots

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"parkhub/db"
	"parkhub/models"
	"parkhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Lifecycle actions
const (
	ActionCheckIn          = "checkin"
	ActionCheckOut         = "checkout"
	ActionMaintenanceStart = "maintenanceStart"
	ActionMaintenanceEnd   = "maintenanceEnd"
)

var (
	ErrNoOpenSession = errors.New("No open usage session to close")
	ErrNoOpenLog     = errors.New("No open maintenance to end")
)

// StateError is returned when a transition is illegal from the slot's
// current status. It carries the human-readable refusal message.
type StateError struct {
	Status string
	msg    string
}

func (e *StateError) Error() string { return e.msg }

// NextStatus validates a lifecycle action against the current slot
// status and returns the status the slot moves to.
func NextStatus(action, current string) (string, error) {
	switch action {
	case ActionCheckIn:
		if current != models.StatusAvailable {
			return "", &StateError{Status: current, msg: fmt.Sprintf("Slot is %s, cannot check-in", current)}
		}
		return models.StatusOccupied, nil
	case ActionCheckOut:
		if current != models.StatusOccupied {
			return "", &StateError{Status: current, msg: fmt.Sprintf("Slot is %s, cannot check-out", current)}
		}
		return models.StatusAvailable, nil
	case ActionMaintenanceStart:
		if current == models.StatusOccupied {
			return "", &StateError{Status: current, msg: "Cannot start maintenance while occupied"}
		}
		return models.StatusMaintenance, nil
	case ActionMaintenanceEnd:
		return models.StatusAvailable, nil
	}
	return "", fmt.Errorf("unknown action %q", action)
}

func setSlotStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	_, err := db.SlotsCollection.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"status": status, "lastUpdated": time.Now(), "updatedAt": time.Now()},
	})
	return err
}

// DoCheckIn moves the slot from available to occupied and opens a usage
// session. Transitions on the same slot are serialized. Every caller
// (gate handler or reservation) gets the same event emitted on success.
func DoCheckIn(ctx context.Context, slot *models.ParkingSlot) (*models.SlotUsage, error) {
	lock := lockFor(slot.ID.Hex())
	lock.Lock()
	defer lock.Unlock()

	current, err := currentStatus(ctx, slot.ID)
	if err != nil {
		return nil, err
	}
	next, err := NextStatus(ActionCheckIn, current)
	if err != nil {
		return nil, err
	}

	if err := setSlotStatus(ctx, slot.ID, next); err != nil {
		return nil, err
	}
	usage, err := openUsage(ctx, slot.ID)
	if err != nil {
		return nil, err
	}

	emitEvent(transitionEvent(ActionCheckIn, slot, usage, nil))
	return usage, nil
}

// DoCheckOut closes the slot's open usage session and returns the slot
// to available.
func DoCheckOut(ctx context.Context, slot *models.ParkingSlot) (*models.SlotUsage, error) {
	lock := lockFor(slot.ID.Hex())
	lock.Lock()
	defer lock.Unlock()

	current, err := currentStatus(ctx, slot.ID)
	if err != nil {
		return nil, err
	}
	next, err := NextStatus(ActionCheckOut, current)
	if err != nil {
		return nil, err
	}

	usage, err := closeOpenUsage(ctx, slot.ID, time.Now())
	if err != nil {
		return nil, err
	}

	if err := setSlotStatus(ctx, slot.ID, next); err != nil {
		return nil, err
	}

	emitEvent(transitionEvent(ActionCheckOut, slot, usage, nil))
	return usage, nil
}

// DoMaintenanceStart moves the slot into maintenance and opens a log.
// Restarting while already in maintenance closes the earlier log first:
// the ledger keeps at most one open entry per slot.
func DoMaintenanceStart(ctx context.Context, slot *models.ParkingSlot, note string) (*models.MaintenanceLog, error) {
	lock := lockFor(slot.ID.Hex())
	lock.Lock()
	defer lock.Unlock()

	current, err := currentStatus(ctx, slot.ID)
	if err != nil {
		return nil, err
	}
	next, err := NextStatus(ActionMaintenanceStart, current)
	if err != nil {
		return nil, err
	}

	if _, err := closeOpenMaintenance(ctx, slot.ID, time.Now()); err != nil && !errors.Is(err, ErrNoOpenLog) {
		return nil, err
	}

	if err := setSlotStatus(ctx, slot.ID, next); err != nil {
		return nil, err
	}
	logEntry, err := openMaintenance(ctx, slot.ID, note)
	if err != nil {
		return nil, err
	}

	emitEvent(transitionEvent(ActionMaintenanceStart, slot, nil, logEntry))
	return logEntry, nil
}

// DoMaintenanceEnd closes the slot's open maintenance log and returns
// the slot to available.
func DoMaintenanceEnd(ctx context.Context, slot *models.ParkingSlot) (*models.MaintenanceLog, error) {
	lock := lockFor(slot.ID.Hex())
	lock.Lock()
	defer lock.Unlock()

	logEntry, err := closeOpenMaintenance(ctx, slot.ID, time.Now())
	if err != nil {
		return nil, err
	}

	if err := setSlotStatus(ctx, slot.ID, models.StatusAvailable); err != nil {
		return nil, err
	}

	emitEvent(transitionEvent(ActionMaintenanceEnd, slot, nil, logEntry))
	return logEntry, nil
}

func currentStatus(ctx context.Context, id primitive.ObjectID) (string, error) {
	var slot models.ParkingSlot
	err := db.SlotsCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&slot)
	if err != nil {
		return "", err
	}
	return slot.Status, nil
}

// ---------- HTTP handlers ----------

// CheckIn handles POST /api/slots/:id/checkin
func CheckIn(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	slot, err := Resolve(ctx, ps.ByName("id"))
	if err != nil {
		respondResolveError(w, err)
		return
	}

	if _, err := DoCheckIn(ctx, slot); err != nil {
		respondTransitionError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "Checked in", "slotId": slot.SlotID, "status": models.StatusOccupied,
	})
}

// CheckOut handles POST /api/slots/:id/checkout
func CheckOut(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	slot, err := Resolve(ctx, ps.ByName("id"))
	if err != nil {
		respondResolveError(w, err)
		return
	}

	usage, err := DoCheckOut(ctx, slot)
	if err != nil {
		respondTransitionError(w, err)
		return
	}

	minutes := 0
	if usage.DurationMins != nil {
		minutes = *usage.DurationMins
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "Checked out", "slotId": slot.SlotID, "minutes": minutes,
	})
}

// MaintenanceStart handles POST /api/slots/:id/maintenance/start
func MaintenanceStart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var body struct {
		Note string `json:"note"`
	}
	decodeOptionalBody(r, &body)

	slot, err := Resolve(ctx, ps.ByName("id"))
	if err != nil {
		respondResolveError(w, err)
		return
	}

	logEntry, err := DoMaintenanceStart(ctx, slot, body.Note)
	if err != nil {
		respondTransitionError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "Maintenance started", "slotId": slot.SlotID, "logId": logEntry.ID.Hex(),
	})
}

// MaintenanceEnd handles POST /api/slots/:id/maintenance/end
func MaintenanceEnd(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	slot, err := Resolve(ctx, ps.ByName("id"))
	if err != nil {
		respondResolveError(w, err)
		return
	}

	logEntry, err := DoMaintenanceEnd(ctx, slot)
	if err != nil {
		respondTransitionError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "Maintenance ended", "slotId": slot.SlotID, "logId": logEntry.ID.Hex(),
	})
}

func respondTransitionError(w http.ResponseWriter, err error) {
	var stateErr *StateError
	switch {
	case errors.As(err, &stateErr):
		utils.RespondWithError(w, http.StatusBadRequest, stateErr.Error())
	case errors.Is(err, ErrNoOpenSession), errors.Is(err, ErrNoOpenLog):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, mongo.ErrNoDocuments):
		utils.RespondWithError(w, http.StatusNotFound, "Slot not found")
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
	}
}
