package reservations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"parkhub/db"
	"parkhub/models"
	"parkhub/slots"
	"parkhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create handles POST /api/reservations. The slot must be available and
// the driver registered; the slot is taken through the same lifecycle
// transition a gate check-in uses, so the usage ledger stays consistent.
func Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		DriverID      string    `json:"driverId"`
		ParkingSlotID string    `json:"parkingSlotId"`
		EntryTime     time.Time `json:"entryTime"`
		ExitTime      time.Time `json:"exitTime"`
		ContactNumber string    `json:"contactNumber"`
		VehicleNumber string    `json:"vehicleNumber"`
		VehicleType   string    `json:"vehicleType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.DriverID == "" || body.ParkingSlotID == "" || body.ContactNumber == "" || body.VehicleNumber == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "driverId, parkingSlotId, contactNumber and vehicleNumber are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	slot, err := slots.Resolve(ctx, body.ParkingSlotID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Parking slot not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	err = db.DriversCollection.FindOne(ctx, bson.M{"_id": body.DriverID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Driver not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if _, err := slots.DoCheckIn(ctx, slot); err != nil {
		var stateErr *slots.StateError
		if errors.As(err, &stateErr) {
			utils.RespondWithError(w, http.StatusBadRequest, "Parking slot is not available")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	reservation := models.Reservation{
		ReservationID: utils.GenerateReservationID(),
		DriverID:      body.DriverID,
		ParkingSlotID: slot.ID,
		EntryTime:     body.EntryTime,
		ExitTime:      body.ExitTime,
		ReservedDate:  time.Now(),
		Status:        models.ReservationActive,
		ContactNumber: body.ContactNumber,
		VehicleNumber: body.VehicleNumber,
		VehicleType:   body.VehicleType,
		CreatedAt:     time.Now(),
	}
	res, err := db.ReservationsCollection.InsertOne(ctx, reservation)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	reservation.ID = res.InsertedID.(primitive.ObjectID)

	utils.RespondWithJSON(w, http.StatusCreated, reservation)
}

// List handles GET /api/reservations
func List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	cur, err := db.ReservationsCollection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cur.Close(ctx)

	list := []models.Reservation{}
	if err := cur.All(ctx, &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// ListByDriver handles GET /api/drivers/:id/reservations
func ListByDriver(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.ReservationsCollection.Find(ctx,
		bson.M{"driverId": ps.ByName("id")},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cur.Close(ctx)

	list := []models.Reservation{}
	if err := cur.All(ctx, &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

func findByAnyID(ctx context.Context, id string) (*models.Reservation, error) {
	or := bson.A{bson.M{"reservationId": id}}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		or = append(or, bson.M{"_id": oid})
	}
	var reservation models.Reservation
	err := db.ReservationsCollection.FindOne(ctx, bson.M{"$or": or}).Decode(&reservation)
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// Update handles PUT /api/reservations/:id. Completing or cancelling an
// active reservation releases the slot through the lifecycle check-out.
func Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		EntryTime *time.Time `json:"entryTime"`
		ExitTime  *time.Time `json:"exitTime"`
		Status    *string    `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	reservation, err := findByAnyID(ctx, ps.ByName("id"))
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Reservation not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	set := bson.M{}
	if body.EntryTime != nil {
		set["entryTime"] = *body.EntryTime
	}
	if body.ExitTime != nil {
		set["exitTime"] = *body.ExitTime
	}

	releasing := false
	if body.Status != nil {
		switch *body.Status {
		case models.ReservationActive, models.ReservationCompleted, models.ReservationCancelled:
			set["status"] = *body.Status
			releasing = *body.Status != models.ReservationActive &&
				reservation.Status == models.ReservationActive
		default:
			utils.RespondWithError(w, http.StatusBadRequest, "invalid status")
			return
		}
	}
	if len(set) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	err = db.ReservationsCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": reservation.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(reservation)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if releasing {
		if slot, err := slots.Resolve(ctx, reservation.ParkingSlotID.Hex()); err == nil {
			if _, err := slots.DoCheckOut(ctx, slot); err != nil {
				// slot may already have been released at the gate
				var stateErr *slots.StateError
				if !errors.As(err, &stateErr) && !errors.Is(err, slots.ErrNoOpenSession) {
					utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
					return
				}
			}
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, reservation)
}

// Delete handles DELETE /api/reservations/:id
func Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	reservation, err := findByAnyID(ctx, ps.ByName("id"))
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Reservation not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if _, err := db.ReservationsCollection.DeleteOne(ctx, bson.M{"_id": reservation.ID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Deleted"})
}
