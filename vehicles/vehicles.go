package vehicles

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"parkhub/db"
	"parkhub/globals"
	"parkhub/models"
	"parkhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// anyIDFilter matches a vehicle by its vehicleID or its storage id.
func anyIDFilter(id string) bson.M {
	or := bson.A{bson.M{"vehicleID": id}}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		or = append(or, bson.M{"_id": oid})
	}
	return bson.M{"$or": or}
}

// Register handles POST /api/vehicles. Entry date/time are stamped
// automatically; exit fields are filled later at the counter. When a
// logged-in attendant registers the vehicle, their user id is recorded.
func Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		VehicleNumber string `json:"vehicleNumber"`
		VehicleType   string `json:"vehicleType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.VehicleNumber == "" || body.VehicleType == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Vehicle number and type are required")
		return
	}

	now := time.Now().UTC()
	vehicle := models.Vehicle{
		VehicleID:     utils.GenerateVehicleID(),
		VehicleNumber: body.VehicleNumber,
		VehicleType:   body.VehicleType,
		Date:          now.Format("2006-01-02"),
		EntryTime:     now.Format("15:04:05"),
		CreatedAt:     now,
	}
	if uid, ok := r.Context().Value(globals.UserIDKey).(string); ok && uid != "" {
		vehicle.RecordedBy = uid
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.VehiclesCollection.InsertOne(ctx, vehicle)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not save vehicle")
		return
	}
	vehicle.ID = res.InsertedID.(primitive.ObjectID)

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"message": "Vehicle added successfully", "vehicle": vehicle,
	})
}

// List handles GET /api/vehicles. Newest first.
func List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.VehiclesCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch vehicles")
		return
	}
	defer cur.Close(ctx)

	list := []models.Vehicle{}
	if err := cur.All(ctx, &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"count": len(list), "vehicles": list})
}

// Get handles GET /api/vehicles/:id (vehicleID or storage id).
func Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var vehicle models.Vehicle
	err := db.VehiclesCollection.FindOne(ctx, anyIDFilter(ps.ByName("id"))).Decode(&vehicle)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Vehicle not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"vehicle": vehicle})
}

// Update handles PUT /api/vehicles/:id
func Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		VehicleNumber *string `json:"vehicleNumber"`
		VehicleType   *string `json:"vehicleType"`
		SlotID        *string `json:"slotID"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	set := bson.M{}
	if body.VehicleNumber != nil {
		set["vehicleNumber"] = *body.VehicleNumber
	}
	if body.VehicleType != nil {
		set["vehicleType"] = *body.VehicleType
	}
	if body.SlotID != nil {
		set["slotID"] = *body.SlotID
	}
	if len(set) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var vehicle models.Vehicle
	err := db.VehiclesCollection.FindOneAndUpdate(ctx,
		anyIDFilter(ps.ByName("id")),
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&vehicle)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Vehicle not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"vehicle": vehicle})
}

// Exit handles POST /api/vehicles/:id/exit. Stamps the exit time and
// computes the stay duration in hours.
func Exit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var vehicle models.Vehicle
	err := db.VehiclesCollection.FindOne(ctx, anyIDFilter(ps.ByName("id"))).Decode(&vehicle)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Vehicle not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if vehicle.ExitTime != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Vehicle has already exited")
		return
	}

	now := time.Now().UTC()
	exitTime := now.Format("15:04:05")
	hours := StayHours(vehicle.Date, vehicle.EntryTime, now)

	_, err = db.VehiclesCollection.UpdateByID(ctx, vehicle.ID, bson.M{
		"$set": bson.M{"exitTime": exitTime, "duration": hours},
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	vehicle.ExitTime = &exitTime
	vehicle.Duration = &hours
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "Vehicle exited", "vehicle": vehicle,
	})
}

// StayHours computes the stay length in hours (two decimals) from the
// stored entry date/time strings. A parse failure yields zero.
func StayHours(date, entryTime string, exit time.Time) float64 {
	entry, err := time.Parse("2006-01-02 15:04:05", date+" "+entryTime)
	if err != nil {
		return 0
	}
	hours := exit.Sub(entry).Hours()
	if hours < 0 {
		return 0
	}
	return math.Round(hours*100) / 100
}

// Delete handles DELETE /api/vehicles/:id
func Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.VehiclesCollection.DeleteOne(ctx, anyIDFilter(ps.ByName("id")))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Vehicle not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Deleted"})
}
