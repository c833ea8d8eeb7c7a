package slots

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"

	"parkhub/db"
	"parkhub/models"
	"parkhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DurationMins converts an occupancy interval to whole minutes, rounded,
// floored at 1. A drive-through visit still bills one minute.
func DurationMins(checkIn, checkOut time.Time) int {
	mins := int(math.Round(float64(checkOut.Sub(checkIn)) / float64(time.Minute)))
	if mins < 1 {
		return 1
	}
	return mins
}

func openUsage(ctx context.Context, slotID primitive.ObjectID) (*models.SlotUsage, error) {
	usage := models.SlotUsage{
		Slot:      slotID,
		CheckIn:   time.Now(),
		CreatedAt: time.Now(),
	}
	res, err := db.SlotUsageCollection.InsertOne(ctx, usage)
	if err != nil {
		return nil, err
	}
	usage.ID = res.InsertedID.(primitive.ObjectID)
	return &usage, nil
}

// closeOpenUsage stamps the slot's open session (most recent check-in
// first) and computes its duration.
func closeOpenUsage(ctx context.Context, slotID primitive.ObjectID, now time.Time) (*models.SlotUsage, error) {
	var usage models.SlotUsage
	err := db.SlotUsageCollection.FindOne(ctx,
		bson.M{"slot": slotID, "checkOut": nil},
		options.FindOne().SetSort(bson.D{{Key: "checkIn", Value: -1}}),
	).Decode(&usage)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoOpenSession
	}
	if err != nil {
		return nil, err
	}

	mins := DurationMins(usage.CheckIn, now)
	_, err = db.SlotUsageCollection.UpdateByID(ctx, usage.ID, bson.M{
		"$set": bson.M{"checkOut": now, "durationMins": mins},
	})
	if err != nil {
		return nil, err
	}
	usage.CheckOut = &now
	usage.DurationMins = &mins
	return &usage, nil
}

func openMaintenance(ctx context.Context, slotID primitive.ObjectID, note string) (*models.MaintenanceLog, error) {
	logEntry := models.MaintenanceLog{
		Slot:      slotID,
		StartAt:   time.Now(),
		Note:      note,
		CreatedAt: time.Now(),
	}
	res, err := db.MaintenanceCollection.InsertOne(ctx, logEntry)
	if err != nil {
		return nil, err
	}
	logEntry.ID = res.InsertedID.(primitive.ObjectID)
	return &logEntry, nil
}

func closeOpenMaintenance(ctx context.Context, slotID primitive.ObjectID, now time.Time) (*models.MaintenanceLog, error) {
	var logEntry models.MaintenanceLog
	err := db.MaintenanceCollection.FindOne(ctx,
		bson.M{"slot": slotID, "endAt": nil},
		options.FindOne().SetSort(bson.D{{Key: "startAt", Value: -1}}),
	).Decode(&logEntry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoOpenLog
	}
	if err != nil {
		return nil, err
	}

	_, err = db.MaintenanceCollection.UpdateByID(ctx, logEntry.ID, bson.M{
		"$set": bson.M{"endAt": now},
	})
	if err != nil {
		return nil, err
	}
	logEntry.EndAt = &now
	return &logEntry, nil
}

// hasOpenEntries reports whether the slot has an open usage session or
// maintenance log. Used to refuse deleting a slot mid-lifecycle.
func hasOpenEntries(ctx context.Context, slotID primitive.ObjectID) (bool, error) {
	n, err := db.SlotUsageCollection.CountDocuments(ctx, bson.M{"slot": slotID, "checkOut": nil})
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}
	n, err = db.MaintenanceCollection.CountDocuments(ctx, bson.M{"slot": slotID, "endAt": nil})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ---------- history handlers ----------

// UsageHistory handles GET /api/slots/:id/usage
func UsageHistory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	slot, err := Resolve(ctx, ps.ByName("id"))
	if err != nil {
		respondResolveError(w, err)
		return
	}

	cur, err := db.SlotUsageCollection.Find(ctx,
		bson.M{"slot": slot.ID},
		options.Find().SetSort(bson.D{{Key: "checkIn", Value: -1}}),
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cur.Close(ctx)

	sessions := []models.SlotUsage{}
	if err := cur.All(ctx, &sessions); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, sessions)
}

// MaintenanceHistory handles GET /api/slots/:id/maintenance
func MaintenanceHistory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	slot, err := Resolve(ctx, ps.ByName("id"))
	if err != nil {
		respondResolveError(w, err)
		return
	}

	cur, err := db.MaintenanceCollection.Find(ctx,
		bson.M{"slot": slot.ID},
		options.Find().SetSort(bson.D{{Key: "startAt", Value: -1}}),
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cur.Close(ctx)

	logs := []models.MaintenanceLog{}
	if err := cur.All(ctx, &logs); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, logs)
}
