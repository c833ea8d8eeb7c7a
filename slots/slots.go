package slots

import (
	"context"
	"encoding/json"
	"errors"
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

// Slot actions for create/update/delete events
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// resolveFilter matches a slot by its human code first, falling back to
// the storage id when the identifier parses as one.
func resolveFilter(identifier string) bson.M {
	or := bson.A{bson.M{"slotId": identifier}}
	if oid, err := primitive.ObjectIDFromHex(identifier); err == nil {
		or = append(or, bson.M{"_id": oid})
	}
	return bson.M{"$or": or}
}

// Resolve looks up a slot by slot code or object id.
func Resolve(ctx context.Context, identifier string) (*models.ParkingSlot, error) {
	var slot models.ParkingSlot
	err := db.SlotsCollection.FindOne(ctx, resolveFilter(identifier)).Decode(&slot)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func respondResolveError(w http.ResponseWriter, err error) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Slot not found")
		return
	}
	utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
}

func decodeOptionalBody(r *http.Request, v any) {
	if r.Body == nil {
		return
	}
	_ = json.NewDecoder(r.Body).Decode(v)
}

// CreateSlot handles POST /api/slots
func CreateSlot(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		SlotID   string  `json:"slotId"`
		Location string  `json:"location"`
		Floor    string  `json:"floor"`
		Section  string  `json:"section"`
		Price    float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.SlotID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "slotId is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := db.SlotsCollection.FindOne(ctx, bson.M{"slotId": body.SlotID}).Err()
	if err == nil {
		utils.RespondWithError(w, http.StatusConflict, "slotId already exists")
		return
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	now := time.Now()
	slot := models.ParkingSlot{
		SlotID:      body.SlotID,
		Location:    body.Location,
		Floor:       body.Floor,
		Section:     body.Section,
		Status:      models.StatusAvailable,
		Price:       body.Price,
		LastUpdated: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := db.SlotsCollection.InsertOne(ctx, slot)
	if err != nil {
		// the unique index backs up the pre-check under races
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusConflict, "slotId already exists")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	slot.ID = res.InsertedID.(primitive.ObjectID)

	emitEvent(models.SlotEvent{
		ID: slot.ID.Hex(), SlotID: slot.SlotID,
		Status: slot.Status, Action: ActionCreate,
	})
	utils.RespondWithJSON(w, http.StatusCreated, slot)
}

// ListSlots handles GET /api/slots?status=available
func ListSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	cur, err := db.SlotsCollection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "slotId", Value: 1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cur.Close(ctx)

	list := []models.ParkingSlot{}
	if err := cur.All(ctx, &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GetSlot handles GET /api/slots/:id
func GetSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	slot, err := Resolve(ctx, ps.ByName("id"))
	if err != nil {
		respondResolveError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, slot)
}

// UpdateSlot handles PUT /api/slots/:id. The slot code and status are
// not patchable here; status moves only through the lifecycle handlers.
func UpdateSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Location *string  `json:"location"`
		Floor    *string  `json:"floor"`
		Section  *string  `json:"section"`
		Price    *float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	set := bson.M{"lastUpdated": time.Now(), "updatedAt": time.Now()}
	if body.Location != nil {
		set["location"] = *body.Location
	}
	if body.Floor != nil {
		set["floor"] = *body.Floor
	}
	if body.Section != nil {
		set["section"] = *body.Section
	}
	if body.Price != nil {
		set["price"] = *body.Price
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var slot models.ParkingSlot
	err := db.SlotsCollection.FindOneAndUpdate(ctx,
		resolveFilter(ps.ByName("id")),
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&slot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Slot not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	emitEvent(models.SlotEvent{
		ID: slot.ID.Hex(), SlotID: slot.SlotID,
		Status: slot.Status, Action: ActionUpdate,
	})
	utils.RespondWithJSON(w, http.StatusOK, slot)
}

// DeleteSlot handles DELETE /api/slots/:id. A slot with an open usage
// session or maintenance log cannot be deleted; closed history is kept.
func DeleteSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	slot, err := Resolve(ctx, ps.ByName("id"))
	if err != nil {
		respondResolveError(w, err)
		return
	}

	open, err := hasOpenEntries(ctx, slot.ID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if open {
		utils.RespondWithError(w, http.StatusConflict, "Slot has an open session or maintenance log")
		return
	}

	if _, err := db.SlotsCollection.DeleteOne(ctx, bson.M{"_id": slot.ID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	emitEvent(models.SlotEvent{
		ID: slot.ID.Hex(), SlotID: slot.SlotID, Action: ActionDelete,
	})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "Deleted", "slotId": slot.SlotID, "id": slot.ID.Hex(),
	})
}

// Summary handles GET /api/slots-summary
func Summary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.SlotsCollection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cur.Close(ctx)

	var rows []statusCount
	if err := cur.All(ctx, &rows); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, summaryFromCounts(rows))
}

type statusCount struct {
	Status string `bson:"_id"`
	Count  int    `bson:"count"`
}

// summaryFromCounts shapes the grouped counts with zero defaults.
func summaryFromCounts(rows []statusCount) map[string]int {
	summary := map[string]int{
		models.StatusAvailable:   0,
		models.StatusOccupied:    0,
		models.StatusMaintenance: 0,
	}
	for _, row := range rows {
		if _, ok := summary[row.Status]; ok {
			summary[row.Status] = row.Count
		}
	}
	return summary
}
