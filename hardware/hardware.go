package hardware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
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

func anyIDFilter(identifier string) bson.M {
	or := bson.A{bson.M{"hardwareID": identifier}}
	if oid, err := primitive.ObjectIDFromHex(identifier); err == nil {
		or = append(or, bson.M{"_id": oid})
	}
	return bson.M{"$or": or}
}

// Register handles POST /api/hardware
func Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var hw models.Hardware
	if err := json.NewDecoder(r.Body).Decode(&hw); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if hw.Type == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "type is required")
		return
	}
	if hw.HardwareID == "" {
		hw.HardwareID = "H" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	if hw.Status == "" {
		hw.Status = "ACTIVE"
	}
	hw.CreatedAt = time.Now()
	hw.UpdatedAt = hw.CreatedAt

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.HardwareCollection.InsertOne(ctx, hw)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "unable to register hardware")
		return
	}
	hw.ID = res.InsertedID.(primitive.ObjectID)
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"hardware": hw})
}

// List handles GET /api/hardware, optionally filtered by ?status=
func List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	cur, err := db.HardwareCollection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cur.Close(ctx)

	list := []models.Hardware{}
	if err := cur.All(ctx, &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"count": len(list), "hardware": list})
}

// Get handles GET /api/hardware/:id
func Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var hw models.Hardware
	err := db.HardwareCollection.FindOne(ctx, anyIDFilter(ps.ByName("id"))).Decode(&hw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Hardware not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"hardware": hw})
}

// Update handles PUT /api/hardware/:id
func Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Type     *string `json:"type"`
		Status   *string `json:"status"`
		Location *string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if body.Type != nil {
		set["type"] = *body.Type
	}
	if body.Status != nil {
		set["status"] = *body.Status
	}
	if body.Location != nil {
		set["location"] = *body.Location
	}
	if len(set) == 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var hw models.Hardware
	err := db.HardwareCollection.FindOneAndUpdate(ctx,
		anyIDFilter(ps.ByName("id")),
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&hw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Hardware not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"hardware": hw})
}

// Delete handles DELETE /api/hardware/:id
func Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.HardwareCollection.DeleteOne(ctx, anyIDFilter(ps.ByName("id")))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Hardware not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Deleted"})
}
