package pay

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

// ListExtraCharges handles GET /api/extracharges
func ListExtraCharges(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.ExtraChargesCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cur.Close(ctx)

	list := []models.ExtraCharge{}
	if err := cur.All(ctx, &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"extraCharges": list})
}

// AddExtraCharge handles POST /api/extracharges
func AddExtraCharge(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var charge models.ExtraCharge
	if err := json.NewDecoder(r.Body).Decode(&charge); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if charge.VehicleType == "" || charge.ExtraRate <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "vehicleType and a positive extrarate are required")
		return
	}
	if charge.ExtraRateID == "" {
		charge.ExtraRateID = "E" + utils.GenerateRandomDigitString(8)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ExtraChargesCollection.InsertOne(ctx, charge)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "unable to add extra charge")
		return
	}
	charge.ID = res.InsertedID.(primitive.ObjectID)
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"extraCharge": charge})
}

// UpdateExtraCharge handles PUT /api/extracharges/:id
func UpdateExtraCharge(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		VehicleType *string  `json:"vehicleType"`
		ExtraRate   *float64 `json:"extrarate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	set := bson.M{}
	if body.VehicleType != nil {
		set["vehicleType"] = *body.VehicleType
	}
	if body.ExtraRate != nil {
		set["extrarate"] = *body.ExtraRate
	}
	if len(set) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	or := bson.A{bson.M{"extrarateID": ps.ByName("id")}}
	if oid, err := primitive.ObjectIDFromHex(ps.ByName("id")); err == nil {
		or = append(or, bson.M{"_id": oid})
	}

	var charge models.ExtraCharge
	err := db.ExtraChargesCollection.FindOneAndUpdate(ctx,
		bson.M{"$or": or},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&charge)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Extra charge not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"extraCharge": charge})
}

// DeleteExtraCharge handles DELETE /api/extracharges/:id
func DeleteExtraCharge(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	or := bson.A{bson.M{"extrarateID": ps.ByName("id")}}
	if oid, err := primitive.ObjectIDFromHex(ps.ByName("id")); err == nil {
		or = append(or, bson.M{"_id": oid})
	}

	res, err := db.ExtraChargesCollection.DeleteOne(ctx, bson.M{"$or": or})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Extra charge not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Deleted"})
}
