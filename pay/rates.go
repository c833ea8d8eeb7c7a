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

// ListRates handles GET /api/rates
func ListRates(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.RatesCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cur.Close(ctx)

	list := []models.Rate{}
	if err := cur.All(ctx, &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"rates": list})
}

// AddRate handles POST /api/rates
func AddRate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var rate models.Rate
	if err := json.NewDecoder(r.Body).Decode(&rate); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if rate.VehicleType == "" || rate.Rate <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "vehicleType and a positive rate are required")
		return
	}
	if rate.RateID == "" {
		rate.RateID = "R" + utils.GenerateRandomDigitString(8)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.RatesCollection.InsertOne(ctx, rate)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "unable to add rate")
		return
	}
	rate.ID = res.InsertedID.(primitive.ObjectID)
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"rate": rate})
}

// UpdateRate handles PUT /api/rates/:id
func UpdateRate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		VehicleType *string  `json:"vehicleType"`
		Rate        *float64 `json:"rate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	set := bson.M{}
	if body.VehicleType != nil {
		set["vehicleType"] = *body.VehicleType
	}
	if body.Rate != nil {
		set["rate"] = *body.Rate
	}
	if len(set) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	or := bson.A{bson.M{"rateID": ps.ByName("id")}}
	if oid, err := primitive.ObjectIDFromHex(ps.ByName("id")); err == nil {
		or = append(or, bson.M{"_id": oid})
	}

	var rate models.Rate
	err := db.RatesCollection.FindOneAndUpdate(ctx,
		bson.M{"$or": or},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&rate)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Rate not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"rate": rate})
}

// DeleteRate handles DELETE /api/rates/:id
func DeleteRate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	or := bson.A{bson.M{"rateID": ps.ByName("id")}}
	if oid, err := primitive.ObjectIDFromHex(ps.ByName("id")); err == nil {
		or = append(or, bson.M{"_id": oid})
	}

	res, err := db.RatesCollection.DeleteOne(ctx, bson.M{"$or": or})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Rate not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Deleted"})
}
