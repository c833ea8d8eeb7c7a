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
)

// ListRefunds handles GET /api/refunds
func ListRefunds(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.RefundsCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cur.Close(ctx)

	list := []models.Refund{}
	if err := cur.All(ctx, &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"refunds": list})
}

// AddRefund handles POST /api/refunds
func AddRefund(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var refund models.Refund
	if err := json.NewDecoder(r.Body).Decode(&refund); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if refund.Reason == "" || refund.Amount <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "reason and a positive amount are required")
		return
	}
	if refund.RefundID == "" {
		refund.RefundID = "RF" + utils.GenerateRandomDigitString(8)
	}
	if refund.Date.IsZero() {
		refund.Date = time.Now()
	}
	if refund.Status == "" {
		refund.Status = "pending"
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.RefundsCollection.InsertOne(ctx, refund)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "unable to add refund")
		return
	}
	refund.ID = res.InsertedID.(primitive.ObjectID)
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"refund": refund})
}

// GetRefund handles GET /api/refunds/:id
func GetRefund(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	or := bson.A{bson.M{"refundID": ps.ByName("id")}}
	if oid, err := primitive.ObjectIDFromHex(ps.ByName("id")); err == nil {
		or = append(or, bson.M{"_id": oid})
	}

	var refund models.Refund
	err := db.RefundsCollection.FindOne(ctx, bson.M{"$or": or}).Decode(&refund)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Refund not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"refund": refund})
}

// DeleteRefund handles DELETE /api/refunds/:id
func DeleteRefund(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	or := bson.A{bson.M{"refundID": ps.ByName("id")}}
	if oid, err := primitive.ObjectIDFromHex(ps.ByName("id")); err == nil {
		or = append(or, bson.M{"_id": oid})
	}

	res, err := db.RefundsCollection.DeleteOne(ctx, bson.M{"$or": or})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Refund not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Deleted"})
}
