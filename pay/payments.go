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

// ListPayments handles GET /api/payments
func ListPayments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.PaymentsCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cur.Close(ctx)

	list := []models.Payment{}
	if err := cur.All(ctx, &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"payments": list})
}

// AddPayment handles POST /api/payments
func AddPayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payment models.Payment
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if payment.PaymentID == "" {
		payment.PaymentID = "P" + utils.GenerateRandomDigitString(10)
	}
	if payment.Date.IsZero() {
		payment.Date = time.Now()
	}
	if payment.Total == 0 {
		payment.Total = payment.Amount + payment.ExtraAmount
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.PaymentsCollection.InsertOne(ctx, payment)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "unable to add payment")
		return
	}
	payment.ID = res.InsertedID.(primitive.ObjectID)
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"payment": payment})
}

// GetPayment handles GET /api/payments/:id
func GetPayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	or := bson.A{bson.M{"paymentID": ps.ByName("id")}}
	if oid, err := primitive.ObjectIDFromHex(ps.ByName("id")); err == nil {
		or = append(or, bson.M{"_id": oid})
	}

	var payment models.Payment
	err := db.PaymentsCollection.FindOne(ctx, bson.M{"$or": or}).Decode(&payment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Payment not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"payment": payment})
}

// CalculatePayment handles POST /api/payments/calculate. Looks up the
// vehicle's stay and the hourly rate for its type, plus any extra
// charge, and returns the amounts without recording anything.
func CalculatePayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		VehicleID string `json:"vehicleID"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.VehicleID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "vehicleID is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var vehicle models.Vehicle
	err := db.VehiclesCollection.FindOne(ctx, bson.M{"vehicleID": body.VehicleID}).Decode(&vehicle)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Vehicle not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if vehicle.Duration == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Vehicle has not exited yet")
		return
	}

	var rate models.Rate
	err = db.RatesCollection.FindOne(ctx, bson.M{"vehicleType": vehicle.VehicleType}).Decode(&rate)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "No rate for vehicle type")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	extra := 0.0
	var extraCharge models.ExtraCharge
	if err := db.ExtraChargesCollection.FindOne(ctx,
		bson.M{"vehicleType": vehicle.VehicleType}).Decode(&extraCharge); err == nil {
		extra = extraCharge.ExtraRate
	}

	amount := *vehicle.Duration * rate.Rate
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"vehicleID":   vehicle.VehicleID,
		"vehicleType": vehicle.VehicleType,
		"hours":       *vehicle.Duration,
		"amount":      amount,
		"extraAmount": extra,
		"total":       amount + extra,
	})
}

// DeletePayment handles DELETE /api/payments/:id
func DeletePayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	or := bson.A{bson.M{"paymentID": ps.ByName("id")}}
	if oid, err := primitive.ObjectIDFromHex(ps.ByName("id")); err == nil {
		or = append(or, bson.M{"_id": oid})
	}

	res, err := db.PaymentsCollection.DeleteOne(ctx, bson.M{"$or": or})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Payment not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Deleted"})
}
