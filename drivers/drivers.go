package drivers

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
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// CreateDriver handles POST /api/drivers
func CreateDriver(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		DriverID string `json:"driverId"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		NIC      string `json:"nic"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.DriverID == "" || body.Name == "" || body.Email == "" || body.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "driverId, name, email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := db.DriversCollection.FindOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": body.Email},
		bson.M{"driverId": body.DriverID},
		bson.M{"nic": body.NIC},
	}}).Err()
	if err == nil {
		utils.RespondWithError(w, http.StatusConflict, "Driver with this email, driver ID, or NIC already exists")
		return
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	driver := models.Driver{
		ID:        body.DriverID,
		DriverID:  body.DriverID,
		Name:      body.Name,
		Email:     body.Email,
		NIC:       body.NIC,
		Password:  string(hashed),
		CreatedAt: time.Now(),
	}
	if _, err := db.DriversCollection.InsertOne(ctx, driver); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusConflict, "Driver already exists")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, driver)
}

// ListDrivers handles GET /api/drivers
func ListDrivers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.DriversCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer cur.Close(ctx)

	list := []models.Driver{}
	if err := cur.All(ctx, &list); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GetDriver handles GET /api/drivers/:id
func GetDriver(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var driver models.Driver
	err := db.DriversCollection.FindOne(ctx, bson.M{"_id": ps.ByName("id")}).Decode(&driver)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Driver not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, driver)
}

// UpdateDriver handles PUT /api/drivers/:id
func UpdateDriver(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
		NIC   *string `json:"nic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	set := bson.M{}
	if body.Name != nil {
		set["name"] = *body.Name
	}
	if body.Email != nil {
		set["email"] = *body.Email
	}
	if body.NIC != nil {
		set["nic"] = *body.NIC
	}
	if len(set) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var driver models.Driver
	err := db.DriversCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": ps.ByName("id")},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&driver)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Driver not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, driver)
}

// DeleteDriver handles DELETE /api/drivers/:id
func DeleteDriver(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.DriversCollection.DeleteOne(ctx, bson.M{"_id": ps.ByName("id")})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Driver not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Deleted"})
}
