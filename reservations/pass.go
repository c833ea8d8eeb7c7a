package reservations

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"parkhub/globals"
	"parkhub/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/mongo"
)

// PassPayload returns the signed payload encoded into a reservation's
// gate pass: reservationId|slotId|driverId|timestamp|signature.
func PassPayload(reservationID, slotID, driverID string, issuedAt int64) string {
	data := fmt.Sprintf("%s|%s|%s|%d", reservationID, slotID, driverID, issuedAt)

	h := hmac.New(sha256.New, globals.JwtSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))

	return fmt.Sprintf("%s|%s", data, sig)
}

// VerifyPassPayload checks the signature on a scanned pass payload.
func VerifyPassPayload(payload string) bool {
	idx := strings.LastIndex(payload, "|")
	if idx < 0 {
		return false
	}
	data, sig := payload[:idx], payload[idx+1:]

	h := hmac.New(sha256.New, globals.JwtSecret)
	h.Write([]byte(data))
	expected := base64.StdEncoding.EncodeToString(h.Sum(nil))

	return hmac.Equal([]byte(sig), []byte(expected))
}

// Pass handles GET /api/reservations/:id/pass and returns a QR code PNG
// the driver presents at the gate.
func Pass(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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

	payload := PassPayload(reservation.ReservationID,
		reservation.ParkingSlotID.Hex(), reservation.DriverID, time.Now().Unix())

	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// VerifyPass handles POST /api/reservations/verify-pass with a scanned
// payload in the body.
func VerifyPass(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Payload string `json:"payload"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Payload == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "payload is required")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"valid": VerifyPassPayload(body.Payload),
	})
}
