package utils

import (
	rndm "math/rand"
	"strconv"
	"strings"
	"time"
)

// --- Random String and ID Generators ---

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789_ABCDEFGHIJKLMNOPQRSTUVWXYZ")
var digitRunes = []rune("0123456789")

// GenerateRandomString creates a random alphanumeric string of length n.
func GenerateRandomString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

// GenerateRandomDigitString creates a random numeric string of length n.
func GenerateRandomDigitString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = digitRunes[rndm.Intn(len(digitRunes))]
	}
	return string(b)
}

// GenerateReservationID produces IDs like RES1700000000000AB12C.
func GenerateReservationID() string {
	return strings.ToUpper("RES" + strconv.FormatInt(time.Now().UnixMilli(), 10) + GenerateRandomString(5))
}

// GenerateVehicleID produces IDs like V1700000000000.
func GenerateVehicleID() string {
	return "V" + strconv.FormatInt(time.Now().UnixMilli(), 10)
}
