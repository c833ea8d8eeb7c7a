package reservations

import (
	"strings"
	"testing"
	"time"
)

func TestPassPayloadRoundTrip(t *testing.T) {
	payload := PassPayload("RES1700000000000AB12C", "665f1c2e8b3e4a0012345678", "d-42", time.Now().Unix())

	if !VerifyPassPayload(payload) {
		t.Fatal("freshly issued pass must verify")
	}
}

func TestPassPayloadTamper(t *testing.T) {
	payload := PassPayload("RES1700000000000AB12C", "665f1c2e8b3e4a0012345678", "d-42", 1700000000)

	tampered := strings.Replace(payload, "d-42", "d-99", 1)
	if VerifyPassPayload(tampered) {
		t.Fatal("tampered pass must not verify")
	}
}

func TestVerifyPassPayloadGarbage(t *testing.T) {
	if VerifyPassPayload("") {
		t.Fatal("empty payload must not verify")
	}
	if VerifyPassPayload("no-separator-here") {
		t.Fatal("payload without signature must not verify")
	}
}
