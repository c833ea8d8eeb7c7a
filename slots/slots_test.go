package slots

import (
	"testing"

	"parkhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSummaryFromCounts(t *testing.T) {
	rows := []statusCount{
		{Status: models.StatusAvailable, Count: 3},
		{Status: models.StatusOccupied, Count: 2},
		{Status: models.StatusMaintenance, Count: 1},
	}
	got := summaryFromCounts(rows)
	if got[models.StatusAvailable] != 3 || got[models.StatusOccupied] != 2 || got[models.StatusMaintenance] != 1 {
		t.Fatalf("unexpected summary: %v", got)
	}
}

func TestSummaryFromCountsZeroDefaults(t *testing.T) {
	got := summaryFromCounts(nil)
	for _, status := range []string{models.StatusAvailable, models.StatusOccupied, models.StatusMaintenance} {
		if n, ok := got[status]; !ok || n != 0 {
			t.Errorf("expected %s to default to 0, got %d (present=%v)", status, n, ok)
		}
	}
}

func TestSummaryFromCountsIgnoresUnknownStatus(t *testing.T) {
	got := summaryFromCounts([]statusCount{{Status: "reserved", Count: 7}})
	if len(got) != 3 {
		t.Fatalf("unknown status leaked into summary: %v", got)
	}
}

func TestResolveFilterBySlotCode(t *testing.T) {
	filter := resolveFilter("A-12")
	or, ok := filter["$or"].(bson.A)
	if !ok {
		t.Fatalf("expected $or filter, got %v", filter)
	}
	if len(or) != 1 {
		t.Fatalf("non-hex identifier should only match slotId, got %d clauses", len(or))
	}
}

func TestResolveFilterByObjectID(t *testing.T) {
	oid := primitive.NewObjectID()
	filter := resolveFilter(oid.Hex())
	or, ok := filter["$or"].(bson.A)
	if !ok {
		t.Fatalf("expected $or filter, got %v", filter)
	}
	if len(or) != 2 {
		t.Fatalf("hex identifier should match slotId or _id, got %d clauses", len(or))
	}
}
