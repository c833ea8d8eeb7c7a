package reports

import (
	"context"
	"net/http"
	"time"

	"parkhub/db"
	"parkhub/models"
	"parkhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Window is the half-open reporting interval [From, To).
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// windowFromRequest reads from/to query params (RFC 3339). Defaults:
// to = now, from = to minus 30 days.
func windowFromRequest(r *http.Request) Window {
	to := time.Now()
	if raw := r.URL.Query().Get("to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			to = t
		}
	}
	from := to.Add(-30 * 24 * time.Hour)
	if raw := r.URL.Query().Get("from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			from = t
		}
	}
	return Window{From: from, To: to}
}

// ClipMinutes restricts one session to the window and returns the
// minutes it contributes. A nil end means the session is still open and
// is treated as ending at the window's upper bound.
func ClipMinutes(start time.Time, end *time.Time, win Window) float64 {
	effStart := start
	if effStart.Before(win.From) {
		effStart = win.From
	}
	effEnd := win.To
	if end != nil && end.Before(win.To) {
		effEnd = *end
	}
	mins := effEnd.Sub(effStart).Minutes()
	if mins < 0 {
		return 0
	}
	return mins
}

// intervalPipeline builds the shared clipping pipeline over an interval
// collection: startField is the opening timestamp, endField the nullable
// closing one.
func intervalPipeline(startField, endField string, win Window) mongo.Pipeline {
	start := "$" + startField
	end := "$" + endField
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$expr": bson.M{"$and": bson.A{
			bson.M{"$lt": bson.A{start, win.To}},
			bson.M{"$or": bson.A{
				bson.M{"$eq": bson.A{end, nil}},
				bson.M{"$gte": bson.A{end, win.From}},
			}},
		}}}}},
		{{Key: "$project", Value: bson.M{
			"slot": 1,
			"start": bson.M{"$cond": bson.A{
				bson.M{"$lt": bson.A{start, win.From}}, win.From, start,
			}},
			"end": bson.M{"$cond": bson.A{
				bson.M{"$or": bson.A{
					bson.M{"$eq": bson.A{end, nil}},
					bson.M{"$gt": bson.A{end, win.To}},
				}}, win.To, end,
			}},
		}}},
		{{Key: "$project", Value: bson.M{
			"slot": 1,
			"minutes": bson.M{"$max": bson.A{0, bson.M{"$divide": bson.A{
				bson.M{"$subtract": bson.A{"$end", "$start"}}, 60000,
			}}}},
		}}},
	}
}

func fetchUsageReport(ctx context.Context, win Window) ([]models.UsageReportRow, error) {
	pipeline := intervalPipeline("checkIn", "checkOut", win)
	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.M{
			"_id":      "$slot",
			"minutes":  bson.M{"$sum": "$minutes"},
			"sessions": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": "parkingslots", "localField": "_id",
			"foreignField": "_id", "as": "slot",
		}}},
		bson.D{{Key: "$unwind", Value: "$slot"}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":      0,
			"slotId":   "$slot.slotId",
			"sessions": 1,
			"minutes":  bson.M{"$round": bson.A{"$minutes", 0}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "slotId", Value: 1}}}},
	)

	cur, err := db.SlotUsageCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	rows := []models.UsageReportRow{}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func fetchMaintenanceReport(ctx context.Context, win Window) ([]models.MaintenanceReportRow, error) {
	pipeline := intervalPipeline("startAt", "endAt", win)
	pipeline = append(pipeline,
		bson.D{{Key: "$group", Value: bson.M{
			"_id":          "$slot",
			"downtimeMins": bson.M{"$sum": "$minutes"},
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": "parkingslots", "localField": "_id",
			"foreignField": "_id", "as": "slot",
		}}},
		bson.D{{Key: "$unwind", Value: "$slot"}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":          0,
			"slotId":       "$slot.slotId",
			"downtimeMins": bson.M{"$round": bson.A{"$downtimeMins", 0}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "slotId", Value: 1}}}},
	)

	cur, err := db.MaintenanceCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	rows := []models.MaintenanceReportRow{}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Usage handles GET /api/reports/usage?from=&to=
func Usage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	win := windowFromRequest(r)
	rows, err := fetchUsageReport(ctx, win)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"from": win.From, "to": win.To, "data": rows,
	})
}

// Maintenance handles GET /api/reports/maintenance?from=&to=
func Maintenance(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	win := windowFromRequest(r)
	rows, err := fetchMaintenanceReport(ctx, win)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"from": win.From, "to": win.To, "data": rows,
	})
}
