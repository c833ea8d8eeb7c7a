package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Slot statuses
const (
	StatusAvailable   = "available"
	StatusOccupied    = "occupied"
	StatusMaintenance = "maintenance"
)

// ParkingSlot is one physical parking space tracked by status.
type ParkingSlot struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SlotID      string             `bson:"slotId" json:"slotId"`
	Location    string             `bson:"location" json:"location"`
	Floor       string             `bson:"floor,omitempty" json:"floor,omitempty"`
	Section     string             `bson:"section,omitempty" json:"section,omitempty"`
	Status      string             `bson:"status" json:"status"`
	Price       float64            `bson:"price" json:"price"`
	LastUpdated time.Time          `bson:"lastUpdated" json:"lastUpdated"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SlotUsage is one occupancy interval for a slot. CheckOut == nil means
// the session is still open.
type SlotUsage struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slot         primitive.ObjectID `bson:"slot" json:"slot"`
	CheckIn      time.Time          `bson:"checkIn" json:"checkIn"`
	CheckOut     *time.Time         `bson:"checkOut" json:"checkOut"`
	DurationMins *int               `bson:"durationMins" json:"durationMins"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// MaintenanceLog is one out-of-service interval for a slot. EndAt == nil
// means maintenance is ongoing.
type MaintenanceLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slot      primitive.ObjectID `bson:"slot" json:"slot"`
	StartAt   time.Time          `bson:"startAt" json:"startAt"`
	EndAt     *time.Time         `bson:"endAt" json:"endAt"`
	Note      string             `bson:"note" json:"note"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// SlotEvent is the payload broadcast after every successful slot
// mutation. Delivery is best-effort.
type SlotEvent struct {
	ID      string `json:"id"`
	SlotID  string `json:"slotId"`
	Status  string `json:"status,omitempty"`
	Action  string `json:"action"`
	Minutes int    `json:"minutes,omitempty"`
	LogID   string `json:"logId,omitempty"`
	Ts      int64  `json:"ts"`
}

// Vehicle is a gate-side record of a vehicle on the premises.
type Vehicle struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VehicleID     string             `bson:"vehicleID" json:"vehicleID"`
	VehicleNumber string             `bson:"vehicleNumber" json:"vehicleNumber"`
	VehicleType   string             `bson:"vehicleType" json:"vehicleType"`
	Date          string             `bson:"date" json:"date"`           // YYYY-MM-DD
	EntryTime     string             `bson:"entryTime" json:"entryTime"` // HH:MM:SS
	ExitTime      *string            `bson:"exitTime" json:"exitTime"`
	Duration      *float64           `bson:"duration" json:"duration"` // hours
	SlotID        *string            `bson:"slotID" json:"slotID"`
	RecordedBy    string             `bson:"recordedBy,omitempty" json:"recordedBy,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// Driver is a registered driver account. The driverId doubles as the
// document _id.
type Driver struct {
	ID        string    `bson:"_id" json:"id"`
	DriverID  string    `bson:"driverId" json:"driverId"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	NIC       string    `bson:"nic" json:"nic"`
	Password  string    `bson:"password" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Reservation statuses
const (
	ReservationActive    = "active"
	ReservationCompleted = "completed"
	ReservationCancelled = "cancelled"
)

type Reservation struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReservationID string             `bson:"reservationId" json:"reservationId"`
	DriverID      string             `bson:"driverId" json:"driverId"`
	ParkingSlotID primitive.ObjectID `bson:"parkingSlotId" json:"parkingSlotId"`
	EntryTime     time.Time          `bson:"entryTime" json:"entryTime"`
	ExitTime      time.Time          `bson:"exitTime" json:"exitTime"`
	ReservedDate  time.Time          `bson:"reservedDate" json:"reservedDate"`
	Status        string             `bson:"status" json:"status"`
	ContactNumber string             `bson:"contactNumber" json:"contactNumber"`
	VehicleNumber string             `bson:"vehicleNumber" json:"vehicleNumber"`
	VehicleType   string             `bson:"vehicleType" json:"vehicleType"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// Payment is a flat ledger row; no computation beyond sum of fields.
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PaymentID     string             `bson:"paymentID" json:"paymentID"`
	Amount        float64            `bson:"amount" json:"amount"`
	ExtraAmount   float64            `bson:"extraAmount" json:"extraAmount"`
	Total         float64            `bson:"total" json:"total"`
	PaymentMethod string             `bson:"paymentMethod" json:"paymentMethod"`
	Date          time.Time          `bson:"date" json:"date"`
	Status        string             `bson:"status" json:"status"`
}

type Rate struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RateID      string             `bson:"rateID" json:"rateID"`
	VehicleType string             `bson:"vehicleType" json:"vehicleType"`
	Rate        float64            `bson:"rate" json:"rate"` // per hour
}

type Refund struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RefundID      string             `bson:"refundID" json:"refundID"`
	Reason        string             `bson:"reason" json:"reason"`
	Date          time.Time          `bson:"date" json:"date"`
	Amount        float64            `bson:"amount" json:"amount"`
	CompanyAmount float64            `bson:"companyAmount" json:"companyAmount"`
	Status        string             `bson:"status" json:"status"`
}

type ExtraCharge struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ExtraRateID string             `bson:"extrarateID" json:"extrarateID"`
	VehicleType string             `bson:"vehicleType" json:"vehicleType"`
	ExtraRate   float64            `bson:"extrarate" json:"extrarate"`
}

// Hardware is a tracked device: camera, barrier, sensor.
type Hardware struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HardwareID string             `bson:"hardwareID" json:"hardwareID"`
	Type       string             `bson:"type" json:"type"`
	Status     string             `bson:"status" json:"status"`
	Location   *string            `bson:"location" json:"location"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// User is an API account (admin or driver role).
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userid" json:"userid"`
	Username  string             `bson:"username" json:"username"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	Role      string             `bson:"role" json:"role"`
	LastLogin time.Time          `bson:"last_login" json:"lastLogin"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// UsageReportRow is one line of the usage report, keyed by slot code.
type UsageReportRow struct {
	SlotID   string  `bson:"slotId" json:"slotId"`
	Sessions int     `bson:"sessions" json:"sessions"`
	Minutes  float64 `bson:"minutes" json:"minutes"`
}

// MaintenanceReportRow is one line of the downtime report.
type MaintenanceReportRow struct {
	SlotID       string  `bson:"slotId" json:"slotId"`
	DowntimeMins float64 `bson:"downtimeMins" json:"downtimeMins"`
}
