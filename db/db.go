package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	SlotsCollection        *mongo.Collection
	SlotUsageCollection    *mongo.Collection
	MaintenanceCollection  *mongo.Collection
	VehiclesCollection     *mongo.Collection
	DriversCollection      *mongo.Collection
	ReservationsCollection *mongo.Collection
	PaymentsCollection     *mongo.Collection
	RatesCollection        *mongo.Collection
	RefundsCollection      *mongo.Collection
	ExtraChargesCollection *mongo.Collection
	HardwareCollection     *mongo.Collection
	UsersCollection        *mongo.Collection
	Client                 *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	mongoURL := os.Getenv("MONGO_URL")
	if mongoURL == "" {
		mongoURL = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(mongoURL)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("parkhub")
	SlotsCollection = database.Collection("parkingslots")
	SlotUsageCollection = database.Collection("slotusages")
	MaintenanceCollection = database.Collection("maintenancelogs")
	VehiclesCollection = database.Collection("vehicles")
	DriversCollection = database.Collection("drivers")
	ReservationsCollection = database.Collection("reservations")
	PaymentsCollection = database.Collection("payments")
	RatesCollection = database.Collection("rates")
	RefundsCollection = database.Collection("refunds")
	ExtraChargesCollection = database.Collection("extracharges")
	HardwareCollection = database.Collection("systemhardware")
	UsersCollection = database.Collection("users")

	EnsureIndexes(context.TODO())
}

// EnsureIndexes creates the indexes the slot subsystem relies on: the
// unique slot code, and (slot, checkOut) / (slot, endAt) used to find
// the single open ledger entry per slot.
func EnsureIndexes(ctx context.Context) {
	if _, err := SlotsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slotId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		log.Printf("slotId index: %v", err)
	}

	if _, err := SlotUsageCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "slot", Value: 1}, {Key: "checkOut", Value: 1}},
	}); err != nil {
		log.Printf("slot usage index: %v", err)
	}

	if _, err := MaintenanceCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "slot", Value: 1}, {Key: "endAt", Value: 1}},
	}); err != nil {
		log.Printf("maintenance index: %v", err)
	}

	if _, err := DriversCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		log.Printf("driver email index: %v", err)
	}
}
