package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"travelwindow/internal/migrations/mongo/validators"
)

const (
	DB_NAME = "travelwindow"
)

var (
	// Case-insensitive collation backs the PNR and supplier-name
	// uniqueness guarantees.
	caseInsensitive = options.Collation{Locale: "en", Strength: 2}

	BookingsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pnr", Value: 1}},
			Options: options.Index().SetUnique(true).SetCollation(&caseInsensitive),
		},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "dateOfSubmission", Value: -1}}},
		{Keys: bson.D{{Key: "supplier", Value: 1}}},
		{Keys: bson.D{{Key: "contactNumber", Value: 1}}},
		{Keys: bson.D{{Key: "travelDate", Value: 1}}},
		{Keys: bson.D{{Key: "submittedBy", Value: 1}}},
	}

	SuppliersIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetCollation(&caseInsensitive),
		},
		{Keys: bson.D{{Key: "isActive", Value: 1}}},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client) error {
	db := client.Database(DB_NAME)
	fmt.Printf("🚀 Running Travelwindow Mongo migrations on database: %s\n", DB_NAME)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Bookings": {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		"Suppliers": {
			Indexes:   SuppliersIndexes,
			Validator: validators.SupplierValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		fmt.Printf("ℹ️ Collection %s already exists — updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}
