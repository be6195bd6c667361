package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	supplierserrors "travelwindow/internal/suppliers/errors"
	"travelwindow/pkg/config"
	"travelwindow/pkg/model"
)

const (
	CollectionName = "Suppliers"
)

type mongoSupplierRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type SupplierRepository interface {
	Create(ctx context.Context, supplier *model.Supplier) error
	FindByID(ctx context.Context, id string) (*model.Supplier, error)
	FindByName(ctx context.Context, name string) (*model.Supplier, error)
	FindAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Supplier, error)
	Count(ctx context.Context, activeOnly bool) (int64, error)
	Update(ctx context.Context, id string, supplier *model.Supplier) error
	Deactivate(ctx context.Context, id string) error
}

func NewMongoSupplierRepository(cfg *config.Config) SupplierRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSupplierRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoSupplierRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoSupplierRepository) Create(ctx context.Context, supplier *model.Supplier) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	supplier.CreatedAt = now
	supplier.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, supplier)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", supplierserrors.ErrDuplicateName, supplier.Name)
		}
		return fmt.Errorf("failed to create supplier: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		supplier.ID = oid.Hex()
	}
	return nil
}

func (r *mongoSupplierRepository) FindByID(ctx context.Context, id string) (*model.Supplier, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", supplierserrors.ErrInvalidID, id)
	}

	var supplier model.Supplier
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&supplier)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, supplierserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find supplier: %w", err)
	}

	return &supplier, nil
}

// FindByName matches case-insensitively via the same collation as the
// unique name index.
func (r *mongoSupplierRepository) FindByName(ctx context.Context, name string) (*model.Supplier, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.FindOne().SetCollation(&options.Collation{Locale: "en", Strength: 2})

	var supplier model.Supplier
	err := r.collection.FindOne(ctx, bson.M{"name": name}, opts).Decode(&supplier)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, supplierserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find supplier by name: %w", err)
	}

	return &supplier, nil
}

func (r *mongoSupplierRepository) FindAll(ctx context.Context, activeOnly bool, limit int, offset int64) ([]*model.Supplier, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find suppliers: %w", err)
	}
	defer cursor.Close(ctx)

	var suppliers []*model.Supplier
	if err = cursor.All(ctx, &suppliers); err != nil {
		return nil, fmt.Errorf("failed to decode suppliers: %w", err)
	}

	return suppliers, nil
}

func (r *mongoSupplierRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count suppliers: %w", err)
	}

	return count, nil
}

func (r *mongoSupplierRepository) Update(ctx context.Context, id string, supplier *model.Supplier) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", supplierserrors.ErrInvalidID, id)
	}

	supplier.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	update := bson.M{
		"$set": bson.M{
			"name":                supplier.Name,
			"isActive":            supplier.IsActive,
			"isOutsourcedChannel": supplier.IsOutsourcedChannel,
			"updatedAt":           supplier.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", supplierserrors.ErrDuplicateName, supplier.Name)
		}
		return fmt.Errorf("failed to update supplier: %w", err)
	}

	if result.MatchedCount == 0 {
		return supplierserrors.ErrNotFound
	}

	return nil
}

// Deactivate clears isActive instead of removing the document.
// Bookings keep referencing the supplier id.
func (r *mongoSupplierRepository) Deactivate(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", supplierserrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{
		"isActive":  false,
		"updatedAt": time.Now().UTC().Truncate(time.Millisecond),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to deactivate supplier: %w", err)
	}

	if result.MatchedCount == 0 {
		return supplierserrors.ErrNotFound
	}

	return nil
}
