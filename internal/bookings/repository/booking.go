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

	bookingserrors "travelwindow/internal/bookings/errors"
	"travelwindow/pkg/config"
	mongotx "travelwindow/pkg/db/mongo"
	"travelwindow/pkg/model"
)

const (
	CollectionName = "Bookings"
)

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindByPNR(ctx context.Context, pnr string) (*model.Booking, error)
	Find(ctx context.Context, filter model.ListFilter, hideDrafts bool, limit int, offset int64) ([]*model.Booking, error)
	Count(ctx context.Context, filter model.ListFilter, hideDrafts bool) (int64, error)
	Replace(ctx context.Context, booking *model.Booking, expectedRevision int64) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context unchanged
// with a no-op cancel function, as we cannot wrap SessionContext without breaking
// transaction semantics.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Revision = 1

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", bookingserrors.ErrDuplicatePNR, booking.PNR)
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindByPNR(ctx context.Context, pnr string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"pnr": pnr}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking by pnr: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) Find(ctx context.Context, filter model.ListFilter, hideDrafts bool, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "dateOfSubmission", Value: -1}, {Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildFilter(filter, hideDrafts), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) Count(ctx context.Context, filter model.ListFilter, hideDrafts bool) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildFilter(filter, hideDrafts))
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return count, nil
}

func buildFilter(f model.ListFilter, hideDrafts bool) bson.M {
	filter := bson.M{}

	if f.Status != "" {
		filter["status"] = f.Status
	} else if hideDrafts {
		filter["status"] = bson.M{"$ne": model.StatusDraft}
	}
	if f.Supplier != "" {
		filter["supplier"] = f.Supplier
	}
	if f.PNR != "" {
		filter["pnr"] = f.PNR
	}
	if f.ContactNumber != "" {
		filter["contactNumber"] = f.ContactNumber
	}

	if f.DateFrom != nil || f.DateTo != nil {
		travel := bson.M{}
		if f.DateFrom != nil {
			travel["$gte"] = *f.DateFrom
		}
		if f.DateTo != nil {
			travel["$lte"] = *f.DateTo
		}
		filter["travelDate"] = travel
	}

	return filter
}

// Replace persists the full document. The filter matches on both id and
// the revision the caller read, so a concurrent writer that got there
// first leaves nothing to match and the caller gets ErrStaleRevision.
func (r *mongoBookingRepository) Replace(ctx context.Context, booking *model.Booking, expectedRevision int64) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(booking.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, booking.ID)
	}

	booking.Revision = expectedRevision + 1
	booking.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	filter := bson.M{"_id": objectID, "revision": expectedRevision}
	result, err := r.collection.ReplaceOne(ctx, filter, booking)
	if err != nil {
		booking.Revision = expectedRevision
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", bookingserrors.ErrDuplicatePNR, booking.PNR)
		}
		return fmt.Errorf("failed to replace booking: %w", err)
	}

	if result.MatchedCount == 0 {
		booking.Revision = expectedRevision
		// Distinguish a vanished document from a lost race.
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
		if countErr != nil {
			return fmt.Errorf("failed to replace booking: %w", countErr)
		}
		if count == 0 {
			return bookingserrors.ErrNotFound
		}
		return bookingserrors.ErrStaleRevision
	}

	return nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
