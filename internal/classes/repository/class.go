package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	classeserrors "schoolclasses/internal/classes/errors"
	"schoolclasses/pkg/config"
	"schoolclasses/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	CollectionName = "Schoolclasses"
)

// ClassRepository is the catalog store. DecrementSeats and IncrementSeats are
// single atomic operations at the storage layer; callers never read-modify-write
// the seats counter.
type ClassRepository interface {
	Create(ctx context.Context, class *model.ClassOffering) error
	CreateMany(ctx context.Context, classes []*model.ClassOffering) error
	FindByID(ctx context.Context, id string) (*model.ClassOffering, error)
	FindAll(ctx context.Context, sort model.SortOrder) ([]*model.ClassOffering, error)
	Search(ctx context.Context, query string, sort model.SortOrder) ([]*model.ClassOffering, error)
	DecrementSeats(ctx context.Context, id string) (*model.ClassOffering, error)
	IncrementSeats(ctx context.Context, id string) (*model.ClassOffering, error)
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

type mongoClassRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoClassRepository(cfg *config.Config) ClassRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoClassRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout bounds ctx by timeout without extending an earlier deadline.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}

func parseID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", classeserrors.ErrInvalidID, id)
	}
	return objectID, nil
}

func (r *mongoClassRepository) Create(ctx context.Context, class *model.ClassOffering) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	class.ID = ""
	class.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, class)
	if err != nil {
		return fmt.Errorf("failed to create class: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		class.ID = oid.Hex()
	}
	return nil
}

func (r *mongoClassRepository) CreateMany(ctx context.Context, classes []*model.ClassOffering) error {
	if len(classes) == 0 {
		return nil
	}

	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]any, len(classes))
	for i, class := range classes {
		class.ID = ""
		class.CreatedAt = now
		docs[i] = class
	}

	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to create classes: %w", err)
	}

	for i, insertedID := range result.InsertedIDs {
		if oid, ok := insertedID.(primitive.ObjectID); ok && i < len(classes) {
			classes[i].ID = oid.Hex()
		}
	}
	return nil
}

func (r *mongoClassRepository) FindByID(ctx context.Context, id string) (*model.ClassOffering, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var class model.ClassOffering
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&class)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, classeserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find class: %w", err)
	}

	return &class, nil
}

func (r *mongoClassRepository) FindAll(ctx context.Context, sort model.SortOrder) ([]*model.ClassOffering, error) {
	return r.find(ctx, bson.M{}, sort)
}

// Search matches query as a literal, case-insensitive substring of name or description.
func (r *mongoClassRepository) Search(ctx context.Context, query string, sort model.SortOrder) ([]*model.ClassOffering, error) {
	if query == "" {
		return r.find(ctx, bson.M{}, sort)
	}

	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"name": pattern},
		bson.M{"description": pattern},
	}}
	return r.find(ctx, filter, sort)
}

func (r *mongoClassRepository) find(ctx context.Context, filter bson.M, sort model.SortOrder) ([]*model.ClassOffering, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, findOptions(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to find classes: %w", err)
	}
	defer cursor.Close(ctx)

	classes := []*model.ClassOffering{}
	if err = cursor.All(ctx, &classes); err != nil {
		return nil, fmt.Errorf("failed to decode classes: %w", err)
	}

	return classes, nil
}

func findOptions(sort model.SortOrder) *options.FindOptions {
	opts := options.Find()
	caseInsensitive := &options.Collation{Locale: "en", Strength: 2}

	switch sort {
	case model.SortPriceAsc:
		opts.SetSort(bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}})
	case model.SortPriceDesc:
		opts.SetSort(bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}})
	case model.SortNameAsc:
		opts.SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}).SetCollation(caseInsensitive)
	case model.SortNameDesc:
		opts.SetSort(bson.D{{Key: "name", Value: -1}, {Key: "_id", Value: 1}}).SetCollation(caseInsensitive)
	default:
		opts.SetSort(bson.D{{Key: "_id", Value: 1}})
	}
	return opts
}

// DecrementSeats takes one seat in a single conditional update. When nothing
// matches, a read-only lookup tells a missing class apart from a full one.
func (r *mongoClassRepository) DecrementSeats(ctx context.Context, id string) (*model.ClassOffering, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": objectID, "seats": bson.M{"$gt": 0}}
	update := bson.M{"$inc": bson.M{"seats": -1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var class model.ClassOffering
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&class)
	if err == nil {
		return &class, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to decrement seats: %w", err)
	}

	exists, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID}, options.Count().SetLimit(1))
	if err != nil {
		return nil, fmt.Errorf("failed to check class existence: %w", err)
	}
	if exists == 0 {
		return nil, classeserrors.ErrNotFound
	}
	return nil, classeserrors.ErrNoSeatsAvailable
}

func (r *mongoClassRepository) IncrementSeats(ctx context.Context, id string) (*model.ClassOffering, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$inc": bson.M{"seats": 1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var class model.ClassOffering
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&class)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, classeserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to increment seats: %w", err)
	}
	return &class, nil
}

func (r *mongoClassRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count classes: %w", err)
	}
	return count, nil
}

func (r *mongoClassRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, readpref.Primary())
}
