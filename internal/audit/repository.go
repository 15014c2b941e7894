package audit

import (
	"context"
	"fmt"
	"schoolclasses/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "Seat_events"

// SeatEventRepository stores seat events keyed by event id.
type SeatEventRepository interface {
	// Record inserts event and reports false when an event with the same id
	// was already stored.
	Record(ctx context.Context, event *model.SeatEvent) (bool, error)
}

type mongoSeatEventRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewMongoSeatEventRepository(db *mongo.Database, timeout time.Duration) SeatEventRepository {
	return &mongoSeatEventRepository{
		collection: db.Collection(CollectionName),
		timeout:    timeout,
	}
}

func (r *mongoSeatEventRepository) Record(ctx context.Context, event *model.SeatEvent) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, event); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to record seat event %s: %w", event.ID, err)
	}
	return true, nil
}
