package events

import (
	"context"
	"schoolclasses/pkg/model"
	"time"

	"github.com/google/uuid"
)

const Source = "classes"

// Publisher emits seat events after a committed change to a class.
type Publisher interface {
	Publish(ctx context.Context, event model.SeatEvent) error
	Close() error
}

// NewSeatEvent builds an event for class. Seats is taken from class, so
// callers pass the record as it was returned by the store after the change.
func NewSeatEvent(eventType string, class *model.ClassOffering) model.SeatEvent {
	return model.SeatEvent{
		ID:         uuid.NewString(),
		ClassID:    class.ID,
		ClassName:  class.Name,
		Type:       eventType,
		Seats:      class.Seats,
		OccurredAt: time.Now().UTC(),
	}
}

type noopPublisher struct{}

// NewNoopPublisher returns a Publisher that drops every event. Used when
// Kafka is disabled.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, model.SeatEvent) error { return nil }

func (noopPublisher) Close() error { return nil }
