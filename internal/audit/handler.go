package audit

import (
	"context"
	"fmt"
	"schoolclasses/pkg/kafka"
	"schoolclasses/pkg/logger"
	"schoolclasses/pkg/model"
	"time"
)

type Handler struct {
	repo SeatEventRepository
	log  *logger.Logger
	now  func() time.Time
}

func NewHandler(repo SeatEventRepository, log *logger.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Handle records one seat event. Undecodable or invalid payloads are
// permanent failures; store errors are transient and retried by the consumer.
// Redelivered events are acknowledged without a second insert.
func (h *Handler) Handle(ctx context.Context, msg kafka.Message) error {
	var event model.SeatEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("deserialization failed", err).
			WithDetail("offset", msg.Offset)
	}

	if event.ID == "" {
		event.ID = msg.GetEventID()
	}
	if err := validateEvent(&event); err != nil {
		return kafka.NewBusinessError("invalid seat event", err).
			WithDetail("event_id", event.ID)
	}
	event.RecordedAt = h.now()

	inserted, err := h.repo.Record(ctx, &event)
	if err != nil {
		return kafka.NewTransientError("failed to store seat event", err)
	}

	if !inserted {
		h.log.Info("Seat event already recorded", "event_id", event.ID, "class_id", event.ClassID)
		return nil
	}

	h.log.Info("Seat event recorded",
		"event_id", event.ID,
		"class_id", event.ClassID,
		"type", event.Type,
		"seats", event.Seats,
	)
	return nil
}

func validateEvent(event *model.SeatEvent) error {
	switch {
	case event.ID == "":
		return fmt.Errorf("missing event id")
	case event.ClassID == "":
		return fmt.Errorf("missing class id")
	case !model.IsKnownSeatEventType(event.Type):
		return fmt.Errorf("unknown event type %q", event.Type)
	case event.Seats < 0:
		return fmt.Errorf("negative seats %d", event.Seats)
	}
	return nil
}
