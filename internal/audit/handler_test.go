package audit

import (
	"context"
	"errors"
	"schoolclasses/pkg/kafka"
	"schoolclasses/pkg/logger"
	"schoolclasses/pkg/model"
	"sync"
	"testing"
	"time"
)

type memorySeatEventRepository struct {
	mu     sync.Mutex
	events map[string]*model.SeatEvent
	err    error
}

func newMemoryRepo() *memorySeatEventRepository {
	return &memorySeatEventRepository{events: make(map[string]*model.SeatEvent)}
}

func (r *memorySeatEventRepository) Record(ctx context.Context, event *model.SeatEvent) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.ID]; ok {
		return false, nil
	}
	copied := *event
	r.events[event.ID] = &copied
	return true, nil
}

func seatMessage(t *testing.T, event model.SeatEvent) kafka.Message {
	t.Helper()
	msg, err := kafka.NewMessage().
		WithKey(event.ClassID).
		WithValue(event).
		WithEventID(event.ID).
		WithEventType(event.Type).
		BuildE()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return msg
}

func validEvent() model.SeatEvent {
	return model.SeatEvent{
		ID:         "7a0f3c52-5d7e-4a4e-9a51-0c2d9d1c1f00",
		ClassID:    "65f0a1b2c3d4e5f601234567",
		ClassName:  "Java programming",
		Type:       model.EventSeatBooked,
		Seats:      29,
		OccurredAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestHandle_RecordsOnce(t *testing.T) {
	repo := newMemoryRepo()
	h := NewHandler(repo, logger.Discard())
	msg := seatMessage(t, validEvent())

	for i := 0; i < 3; i++ {
		if err := h.Handle(context.Background(), msg); err != nil {
			t.Fatalf("delivery %d: unexpected error: %v", i, err)
		}
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected a single stored event, got %d", len(repo.events))
	}
	stored := repo.events[validEvent().ID]
	if stored.Seats != 29 || stored.RecordedAt.IsZero() {
		t.Errorf("unexpected stored event: %+v", stored)
	}
}

func TestHandle_FallsBackToHeaderEventID(t *testing.T) {
	repo := newMemoryRepo()
	h := NewHandler(repo, logger.Discard())

	event := validEvent()
	event.ID = ""
	msg := seatMessage(t, event)

	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.events[msg.GetEventID()]; !ok {
		t.Error("expected event stored under the header event id")
	}
}

func TestHandle_ErrorClassification(t *testing.T) {
	badType := validEvent()
	badType.Type = "class.deleted"

	noClass := validEvent()
	noClass.ClassID = ""

	tests := []struct {
		name      string
		msg       func(t *testing.T) kafka.Message
		repoErr   error
		wantType  kafka.ErrorType
		wantRetry bool
	}{
		{
			name: "undecodable payload",
			msg: func(t *testing.T) kafka.Message {
				return kafka.NewMessage().WithKey("k").WithRawValue([]byte("{not json")).Build()
			},
			wantType: kafka.ErrorTypePermanent,
		},
		{
			name:     "unknown event type",
			msg:      func(t *testing.T) kafka.Message { return seatMessage(t, badType) },
			wantType: kafka.ErrorTypeBusiness,
		},
		{
			name:     "missing class id",
			msg:      func(t *testing.T) kafka.Message { return seatMessage(t, noClass) },
			wantType: kafka.ErrorTypeBusiness,
		},
		{
			name:      "store unavailable",
			msg:       func(t *testing.T) kafka.Message { return seatMessage(t, validEvent()) },
			repoErr:   errors.New("no reachable servers"),
			wantType:  kafka.ErrorTypeTransient,
			wantRetry: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemoryRepo()
			repo.err = tt.repoErr
			h := NewHandler(repo, logger.Discard())

			err := h.Handle(context.Background(), tt.msg(t))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := kafka.ClassifyError(err); got != tt.wantType {
				t.Errorf("expected error type %v, got %v", tt.wantType, got)
			}
			if got := kafka.ShouldRetry(err, 0, 3); got != tt.wantRetry {
				t.Errorf("expected retry=%v, got %v", tt.wantRetry, got)
			}
		})
	}
}
