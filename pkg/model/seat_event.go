package model

import "time"

const (
	EventClassCreated = "class.created"
	EventSeatBooked   = "class.seat_booked"
	EventSeatReleased = "class.seat_released"
)

// SeatEvent records a change to a class's seat count. Seats holds the value
// after the change.
type SeatEvent struct {
	ID         string    `json:"id" bson:"_id"`
	ClassID    string    `json:"class_id" bson:"class_id"`
	ClassName  string    `json:"class_name" bson:"class_name"`
	Type       string    `json:"type" bson:"type"`
	Seats      int       `json:"seats" bson:"seats"`
	OccurredAt time.Time `json:"occurred_at" bson:"occurred_at"`
	RecordedAt time.Time `json:"-" bson:"recorded_at,omitempty"`
}

func IsKnownSeatEventType(eventType string) bool {
	switch eventType {
	case EventClassCreated, EventSeatBooked, EventSeatReleased:
		return true
	}
	return false
}
