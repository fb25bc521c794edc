package model

import "time"

type EventType string

const (
	EventRoomAdded        EventType = "room.added"
	EventBookingCreated   EventType = "booking.created"
	EventBookingCancelled EventType = "booking.cancelled"
)

type Event struct {
	Type       EventType `json:"type"`
	Room       *Room     `json:"room,omitempty"`
	Booking    *Booking  `json:"booking,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Key is the partition key for the event: the room it concerns.
func (e Event) Key() string {
	switch {
	case e.Booking != nil:
		return FormatRoomNumber(e.Booking.Room.Number)
	case e.Room != nil:
		return FormatRoomNumber(e.Room.Number)
	default:
		return ""
	}
}
