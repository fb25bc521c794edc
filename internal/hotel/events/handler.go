package events

import (
	"context"

	"hotelier/pkg/kafka"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
)

// Handler decodes ledger events and hands them to a sink. The default sink
// writes one structured log line per event.
type Handler struct {
	sink func(ctx context.Context, event model.Event) error
	log  *logger.Logger
}

func NewHandler(log *logger.Logger) *Handler {
	h := &Handler{log: log}
	h.sink = h.logEvent
	return h
}

// NewHandlerWithSink routes decoded events to sink instead of the log.
func NewHandlerWithSink(sink func(ctx context.Context, event model.Event) error, log *logger.Logger) *Handler {
	return &Handler{sink: sink, log: log}
}

// Handle is a kafka.MessageHandler. Undecodable or unknown events are
// permanent failures and go straight to the DLQ.
func (h *Handler) Handle(ctx context.Context, msg kafka.Message) error {
	var event model.Event
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("decode event", err).WithDetail("offset", msg.Offset)
	}

	switch event.Type {
	case model.EventRoomAdded, model.EventBookingCreated, model.EventBookingCancelled:
	default:
		return kafka.NewPermanentError("unknown event type "+string(event.Type), kafka.ErrInvalidMessage)
	}

	return h.sink(ctx, event)
}

func (h *Handler) logEvent(_ context.Context, event model.Event) error {
	switch event.Type {
	case model.EventRoomAdded:
		if event.Room == nil {
			return kafka.NewPermanentError("room.added without room", kafka.ErrInvalidMessage)
		}
		h.log.Info("Room added",
			"room_number", event.Room.Number,
			"room_type", event.Room.Type,
			"price", event.Room.Price,
			"occurred_at", event.OccurredAt,
		)
	default:
		if event.Booking == nil {
			return kafka.NewPermanentError(string(event.Type)+" without booking", kafka.ErrInvalidMessage)
		}
		h.log.Info("Booking "+verb(event.Type),
			"booking_id", event.Booking.ID,
			"guest", event.Booking.Guest.Name,
			"room_number", event.Booking.Room.Number,
			"check_in", event.Booking.CheckIn.String(),
			"check_out", event.Booking.CheckOut.String(),
			"occurred_at", event.OccurredAt,
		)
	}
	return nil
}

func verb(t model.EventType) string {
	if t == model.EventBookingCancelled {
		return "cancelled"
	}
	return "created"
}
