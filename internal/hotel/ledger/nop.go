package ledger

import (
	"context"

	"hotelier/pkg/model"
)

// MemoryStore persists nothing and starts empty.
type MemoryStore struct{}

func (MemoryStore) LoadRooms(context.Context) ([]model.Room, error) { return nil, nil }

func (MemoryStore) LoadBookings(context.Context, []model.Room) ([]model.Booking, error) {
	return nil, nil
}

func (MemoryStore) SaveRooms(context.Context, []model.Room) error { return nil }

func (MemoryStore) SaveBookings(context.Context, []model.Booking) error { return nil }

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.Event) error { return nil }
