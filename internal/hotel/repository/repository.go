package repository

import (
	"context"

	"hotelier/pkg/model"
)

// HotelRepository stores rooms and bookings as whole collections. Saves
// replace the stored collection so that stored order matches the caller's.
type HotelRepository interface {
	LoadRooms(ctx context.Context) ([]model.Room, error)
	// LoadBookings skips stored bookings whose room is not in rooms.
	LoadBookings(ctx context.Context, rooms []model.Room) ([]model.Booking, error)
	SaveRooms(ctx context.Context, rooms []model.Room) error
	SaveBookings(ctx context.Context, bookings []model.Booking) error
	Ping(ctx context.Context) error
}

func roomIndex(rooms []model.Room) map[int]model.Room {
	idx := make(map[int]model.Room, len(rooms))
	for _, r := range rooms {
		if _, ok := idx[r.Number]; !ok {
			idx[r.Number] = r
		}
	}
	return idx
}
