// Package availability answers which rooms are free over a date range.
//
// A room is taken when any of its bookings touches the range, with both the
// stay and the range counted inclusively: a booking ending on the 5th blocks
// a range starting on the 5th. Functions here never mutate their inputs and
// are safe to call concurrently on shared snapshots.
package availability

import "hotelier/pkg/model"

// AvailableRooms returns the rooms without an overlapping booking, in the
// order they appear in rooms. from must not be after until.
func AvailableRooms(rooms []model.Room, bookings []model.Booking, from, until model.Date) []model.Room {
	taken := UnavailableRoomNumbers(bookings, from, until)

	available := make([]model.Room, 0, len(rooms))
	for _, r := range rooms {
		if _, ok := taken[r.Number]; !ok {
			available = append(available, r)
		}
	}
	return available
}

func AvailableRoomsOnDate(rooms []model.Room, bookings []model.Booking, date model.Date) []model.Room {
	return AvailableRooms(rooms, bookings, date, date)
}

// UnavailableRoomNumbers returns the set of room numbers with at least one
// booking overlapping [from, until].
func UnavailableRoomNumbers(bookings []model.Booking, from, until model.Date) map[int]struct{} {
	taken := make(map[int]struct{})
	for _, b := range bookings {
		if b.Overlaps(from, until) {
			taken[b.RoomNumber()] = struct{}{}
		}
	}
	return taken
}

// FilterByType keeps the rooms of the given type, preserving order.
func FilterByType(rooms []model.Room, t model.RoomType) []model.Room {
	out := make([]model.Room, 0, len(rooms))
	for _, r := range rooms {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

// RoomNumbers projects rooms onto their numbers.
func RoomNumbers(rooms []model.Room) []int {
	numbers := make([]int, 0, len(rooms))
	for _, r := range rooms {
		numbers = append(numbers, r.Number)
	}
	return numbers
}
