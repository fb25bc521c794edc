package model

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

const (
	MsgNoRoomsAvailable = "No available rooms match the criteria"
)

var bookingNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("hotelier.booking"))

type Guest struct {
	Name string `json:"name"`
}

type Booking struct {
	ID       string `json:"id"`
	Guest    Guest  `json:"guest"`
	Room     Room   `json:"room"`
	CheckIn  Date   `json:"check_in"`
	CheckOut Date   `json:"check_out"`
}

func (b Booking) RoomNumber() int {
	return b.Room.Number
}

// Overlaps reports whether the stay intersects [from, until], both ends inclusive.
func (b Booking) Overlaps(from, until Date) bool {
	return !b.CheckIn.After(until) && !b.CheckOut.Before(from)
}

// String renders e.g. "John | Room 101 | 2025-05-01 to 2025-05-05".
func (b Booking) String() string {
	return fmt.Sprintf("%s | Room %d | %s to %s", b.Guest.Name, b.Room.Number, b.CheckIn, b.CheckOut)
}

// BookingID derives a stable identifier for a booking. ordinal separates
// otherwise identical bookings and is their position among such duplicates.
func BookingID(guest string, room int, checkIn, checkOut Date, ordinal int) string {
	name := guest + "|" + strconv.Itoa(room) + "|" + checkIn.String() + "|" + checkOut.String() + "|" + strconv.Itoa(ordinal)
	return uuid.NewSHA1(bookingNamespace, []byte(name)).String()
}

type BookingResult struct {
	Booked     bool     `json:"booked"`
	RoomNumber int      `json:"room_number,omitempty"`
	GuestName  string   `json:"guest_name,omitempty"`
	Booking    *Booking `json:"booking,omitempty"`
	Message    string   `json:"message"`
}

func BookingSucceeded(b Booking) BookingResult {
	return BookingResult{
		Booked:     true,
		RoomNumber: b.Room.Number,
		GuestName:  b.Guest.Name,
		Booking:    &b,
		Message:    fmt.Sprintf("Room %d booked successfully for %s", b.Room.Number, b.Guest.Name),
	}
}

func BookingFailed() BookingResult {
	return BookingResult{Message: MsgNoRoomsAvailable}
}

// BookingCriteria is a parsed booking request as accepted by the ledger.
type BookingCriteria struct {
	GuestName  string
	RoomType   RoomType
	CheckIn    Date
	CheckOut   Date
	RoomNumber *int
}
