package model

import (
	"fmt"
	"strconv"
)

type RoomType string

const (
	RoomTypeStandard RoomType = "Standard"
	RoomTypeDeluxe   RoomType = "Deluxe"
)

var roomTypes = []RoomType{RoomTypeStandard, RoomTypeDeluxe}

// RoomTypes lists every room type the hotel can offer, in display order.
func RoomTypes() []RoomType {
	out := make([]RoomType, len(roomTypes))
	copy(out, roomTypes)
	return out
}

func ParseRoomType(s string) (RoomType, error) {
	for _, t := range roomTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown room type %q", s)
}

func (t RoomType) Valid() bool {
	_, err := ParseRoomType(string(t))
	return err == nil
}

func (t RoomType) String() string {
	return string(t)
}

// Room is immutable once added to the hotel.
type Room struct {
	Number int      `json:"room_number"`
	Type   RoomType `json:"room_type"`
	Price  float64  `json:"price"`
}

func NewRoom(number int, roomType string, price float64) (Room, error) {
	t, err := ParseRoomType(roomType)
	if err != nil {
		return Room{}, err
	}
	r := Room{Number: number, Type: t, Price: price}
	if err := r.Validate(); err != nil {
		return Room{}, err
	}
	return r, nil
}

func (r Room) Validate() error {
	if r.Number <= 0 {
		return fmt.Errorf("room number must be positive, got %d", r.Number)
	}
	if !r.Type.Valid() {
		return fmt.Errorf("unknown room type %q", r.Type)
	}
	if r.Price < 0 {
		return fmt.Errorf("room price must not be negative, got %v", r.Price)
	}
	return nil
}

// String renders e.g. "Standard Room 101 - $100".
func (r Room) String() string {
	return fmt.Sprintf("%s Room %d - $%s", r.Type, r.Number, FormatPrice(r.Price))
}

// FormatPrice prints whole prices without a fractional part.
func FormatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func FormatRoomNumber(n int) string {
	return strconv.Itoa(n)
}
