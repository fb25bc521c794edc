package model

type RoomRequest struct {
	Number int     `json:"room_number" validate:"required,gt=0"`
	Type   string  `json:"room_type" validate:"required,room_type"`
	Price  float64 `json:"price" validate:"gte=0"`
}

type BookingRequest struct {
	GuestName  string `json:"guest_name" validate:"required,min=1,max=100"`
	RoomType   string `json:"room_type" validate:"required,room_type"`
	CheckIn    string `json:"check_in" validate:"required,iso_date"`
	CheckOut   string `json:"check_out" validate:"required,iso_date"`
	RoomNumber *int   `json:"room_number,omitempty" validate:"omitempty,gt=0"`
}

type AvailabilityRequest struct {
	From     string `json:"from" validate:"omitempty,iso_date"`
	Until    string `json:"until" validate:"omitempty,iso_date"`
	RoomType string `json:"room_type" validate:"omitempty,room_type"`
}
