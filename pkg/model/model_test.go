package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid", input: "2025-05-01"},
		{name: "leap day", input: "2024-02-29"},
		{name: "not a leap year", input: "2025-02-29", wantErr: true},
		{name: "wrong separator", input: "2025/05/01", wantErr: true},
		{name: "day first", input: "01-05-2025", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && d.String() != tt.input {
				t.Errorf("String() = %q, want %q", d.String(), tt.input)
			}
		})
	}
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	got := DateOf(time.Date(2025, 5, 1, 23, 30, 0, 0, loc))
	if got.String() != "2025-05-01" {
		t.Errorf("DateOf() = %s, want 2025-05-01", got)
	}
	if !got.Equal(MustParseDate("2025-05-01")) {
		t.Error("DateOf() should equal the parsed date")
	}
}

func TestDateJSON(t *testing.T) {
	d := MustParseDate("2025-05-03")
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"2025-05-03"` {
		t.Errorf("Marshal() = %s", data)
	}

	var back Date
	if err := json.Unmarshal([]byte(`"2025-05-03"`), &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("Unmarshal() = %s, want %s", back, d)
	}
	if err := json.Unmarshal([]byte(`"03/05/2025"`), &back); err == nil {
		t.Error("Unmarshal() should reject non-ISO dates")
	}
}

func TestNewRoom(t *testing.T) {
	tests := []struct {
		name     string
		number   int
		roomType string
		price    float64
		wantErr  bool
	}{
		{name: "standard", number: 101, roomType: "Standard", price: 100},
		{name: "deluxe free", number: 201, roomType: "Deluxe", price: 0},
		{name: "unknown type", number: 301, roomType: "Suite", price: 300, wantErr: true},
		{name: "lowercase type", number: 301, roomType: "standard", price: 300, wantErr: true},
		{name: "zero number", number: 0, roomType: "Standard", price: 100, wantErr: true},
		{name: "negative price", number: 101, roomType: "Standard", price: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRoom(tt.number, tt.roomType, tt.price)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewRoom() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRoomString(t *testing.T) {
	r := Room{Number: 101, Type: RoomTypeStandard, Price: 100}
	if got := r.String(); got != "Standard Room 101 - $100" {
		t.Errorf("String() = %q", got)
	}
	r = Room{Number: 201, Type: RoomTypeDeluxe, Price: 199.5}
	if got := r.String(); got != "Deluxe Room 201 - $199.5" {
		t.Errorf("String() = %q", got)
	}
}

func TestRoomTypesIsACopy(t *testing.T) {
	types := RoomTypes()
	types[0] = "Penthouse"
	if RoomTypes()[0] != RoomTypeStandard {
		t.Error("RoomTypes() must not expose the internal list")
	}
}

func TestBookingOverlaps(t *testing.T) {
	b := Booking{
		Room:     Room{Number: 101, Type: RoomTypeStandard},
		CheckIn:  MustParseDate("2025-05-01"),
		CheckOut: MustParseDate("2025-05-05"),
	}

	tests := []struct {
		from, until string
		want        bool
	}{
		{"2025-05-03", "2025-05-03", true},
		{"2025-05-05", "2025-05-06", true},
		{"2025-04-28", "2025-05-01", true},
		{"2025-04-01", "2025-06-01", true},
		{"2025-05-06", "2025-05-10", false},
		{"2025-04-20", "2025-04-30", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_"+tt.until, func(t *testing.T) {
			got := b.Overlaps(MustParseDate(tt.from), MustParseDate(tt.until))
			if got != tt.want {
				t.Errorf("Overlaps(%s, %s) = %v, want %v", tt.from, tt.until, got, tt.want)
			}
		})
	}
}

func TestBookingString(t *testing.T) {
	b := Booking{
		Guest:    Guest{Name: "John"},
		Room:     Room{Number: 101, Type: RoomTypeStandard, Price: 100},
		CheckIn:  MustParseDate("2025-05-01"),
		CheckOut: MustParseDate("2025-05-05"),
	}
	if got := b.String(); got != "John | Room 101 | 2025-05-01 to 2025-05-05" {
		t.Errorf("String() = %q", got)
	}
}

func TestBookingID(t *testing.T) {
	in, out := MustParseDate("2025-05-01"), MustParseDate("2025-05-05")

	first := BookingID("John", 101, in, out, 0)
	if first != BookingID("John", 101, in, out, 0) {
		t.Error("BookingID() must be deterministic")
	}
	if first == BookingID("John", 101, in, out, 1) {
		t.Error("ordinal must distinguish identical bookings")
	}
	if first == BookingID("Jane", 101, in, out, 0) {
		t.Error("guest must be part of the ID")
	}
}

func TestBookingResults(t *testing.T) {
	b := Booking{Guest: Guest{Name: "John"}, Room: Room{Number: 101, Type: RoomTypeStandard}}
	ok := BookingSucceeded(b)
	if !ok.Booked || ok.RoomNumber != 101 || ok.GuestName != "John" {
		t.Errorf("BookingSucceeded() = %+v", ok)
	}
	if ok.Message != "Room 101 booked successfully for John" {
		t.Errorf("Message = %q", ok.Message)
	}

	failed := BookingFailed()
	if failed.Booked || failed.Booking != nil || failed.Message != MsgNoRoomsAvailable {
		t.Errorf("BookingFailed() = %+v", failed)
	}
}

func TestEventKey(t *testing.T) {
	room := Room{Number: 7}
	if got := (Event{Type: EventRoomAdded, Room: &room}).Key(); got != "7" {
		t.Errorf("Key() = %q", got)
	}
	b := Booking{Room: Room{Number: 12}}
	if got := (Event{Type: EventBookingCreated, Booking: &b}).Key(); got != "12" {
		t.Errorf("Key() = %q", got)
	}
}
