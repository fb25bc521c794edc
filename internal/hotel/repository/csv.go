package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"hotelier/pkg/logger"
	"hotelier/pkg/model"
)

const (
	ColRoomNumber = "room_number"
	ColRoomType   = "room_type"
	ColPrice      = "price"

	ColGuest    = "Guest"
	ColRoom     = "Room"
	ColType     = "Type"
	ColPriceB   = "Price"
	ColCheckIn  = "Check-in"
	ColCheckOut = "Check-out"
)

var (
	RoomsHeader    = []string{ColRoomNumber, ColRoomType, ColPrice}
	BookingsHeader = []string{ColGuest, ColRoom, ColType, ColPriceB, ColCheckIn, ColCheckOut}
)

type csvRepository struct {
	roomsPath    string
	bookingsPath string
	log          *logger.Logger
}

func NewCSVRepository(roomsPath, bookingsPath string, log *logger.Logger) HotelRepository {
	if log == nil {
		log = logger.Discard()
	}
	return &csvRepository{
		roomsPath:    roomsPath,
		bookingsPath: bookingsPath,
		log:          log,
	}
}

// LoadRooms creates the rooms file with just its header when it does not exist.
func (r *csvRepository) LoadRooms(ctx context.Context) ([]model.Room, error) {
	records, err := r.read(r.roomsPath)
	if errors.Is(err, fs.ErrNotExist) {
		r.log.Info("Rooms file not found, creating it", "path", r.roomsPath)
		return nil, r.write(r.roomsPath, RoomsHeader, nil)
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols, err := locate(records[0], RoomsHeader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.roomsPath, err)
	}

	rooms := make([]model.Room, 0, len(records)-1)
	for i, rec := range records[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := i + 2
		number, err := strconv.Atoi(strings.TrimSpace(rec[cols[0]]))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid room number %q", r.roomsPath, line, rec[cols[0]])
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(rec[cols[2]]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid price %q", r.roomsPath, line, rec[cols[2]])
		}
		room, err := model.NewRoom(number, strings.TrimSpace(rec[cols[1]]), price)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", r.roomsPath, line, err)
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (r *csvRepository) LoadBookings(ctx context.Context, rooms []model.Room) ([]model.Booking, error) {
	records, err := r.read(r.bookingsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols, err := locate(records[0], []string{ColGuest, ColRoom, ColCheckIn, ColCheckOut})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.bookingsPath, err)
	}

	known := roomIndex(rooms)
	bookings := make([]model.Booking, 0, len(records)-1)
	for i, rec := range records[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := i + 2
		number, err := strconv.Atoi(strings.TrimSpace(rec[cols[1]]))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid room number %q", r.bookingsPath, line, rec[cols[1]])
		}
		room, ok := known[number]
		if !ok {
			r.log.Warn("Skipping booking for unknown room", "path", r.bookingsPath, "line", line, "room_number", number)
			continue
		}
		checkIn, err := model.ParseDate(strings.TrimSpace(rec[cols[2]]))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", r.bookingsPath, line, err)
		}
		checkOut, err := model.ParseDate(strings.TrimSpace(rec[cols[3]]))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", r.bookingsPath, line, err)
		}
		if checkIn.After(checkOut) {
			return nil, fmt.Errorf("%s line %d: check-in %s is after check-out %s", r.bookingsPath, line, checkIn, checkOut)
		}
		bookings = append(bookings, model.Booking{
			Guest:    model.Guest{Name: rec[cols[0]]},
			Room:     room,
			CheckIn:  checkIn,
			CheckOut: checkOut,
		})
	}
	return bookings, nil
}

func (r *csvRepository) SaveRooms(_ context.Context, rooms []model.Room) error {
	rows := make([][]string, 0, len(rooms))
	for _, room := range rooms {
		rows = append(rows, []string{
			strconv.Itoa(room.Number),
			room.Type.String(),
			model.FormatPrice(room.Price),
		})
	}
	return r.write(r.roomsPath, RoomsHeader, rows)
}

func (r *csvRepository) SaveBookings(_ context.Context, bookings []model.Booking) error {
	rows := make([][]string, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, []string{
			b.Guest.Name,
			strconv.Itoa(b.Room.Number),
			b.Room.Type.String(),
			model.FormatPrice(b.Room.Price),
			b.CheckIn.String(),
			b.CheckOut.String(),
		})
	}
	return r.write(r.bookingsPath, BookingsHeader, rows)
}

// Ping checks that both files' directories are reachable.
func (r *csvRepository) Ping(_ context.Context) error {
	for _, p := range []string{r.roomsPath, r.bookingsPath} {
		dir := filepath.Dir(p)
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("storage directory %s: %w", dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("storage directory %s is not a directory", dir)
		}
	}
	return nil
}

func (r *csvRepository) read(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

// write replaces path atomically with the header and rows.
func (r *csvRepository) write(path string, header []string, rows [][]string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// locate maps each wanted column to its position in header.
func locate(header, want []string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	cols := make([]int, len(want))
	for i, w := range want {
		p, ok := pos[strings.ToLower(w)]
		if !ok {
			return nil, fmt.Errorf("missing column %q in header", w)
		}
		cols[i] = p
	}
	return cols, nil
}
