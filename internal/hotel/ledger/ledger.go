// Package ledger owns the hotel's rooms and bookings and is the only place
// where they change.
//
// Every mutation holds a single write lock for the availability check, the
// append or removal and the write-through save, so concurrent callers can
// never double-book a room and saved snapshots are never reordered. When the
// save fails the change stays applied and the returned error wraps
// hotelerrors.ErrPersistence.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"hotelier/internal/hotel/availability"
	hotelerrors "hotelier/internal/hotel/errors"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
)

// Store persists the ledger's collections. Saves receive the full collection
// and must replace whatever was stored before.
type Store interface {
	LoadRooms(ctx context.Context) ([]model.Room, error)
	LoadBookings(ctx context.Context, rooms []model.Room) ([]model.Booking, error)
	SaveRooms(ctx context.Context, rooms []model.Room) error
	SaveBookings(ctx context.Context, bookings []model.Booking) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event model.Event) error
}

type Ledger struct {
	mu       sync.RWMutex
	rooms    []model.Room
	byNumber map[int]int
	bookings []model.Booking
	// issued holds every booking ID handed out or loaded by this process,
	// including cancelled ones, so an ID never names two bookings.
	issued map[string]struct{}

	store     Store
	publisher EventPublisher
	log       *logger.Logger
	now       func() time.Time
}

type Option func(*Ledger)

func WithPublisher(p EventPublisher) Option {
	return func(l *Ledger) {
		if p != nil {
			l.publisher = p
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// New returns an empty ledger. A nil store keeps everything in memory.
func New(store Store, log *logger.Logger, opts ...Option) *Ledger {
	if store == nil {
		store = MemoryStore{}
	}
	if log == nil {
		log = logger.Discard()
	}
	l := &Ledger{
		byNumber:  make(map[int]int),
		issued:    make(map[string]struct{}),
		store:     store,
		publisher: NopPublisher{},
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load replaces the in-memory state with the store's contents.
func (l *Ledger) Load(ctx context.Context) error {
	rooms, err := l.store.LoadRooms(ctx)
	if err != nil {
		return fmt.Errorf("load rooms: %w", err)
	}

	unique := make([]model.Room, 0, len(rooms))
	byNumber := make(map[int]int, len(rooms))
	for _, r := range rooms {
		if _, dup := byNumber[r.Number]; dup {
			l.log.Warn("Skipping duplicate room in store", "room_number", r.Number)
			continue
		}
		byNumber[r.Number] = len(unique)
		unique = append(unique, r)
	}

	bookings, err := l.store.LoadBookings(ctx, unique)
	if err != nil {
		return fmt.Errorf("load bookings: %w", err)
	}
	bookings = assignIDs(bookings)
	warnOverlaps(l.log, bookings)

	l.mu.Lock()
	l.rooms = unique
	l.byNumber = byNumber
	l.bookings = bookings
	for _, b := range bookings {
		l.issued[b.ID] = struct{}{}
	}
	l.mu.Unlock()

	l.log.Info("Hotel state loaded", "rooms", len(unique), "bookings", len(bookings))
	return nil
}

func (l *Ledger) AddRoom(ctx context.Context, room model.Room) error {
	if err := room.Validate(); err != nil {
		return fmt.Errorf("%w: %w", hotelerrors.ErrInvalidInput, err)
	}

	l.mu.Lock()
	if _, exists := l.byNumber[room.Number]; exists {
		l.mu.Unlock()
		return fmt.Errorf("%w: room %d", hotelerrors.ErrRoomExists, room.Number)
	}
	l.byNumber[room.Number] = len(l.rooms)
	l.rooms = append(l.rooms, room)
	saveErr := l.store.SaveRooms(ctx, cloneRooms(l.rooms))
	l.mu.Unlock()

	l.log.Info("Room added", "room_number", room.Number, "room_type", room.Type, "price", room.Price)
	l.publish(ctx, model.Event{Type: model.EventRoomAdded, Room: &room})

	return l.persistErr("rooms", saveErr)
}

func (l *Ledger) Rooms() []model.Room {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneRooms(l.rooms)
}

func (l *Ledger) Room(number int) (model.Room, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i, ok := l.byNumber[number]
	if !ok {
		return model.Room{}, fmt.Errorf("%w: %d", hotelerrors.ErrRoomNotFound, number)
	}
	return l.rooms[i], nil
}

// BookRoom books the first room, in room order, that is free for the whole
// stay and matches the requested type and optional number. Finding no such
// room is not an error: the result reports Booked false.
func (l *Ledger) BookRoom(ctx context.Context, c model.BookingCriteria) (model.BookingResult, error) {
	guest := strings.TrimSpace(c.GuestName)
	if guest == "" {
		return model.BookingResult{}, fmt.Errorf("%w: guest name is required", hotelerrors.ErrInvalidInput)
	}
	if !c.RoomType.Valid() {
		return model.BookingResult{}, fmt.Errorf("%w: unknown room type %q", hotelerrors.ErrInvalidInput, c.RoomType)
	}
	if c.CheckIn.IsZero() || c.CheckOut.IsZero() {
		return model.BookingResult{}, fmt.Errorf("%w: check-in and check-out dates are required", hotelerrors.ErrInvalidInput)
	}
	if c.CheckIn.After(c.CheckOut) {
		return model.BookingResult{}, fmt.Errorf("%w: check-in %s is after check-out %s", hotelerrors.ErrInvalidInput, c.CheckIn, c.CheckOut)
	}

	l.mu.Lock()
	if c.RoomNumber != nil {
		if _, ok := l.byNumber[*c.RoomNumber]; !ok {
			l.mu.Unlock()
			return model.BookingResult{}, fmt.Errorf("%w: %d", hotelerrors.ErrRoomNotFound, *c.RoomNumber)
		}
	}

	candidates := availability.FilterByType(
		availability.AvailableRooms(l.rooms, l.bookings, c.CheckIn, c.CheckOut),
		c.RoomType,
	)
	room, found := pick(candidates, c.RoomNumber)
	if !found {
		l.mu.Unlock()
		l.log.Info("No room available",
			"guest", guest,
			"room_type", c.RoomType,
			"check_in", c.CheckIn,
			"check_out", c.CheckOut,
		)
		return model.BookingFailed(), nil
	}

	b := model.Booking{
		Guest:    model.Guest{Name: guest},
		Room:     room,
		CheckIn:  c.CheckIn,
		CheckOut: c.CheckOut,
	}
	b.ID = l.nextID(b)
	l.bookings = append(l.bookings, b)
	saveErr := l.store.SaveBookings(ctx, cloneBookings(l.bookings))
	l.mu.Unlock()

	l.log.Info("Booking created",
		"id", b.ID,
		"guest", guest,
		"room_number", room.Number,
		"check_in", b.CheckIn,
		"check_out", b.CheckOut,
	)
	l.publish(ctx, model.Event{Type: model.EventBookingCreated, Booking: &b})

	return model.BookingSucceeded(b), l.persistErr("bookings", saveErr)
}

// CancelBooking removes the booking with the given ID.
func (l *Ledger) CancelBooking(ctx context.Context, id string) (model.Booking, error) {
	return l.cancel(ctx, func(bookings []model.Booking) int {
		for i, b := range bookings {
			if b.ID == id {
				return i
			}
		}
		return -1
	}, "id "+id)
}

// CancelBookingAt removes the booking at a zero-based position of ListBookings.
func (l *Ledger) CancelBookingAt(ctx context.Context, index int) (model.Booking, error) {
	return l.cancel(ctx, func(bookings []model.Booking) int {
		if index < 0 || index >= len(bookings) {
			return -1
		}
		return index
	}, fmt.Sprintf("position %d", index))
}

func (l *Ledger) cancel(ctx context.Context, locate func([]model.Booking) int, ref string) (model.Booking, error) {
	l.mu.Lock()
	i := locate(l.bookings)
	if i < 0 {
		l.mu.Unlock()
		return model.Booking{}, fmt.Errorf("%w: %s", hotelerrors.ErrBookingNotFound, ref)
	}
	removed := l.bookings[i]
	l.bookings = append(l.bookings[:i:i], l.bookings[i+1:]...)
	saveErr := l.store.SaveBookings(ctx, cloneBookings(l.bookings))
	l.mu.Unlock()

	l.log.Info("Booking cancelled", "id", removed.ID, "guest", removed.Guest.Name, "room_number", removed.RoomNumber())
	l.publish(ctx, model.Event{Type: model.EventBookingCancelled, Booking: &removed})

	return removed, l.persistErr("bookings", saveErr)
}

func (l *Ledger) ListBookings() []model.Booking {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneBookings(l.bookings)
}

func (l *Ledger) Booking(id string) (model.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, b := range l.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return model.Booking{}, fmt.Errorf("%w: id %s", hotelerrors.ErrBookingNotFound, id)
}

func (l *Ledger) AvailableRooms(from, until model.Date) ([]model.Room, error) {
	if from.After(until) {
		return nil, fmt.Errorf("%w: from %s is after until %s", hotelerrors.ErrInvalidInput, from, until)
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return availability.AvailableRooms(l.rooms, l.bookings, from, until), nil
}

func (l *Ledger) AvailableRoomsOnDate(date model.Date) []model.Room {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return availability.AvailableRoomsOnDate(l.rooms, l.bookings, date)
}

// AvailableRoomNumbers lists the free rooms of one type, e.g. to offer a
// choice of room before booking.
func (l *Ledger) AvailableRoomNumbers(t model.RoomType, from, until model.Date) ([]int, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown room type %q", hotelerrors.ErrInvalidInput, t)
	}
	rooms, err := l.AvailableRooms(from, until)
	if err != nil {
		return nil, err
	}
	return availability.RoomNumbers(availability.FilterByType(rooms, t)), nil
}

// ExportBookings rewrites the bookings store from memory, e.g. after a
// failed write-through.
func (l *Ledger) ExportBookings(ctx context.Context) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.persistErr("bookings", l.store.SaveBookings(ctx, cloneBookings(l.bookings)))
}

func (l *Ledger) persistErr(what string, err error) error {
	if err == nil {
		return nil
	}
	l.log.Error("Failed to save "+what, "error", err)
	return fmt.Errorf("%w: save %s: %w", hotelerrors.ErrPersistence, what, err)
}

func (l *Ledger) publish(ctx context.Context, e model.Event) {
	e.OccurredAt = l.now().UTC()
	if err := l.publisher.Publish(ctx, e); err != nil {
		l.log.Warn("Failed to publish event", "type", e.Type, "error", err)
	}
}

// nextID must be called with the write lock held. IDs of cancelled bookings
// stay taken, so a repeated stay moves on to the next ordinal.
func (l *Ledger) nextID(b model.Booking) string {
	for ordinal := 0; ; ordinal++ {
		id := model.BookingID(b.Guest.Name, b.Room.Number, b.CheckIn, b.CheckOut, ordinal)
		if _, taken := l.issued[id]; !taken {
			l.issued[id] = struct{}{}
			return id
		}
	}
}

func pick(rooms []model.Room, number *int) (model.Room, bool) {
	for _, r := range rooms {
		if number == nil || r.Number == *number {
			return r, true
		}
	}
	return model.Room{}, false
}

// assignIDs gives every booking without an ID the stable ID derived from its
// contents, numbering identical bookings in load order.
func assignIDs(bookings []model.Booking) []model.Booking {
	used := make(map[string]struct{}, len(bookings))
	for _, b := range bookings {
		if b.ID != "" {
			used[b.ID] = struct{}{}
		}
	}
	for i := range bookings {
		if bookings[i].ID != "" {
			continue
		}
		b := bookings[i]
		for ordinal := 0; ; ordinal++ {
			id := model.BookingID(b.Guest.Name, b.Room.Number, b.CheckIn, b.CheckOut, ordinal)
			if _, taken := used[id]; !taken {
				bookings[i].ID = id
				used[id] = struct{}{}
				break
			}
		}
	}
	return bookings
}

// Bookings that overlap in the store are kept as they are; only new bookings
// are checked.
func warnOverlaps(log *logger.Logger, bookings []model.Booking) {
	for i := range bookings {
		for j := i + 1; j < len(bookings); j++ {
			a, b := bookings[i], bookings[j]
			if a.RoomNumber() == b.RoomNumber() && a.Overlaps(b.CheckIn, b.CheckOut) {
				log.Warn("Overlapping bookings in store",
					"room_number", a.RoomNumber(),
					"first", a.ID,
					"second", b.ID,
				)
			}
		}
	}
}

func cloneRooms(rooms []model.Room) []model.Room {
	return append([]model.Room(nil), rooms...)
}

func cloneBookings(bookings []model.Booking) []model.Booking {
	return append([]model.Booking(nil), bookings...)
}
