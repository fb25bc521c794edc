package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	hotelerrors "hotelier/internal/hotel/errors"
	"hotelier/internal/hotel/validator"
	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
	"hotelier/pkg/sanitizer"
)

// HotelService is the boundary every presentation layer goes through. Errors
// it returns are *apperrors.AppError.
type HotelService interface {
	AddRoom(ctx context.Context, req *model.RoomRequest) (*model.Room, error)
	ListRooms(ctx context.Context) ([]model.Room, error)
	BookRoom(ctx context.Context, req *model.BookingRequest) (*model.BookingResult, error)
	AvailableRooms(ctx context.Context, req *model.AvailabilityRequest) ([]model.Room, error)
	AvailableRoomNumbers(ctx context.Context, req *model.AvailabilityRequest) ([]int, error)
	ListBookings(ctx context.Context) ([]model.Booking, error)
	GetBooking(ctx context.Context, id string) (*model.Booking, error)
	CancelBooking(ctx context.Context, id string) (*model.Booking, error)
	CancelBookingAt(ctx context.Context, index int) (*model.Booking, error)
}

// Ledger is the part of *ledger.Ledger the service drives.
type Ledger interface {
	AddRoom(ctx context.Context, room model.Room) error
	Rooms() []model.Room
	BookRoom(ctx context.Context, c model.BookingCriteria) (model.BookingResult, error)
	CancelBooking(ctx context.Context, id string) (model.Booking, error)
	CancelBookingAt(ctx context.Context, index int) (model.Booking, error)
	ListBookings() []model.Booking
	Booking(id string) (model.Booking, error)
	AvailableRooms(from, until model.Date) ([]model.Room, error)
	AvailableRoomNumbers(t model.RoomType, from, until model.Date) ([]int, error)
}

type hotelService struct {
	ledger    Ledger
	validator *validator.HotelValidator
	log       *logger.Logger
	now       func() time.Time
}

type Option func(*hotelService)

// WithClock sets the clock used to default an empty availability date to today.
func WithClock(now func() time.Time) Option {
	return func(s *hotelService) {
		s.now = now
	}
}

func NewHotelService(ledger Ledger, validator *validator.HotelValidator, log *logger.Logger, opts ...Option) HotelService {
	s := &hotelService{
		ledger:    ledger,
		validator: validator,
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *hotelService) AddRoom(ctx context.Context, req *model.RoomRequest) (*model.Room, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("Room request cannot be empty")
	}
	sanitizer.SanitizeRoomRequest(req)

	if err := s.validator.ValidateRoom(req); err != nil {
		s.log.Warn("Room validation failed", "room_number", req.Number, "error", err)
		return nil, validationError("Room validation failed", err)
	}

	room, err := model.NewRoom(req.Number, req.Type, req.Price)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	if err := s.ledger.AddRoom(ctx, room); err != nil {
		if errors.Is(err, hotelerrors.ErrPersistence) {
			return &room, s.persistenceError("Room added but could not be saved", err, map[string]any{
				"room_number": room.Number,
			})
		}
		return nil, s.mapError("Failed to add room", err)
	}

	return &room, nil
}

func (s *hotelService) ListRooms(ctx context.Context) ([]model.Room, error) {
	return s.ledger.Rooms(), nil
}

func (s *hotelService) BookRoom(ctx context.Context, req *model.BookingRequest) (*model.BookingResult, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("Booking request cannot be empty")
	}
	sanitizer.SanitizeBookingRequest(req)

	if err := s.validator.ValidateBooking(req); err != nil {
		s.log.Warn("Booking validation failed", "guest", req.GuestName, "error", err)
		return nil, validationError("Booking validation failed", err)
	}

	checkIn, checkOut, err := parseRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	roomType, err := model.ParseRoomType(req.RoomType)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	result, err := s.ledger.BookRoom(ctx, model.BookingCriteria{
		GuestName:  req.GuestName,
		RoomType:   roomType,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		RoomNumber: req.RoomNumber,
	})
	if err != nil {
		if errors.Is(err, hotelerrors.ErrPersistence) && result.Booking != nil {
			return &result, s.persistenceError("Booking applied but could not be saved", err, map[string]any{
				"booking_id":  result.Booking.ID,
				"room_number": result.RoomNumber,
			})
		}
		return nil, s.mapError("Failed to book room", err)
	}

	return &result, nil
}

func (s *hotelService) AvailableRooms(ctx context.Context, req *model.AvailabilityRequest) ([]model.Room, error) {
	from, until, roomType, err := s.availabilityQuery(req)
	if err != nil {
		return nil, err
	}

	rooms, err := s.ledger.AvailableRooms(from, until)
	if err != nil {
		return nil, s.mapError("Failed to compute availability", err)
	}
	if roomType == "" {
		return rooms, nil
	}

	filtered := make([]model.Room, 0, len(rooms))
	for _, r := range rooms {
		if r.Type == roomType {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (s *hotelService) AvailableRoomNumbers(ctx context.Context, req *model.AvailabilityRequest) ([]int, error) {
	from, until, roomType, err := s.availabilityQuery(req)
	if err != nil {
		return nil, err
	}
	if roomType == "" {
		return nil, validationError("Availability validation failed", validator.ValidationErrors{
			{Field: "room_type", Message: "room_type is required"},
		})
	}

	numbers, err := s.ledger.AvailableRoomNumbers(roomType, from, until)
	if err != nil {
		return nil, s.mapError("Failed to compute availability", err)
	}
	return numbers, nil
}

func (s *hotelService) ListBookings(ctx context.Context) ([]model.Booking, error) {
	return s.ledger.ListBookings(), nil
}

func (s *hotelService) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	b, err := s.ledger.Booking(id)
	if err != nil {
		return nil, s.mapError("Failed to get booking", err, "id", id)
	}
	return &b, nil
}

func (s *hotelService) CancelBooking(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	b, err := s.ledger.CancelBooking(ctx, id)
	return s.cancelled(b, err, "id", id)
}

func (s *hotelService) CancelBookingAt(ctx context.Context, index int) (*model.Booking, error) {
	if index < 0 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Booking position must not be negative, got %d", index))
	}
	b, err := s.ledger.CancelBookingAt(ctx, index)
	return s.cancelled(b, err, "index", index)
}

func (s *hotelService) cancelled(b model.Booking, err error, refKey string, ref any) (*model.Booking, error) {
	if err == nil {
		return &b, nil
	}
	if errors.Is(err, hotelerrors.ErrPersistence) {
		return &b, s.persistenceError("Booking cancelled but could not be saved", err, map[string]any{
			"booking_id": b.ID,
		})
	}
	return nil, s.mapError("Failed to cancel booking", err, refKey, ref)
}

// availabilityQuery resolves the date window: an empty from is today and an
// empty until is the same day as from.
func (s *hotelService) availabilityQuery(req *model.AvailabilityRequest) (model.Date, model.Date, model.RoomType, error) {
	if req == nil {
		req = &model.AvailabilityRequest{}
	}
	sanitizer.SanitizeAvailabilityRequest(req)

	if err := s.validator.ValidateAvailability(req); err != nil {
		return model.Date{}, model.Date{}, "", validationError("Availability validation failed", err)
	}

	from := model.DateOf(s.now())
	if req.From != "" {
		from, _ = model.ParseDate(req.From)
	}
	until := from
	if req.Until != "" {
		until, _ = model.ParseDate(req.Until)
	}
	if from.After(until) {
		return model.Date{}, model.Date{}, "", apperrors.InvalidInput(
			fmt.Sprintf("from date %s is after until date %s", from, until))
	}

	var roomType model.RoomType
	if req.RoomType != "" {
		roomType = model.RoomType(req.RoomType)
	}
	return from, until, roomType, nil
}

func parseRange(checkIn, checkOut string) (model.Date, model.Date, error) {
	in, err := model.ParseDate(checkIn)
	if err != nil {
		return model.Date{}, model.Date{}, apperrors.InvalidInput(err.Error())
	}
	out, err := model.ParseDate(checkOut)
	if err != nil {
		return model.Date{}, model.Date{}, apperrors.InvalidInput(err.Error())
	}
	return in, out, nil
}

func validationError(message string, err error) *apperrors.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Details())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}

func (s *hotelService) persistenceError(message string, err error, details map[string]any) *apperrors.AppError {
	s.log.Error(message, "error", err)
	return apperrors.Persistence(message, err).WithDetails(details)
}

func (s *hotelService) mapError(message string, err error, attrs ...any) *apperrors.AppError {
	switch {
	case errors.Is(err, hotelerrors.ErrInvalidInput):
		return apperrors.InvalidInput(err.Error())
	case errors.Is(err, hotelerrors.ErrRoomExists):
		return apperrors.Wrap(err, apperrors.CodeConflict, err.Error(), http.StatusConflict)
	case errors.Is(err, hotelerrors.ErrRoomNotFound):
		return apperrors.NotFound("Room").WithDetails(map[string]any{"error": err.Error()})
	case errors.Is(err, hotelerrors.ErrBookingNotFound):
		if len(attrs) == 2 && attrs[0] == "id" {
			return apperrors.NotFoundWithID("Booking", fmt.Sprint(attrs[1]))
		}
		appErr := apperrors.NotFound("Booking")
		if len(attrs) == 2 {
			appErr = appErr.WithDetails(map[string]any{fmt.Sprint(attrs[0]): attrs[1]})
		}
		return appErr
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Timeout(message)
	}

	s.log.Error(message, append(attrs, "error", err)...)
	return apperrors.Internal(message, err)
}
