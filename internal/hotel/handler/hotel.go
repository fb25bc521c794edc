package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"hotelier/internal/hotel/service"
	httputil "hotelier/pkg/http"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
)

type HotelHandler struct {
	service service.HotelService
	log     *logger.Logger
}

func NewHotelHandler(service service.HotelService, log *logger.Logger) *HotelHandler {
	return &HotelHandler{
		service: service,
		log:     log,
	}
}

func (h *HotelHandler) AddRoom(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.RoomRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	room, err := h.service.AddRoom(r.Context(), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, room)
}

func (h *HotelHandler) ListRooms(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rooms, err := h.service.ListRooms(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteList(w, nonNil(rooms), len(rooms))
}

// AvailableRooms serves ?from=&until=&room_type=, every parameter optional.
func (h *HotelHandler) AvailableRooms(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	req := &model.AvailabilityRequest{
		From:     query.Get("from"),
		Until:    query.Get("until"),
		RoomType: query.Get("room_type"),
	}

	rooms, err := h.service.AvailableRooms(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteList(w, nonNil(rooms), len(rooms))
}

// BookRoom answers 201 with the booking, or 200 with booked=false when no
// room matches.
func (h *HotelHandler) BookRoom(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.BookRoom(r.Context(), &req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if !result.Booked {
		httputil.WriteSuccess(w, result)
		return
	}
	httputil.WriteCreated(w, result)
}

func (h *HotelHandler) ListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookings, err := h.service.ListBookings(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteList(w, nonNil(bookings), len(bookings))
}

func (h *HotelHandler) GetBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetBooking(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *HotelHandler) CancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.CancelBooking(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *HotelHandler) CancelBookingAt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	index, err := httputil.ParseIntParam("index", ps.ByName("index"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	booking, err := h.service.CancelBookingAt(r.Context(), index)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *HotelHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/rooms", h.ListRooms)
	router.POST("/api/v1/rooms", h.AddRoom)
	router.GET("/api/v1/rooms/available", h.AvailableRooms)

	router.GET("/api/v1/bookings", h.ListBookings)
	router.POST("/api/v1/bookings", h.BookRoom)
	router.GET("/api/v1/bookings/id/:id", h.GetBooking)
	router.DELETE("/api/v1/bookings/id/:id", h.CancelBooking)
	router.DELETE("/api/v1/bookings/position/:index", h.CancelBookingAt)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
