package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/model"
)

const (
	roomsPath     = "/api/v1/rooms"
	availablePath = "/api/v1/rooms/available"
	bookingsPath  = "/api/v1/bookings"
)

// HotelClient talks to a running hotel service over its JSON API. Failures
// reported by the server come back as *apperrors.AppError.
type HotelClient struct {
	httpClient *HttpClient
}

func NewHotelClient(baseURL string) *HotelClient {
	return &HotelClient{httpClient: NewHttpClient(baseURL)}
}

func (c *HotelClient) AddRoom(ctx context.Context, req *model.RoomRequest) (*model.Room, error) {
	var room model.Room
	if err := c.call(ctx, http.MethodPost, roomsPath, req, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *HotelClient) ListRooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	if err := c.call(ctx, http.MethodGet, roomsPath, nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *HotelClient) BookRoom(ctx context.Context, req *model.BookingRequest) (*model.BookingResult, error) {
	var result model.BookingResult
	if err := c.call(ctx, http.MethodPost, bookingsPath, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HotelClient) AvailableRooms(ctx context.Context, req *model.AvailabilityRequest) ([]model.Room, error) {
	q := url.Values{}
	if req.From != "" {
		q.Set("from", req.From)
	}
	if req.Until != "" {
		q.Set("until", req.Until)
	}
	if req.RoomType != "" {
		q.Set("room_type", req.RoomType)
	}

	path := availablePath
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var rooms []model.Room
	if err := c.call(ctx, http.MethodGet, path, nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// AvailableRoomNumbers has no endpoint of its own; it narrows AvailableRooms.
func (c *HotelClient) AvailableRoomNumbers(ctx context.Context, req *model.AvailabilityRequest) ([]int, error) {
	if req.RoomType == "" {
		return nil, apperrors.Validation("Availability validation failed", map[string]any{
			"room_type": "room_type is required",
		})
	}
	rooms, err := c.AvailableRooms(ctx, req)
	if err != nil {
		return nil, err
	}
	numbers := make([]int, 0, len(rooms))
	for _, r := range rooms {
		numbers = append(numbers, r.Number)
	}
	return numbers, nil
}

func (c *HotelClient) ListBookings(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := c.call(ctx, http.MethodGet, bookingsPath, nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *HotelClient) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	var b model.Booking
	if err := c.call(ctx, http.MethodGet, bookingsPath+"/id/"+url.PathEscape(id), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *HotelClient) CancelBooking(ctx context.Context, id string) (*model.Booking, error) {
	var b model.Booking
	if err := c.call(ctx, http.MethodDelete, bookingsPath+"/id/"+url.PathEscape(id), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *HotelClient) CancelBookingAt(ctx context.Context, index int) (*model.Booking, error) {
	var b model.Booking
	if err := c.call(ctx, http.MethodDelete, bookingsPath+"/position/"+strconv.Itoa(index), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *HotelClient) call(ctx context.Context, method, path string, body, out any) error {
	var (
		resp *Response
		err  error
	)
	switch method {
	case http.MethodPost:
		resp, err = c.httpClient.POST(ctx, path, body)
	case http.MethodDelete:
		resp, err = c.httpClient.DELETE(ctx, path)
	default:
		resp, err = c.httpClient.GET(ctx, path)
	}
	if err != nil {
		return apperrors.Unavailable("hotel service").WithDetails(map[string]any{"cause": err.Error()})
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return DecodeError(resp)
	}

	envelope := struct {
		Data any `json:"data"`
	}{Data: out}
	if err := resp.DecodeJSON(&envelope); err != nil {
		return apperrors.Internal("failed to decode hotel service response", err)
	}
	return nil
}

// DecodeError turns an error response body back into an AppError.
func DecodeError(resp *Response) *apperrors.AppError {
	var errResp struct {
		Error   string         `json:"error"`
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	}
	if err := resp.DecodeJSON(&errResp); err != nil || errResp.Code == "" {
		return apperrors.New(apperrors.CodeInternal, "unexpected response: "+resp.Status, resp.StatusCode)
	}
	return apperrors.New(errResp.Code, errResp.Error, resp.StatusCode).WithDetails(errResp.Details)
}
