package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelier/internal/hotel/ledger"
	"hotelier/internal/hotel/service"
	"hotelier/internal/hotel/validator"
	"hotelier/pkg/app"
	"hotelier/pkg/client"
	"hotelier/pkg/config"
	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/logger"
	"hotelier/pkg/model"
)

func newRouter(t *testing.T) (*httprouter.Router, *ledger.Ledger) {
	t.Helper()
	log := logger.Discard()
	l := ledger.New(nil, log)
	svc := service.NewHotelService(l, validator.NewHotelValidator(log), log,
		service.WithClock(func() time.Time { return time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC) }))

	router := httprouter.New()
	NewHotelHandler(svc, log).RegisterRoutes(router)
	return router, l
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	envelope := struct {
		Data any `json:"data"`
	}{Data: out}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp.Code
}

func TestRoomsEndpoints(t *testing.T) {
	router, _ := newRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/rooms", `{"room_number":101,"room_type":"Standard","price":100}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var room model.Room
	decodeData(t, rec, &room)
	assert.Equal(t, model.Room{Number: 101, Type: model.RoomTypeStandard, Price: 100}, room)

	rec = do(t, router, http.MethodPost, "/api/v1/rooms", `{"room_number":101,"room_type":"Deluxe","price":200}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, apperrors.CodeConflict, errorCode(t, rec))

	rec = do(t, router, http.MethodPost, "/api/v1/rooms", `{"room_number":102,"room_type":"Standard","price":100,"floor":3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/rooms", `{"room_number":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/rooms", ``)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/rooms", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var rooms []model.Room
	decodeData(t, rec, &rooms)
	assert.Len(t, rooms, 1)
}

func TestEmptyListsAreArrays(t *testing.T) {
	router, _ := newRouter(t)

	for _, path := range []string{"/api/v1/rooms", "/api/v1/bookings", "/api/v1/rooms/available"} {
		rec := do(t, router, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), `"data":[]`, path)
		assert.Contains(t, rec.Body.String(), `"total_count":0`, path)
	}
}

func TestBookingEndpoints(t *testing.T) {
	router, l := newRouter(t)
	require.NoError(t, l.AddRoom(context.Background(), model.Room{Number: 101, Type: model.RoomTypeStandard, Price: 100}))

	body := `{"guest_name":"John","room_type":"Standard","check_in":"2025-05-01","check_out":"2025-05-05"}`
	rec := do(t, router, http.MethodPost, "/api/v1/bookings", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var result model.BookingResult
	decodeData(t, rec, &result)
	assert.True(t, result.Booked)
	assert.Equal(t, "Room 101 booked successfully for John", result.Message)
	require.NotNil(t, result.Booking)
	id := result.Booking.ID

	rec = do(t, router, http.MethodPost, "/api/v1/bookings",
		`{"guest_name":"Jane","room_type":"Standard","check_in":"2025-05-05","check_out":"2025-05-06"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &result)
	assert.False(t, result.Booked)
	assert.Equal(t, model.MsgNoRoomsAvailable, result.Message)

	rec = do(t, router, http.MethodPost, "/api/v1/bookings",
		`{"guest_name":"Jane","room_type":"Standard","check_in":"2025-05-06","check_out":"2025-05-01"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"check_out"`)

	rec = do(t, router, http.MethodGet, "/api/v1/rooms/available?from=2025-05-02&until=2025-05-03", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)

	rec = do(t, router, http.MethodGet, "/api/v1/rooms/available?from=2025-05-06&room_type=standard", "")
	var rooms []model.Room
	decodeData(t, rec, &rooms)
	assert.Len(t, rooms, 1)

	rec = do(t, router, http.MethodGet, "/api/v1/bookings/id/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/v1/bookings/id/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cancelled model.Booking
	decodeData(t, rec, &cancelled)
	assert.Equal(t, "John | Room 101 | 2025-05-01 to 2025-05-05", cancelled.String())

	rec = do(t, router, http.MethodGet, "/api/v1/bookings/id/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/v1/bookings/position/0", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/v1/bookings/position/first", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperrors.CodeInvalidInput, errorCode(t, rec))
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	healthy := true
	router := httprouter.New()
	NewHealthHandler(pingFunc(func(context.Context) error {
		if healthy {
			return nil
		}
		return errors.New("rooms file unreadable")
	}), logger.Discard()).RegisterRoutes(router)

	rec := do(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","storage":"ok"}`, rec.Body.String())

	healthy = false
	rec = do(t, router, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func testConfig() *config.Config {
	return &config.Config{
		Port:              "0",
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    5 * time.Second,
		IdempotencyTTL:    time.Minute,
		MaxRequestSize:    1 << 16,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		IdleTimeout:       5 * time.Second,
		ShutdownTimeout:   time.Second,
		Log:               logger.Discard(),
	}
}

// TestRemoteClientRoundTrip drives the full middleware stack through the
// same client the CLI uses in --server mode.
func TestRemoteClientRoundTrip(t *testing.T) {
	log := logger.Discard()
	l := ledger.New(nil, log)
	svc := service.NewHotelService(l, validator.NewHotelValidator(log), log)

	application := app.NewApplication(testConfig())
	application.SetApp(NewHotelHandler(svc, log), NewHealthHandler(pingFunc(func(context.Context) error { return nil }), log))
	server := httptest.NewServer(application.Handler())
	t.Cleanup(func() {
		server.Close()
		application.Shutdown()
	})

	ctx := context.Background()
	hc := client.NewHotelClient(server.URL)

	_, err := hc.AddRoom(ctx, &model.RoomRequest{Number: 101, Type: "Standard", Price: 100})
	require.NoError(t, err)
	_, err = hc.AddRoom(ctx, &model.RoomRequest{Number: 201, Type: "Deluxe", Price: 200})
	require.NoError(t, err)

	_, err = hc.AddRoom(ctx, &model.RoomRequest{Number: 101, Type: "Deluxe", Price: 1})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)

	result, err := hc.BookRoom(ctx, &model.BookingRequest{GuestName: "John", RoomType: "Deluxe", CheckIn: "2025-05-01", CheckOut: "2025-05-05"})
	require.NoError(t, err)
	assert.True(t, result.Booked)
	assert.Equal(t, 201, result.RoomNumber)

	numbers, err := hc.AvailableRoomNumbers(ctx, &model.AvailabilityRequest{From: "2025-05-03", Until: "2025-05-03", RoomType: "Standard"})
	require.NoError(t, err)
	assert.Equal(t, []int{101}, numbers)

	bookings, err := hc.ListBookings(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 1)

	cancelled, err := hc.CancelBookingAt(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, bookings[0].ID, cancelled.ID)

	_, err = hc.GetBooking(ctx, cancelled.ID)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}
