package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"hotelier/pkg/logger"
)

func decodeErrorCode(t *testing.T, body []byte) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, body)
	}
	return resp.Code
}

func TestRecovery(t *testing.T) {
	h := Recovery(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("ledger exploded")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if code := decodeErrorCode(t, rec.Body.Bytes()); code != "INTERNAL_ERROR" {
		t.Errorf("code = %q", code)
	}
}

func TestRequestLogging_AssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf})

	var seen string
	h := RequestLogging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil))

	if seen == "" || rec.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("request id not propagated: ctx=%q header=%q", seen, rec.Header().Get(RequestIDHeader))
	}
	if !strings.Contains(buf.String(), `"status":201`) {
		t.Errorf("completion log missing status: %s", buf.String())
	}
}

func TestRequestLogging_ReusesValidIncomingID(t *testing.T) {
	const incoming = "9b2f7a3e-4c1d-4f7e-9a55-1f0c3b2d8e11"

	var seen string
	h := RequestLogging(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != incoming {
		t.Errorf("got %q, want incoming id", seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not a uuid\nx")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen == "not a uuid\nx" {
		t.Error("invalid incoming id was reused")
	}
}

func TestContentTypeValidation(t *testing.T) {
	h := ContentTypeValidation(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name        string
		method      string
		contentType string
		want        int
	}{
		{"GET without header", http.MethodGet, "", http.StatusNoContent},
		{"POST json", http.MethodPost, "application/json", http.StatusNoContent},
		{"POST json with charset", http.MethodPost, "application/json; charset=utf-8", http.StatusNoContent},
		{"POST form", http.MethodPost, "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{"POST missing", http.MethodPost, "", http.StatusUnsupportedMediaType},
		{"DELETE without header", http.MethodDelete, "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/bookings", nil)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestMaxRequestSize(t *testing.T) {
	h := MaxRequestSize(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"guest_name":"John"}`)))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	h := RequestTimeout(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", rec.Code)
	}
	if code := decodeErrorCode(t, rec.Body.Bytes()); code != "TIMEOUT" {
		t.Errorf("code = %q", code)
	}
}

func TestRequestTimeout_PanicReachesRecovery(t *testing.T) {
	h := Recovery(logger.Discard())(RequestTimeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestClientRateLimiter_Allow(t *testing.T) {
	rl := NewClientRateLimiter(2, time.Minute, nil, logger.Discard())
	defer rl.Stop()

	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("a") {
		t.Fatal("third request inside the window should be rejected")
	}
	if !rl.Allow("b") {
		t.Fatal("other clients are limited independently")
	}
	if !rl.Allow("") {
		t.Fatal("empty key bypasses the limiter")
	}

	now = now.Add(time.Minute)
	if !rl.Allow("a") {
		t.Fatal("window should have slid")
	}
}

func TestRateLimit_Middleware(t *testing.T) {
	rl := NewClientRateLimiter(1, time.Minute, nil, logger.Discard())
	defer rl.Stop()

	h := RateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(clientID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)
		req.RemoteAddr = "10.0.0.7:51234"
		req.Header.Set("X-Client-ID", clientID)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	if rec := send("front-desk"); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	// a fresh client ID from the same host is still the same client
	rec := send("someone-else")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q", rec.Header().Get("Retry-After"))
	}
}

func TestRetryAfter(t *testing.T) {
	tests := []struct {
		window time.Duration
		want   string
	}{
		{time.Minute, "60"},
		{1500 * time.Millisecond, "2"},
		{200 * time.Millisecond, "1"},
		{0, "1"},
	}
	for _, tt := range tests {
		if got := retryAfter(tt.window); got != tt.want {
			t.Errorf("retryAfter(%s) = %q, want %q", tt.window, got, tt.want)
		}
	}
}

func TestDefaultClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	if got := DefaultClientKey(req); got != "10.0.0.7" {
		t.Errorf("got %q", got)
	}
	req.Header.Set("X-Client-ID", "kiosk-3")
	if got := DefaultClientKey(req); got != "10.0.0.7" {
		t.Errorf("header must be ignored, got %q", got)
	}
}

func TestHeaderClientKey(t *testing.T) {
	key := HeaderClientKey("X-Client-ID")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	if got := key(req); got != "10.0.0.7" {
		t.Errorf("without header got %q", got)
	}
	req.Header.Set("X-Client-ID", "kiosk-3")
	if got := key(req); got != "kiosk-3" {
		t.Errorf("got %q", got)
	}
}

func TestIdempotency_ReplaysSuccessfulPost(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	var calls atomic.Int32
	h := Idempotency(store, "")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"call":` + string(rune('0'+n)) + `}`))
	}))

	send := func(method, path, key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	first := send(http.MethodPost, "/api/v1/bookings", "k1")
	second := send(http.MethodPost, "/api/v1/bookings", "k1")

	if calls.Load() != 1 {
		t.Fatalf("handler ran %d times, want 1", calls.Load())
	}
	if second.Code != http.StatusCreated || second.Body.String() != first.Body.String() {
		t.Errorf("replay mismatch: %d %s", second.Code, second.Body.String())
	}
	if second.Header().Get(IdempotentReplayHeader) != "true" {
		t.Error("replay header missing")
	}

	send(http.MethodPost, "/api/v1/rooms", "k1")
	send(http.MethodPost, "/api/v1/bookings", "")
	send(http.MethodGet, "/api/v1/bookings", "k1")
	if calls.Load() != 4 {
		t.Errorf("handler ran %d times, want 4", calls.Load())
	}
}

func TestIdempotency_DoesNotCacheFailures(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	var calls int
	h := Idempotency(store, "Idempotency-Key")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusConflict)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/rooms", nil)
		req.Header.Set("Idempotency-Key", "dup")
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}
