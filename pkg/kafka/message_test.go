package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageBuilder_Build(t *testing.T) {
	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	msg := NewMessage().
		WithKey("101").
		WithValue(map[string]any{"room_number": 101}).
		WithEventType("booking.created").
		WithSource("hotel").
		WithSchemaVersion("1").
		WithTimestamp(at).
		Build()

	assert.Equal(t, "101", msg.Key)
	assert.JSONEq(t, `{"room_number":101}`, string(msg.Value))
	assert.Equal(t, "booking.created", msg.GetEventType())
	assert.Equal(t, "hotel", msg.Headers[HeaderSource])
	assert.Equal(t, "1", msg.Headers[HeaderSchemaVersion])
	assert.NotEmpty(t, msg.GetEventID())
	assert.Equal(t, "2025-05-01T12:00:00Z", msg.Headers[HeaderTimestamp])
}

func TestMessageBuilder_KeepsExplicitEventID(t *testing.T) {
	msg := NewMessage().WithEventID("evt-1").WithCorrelationID("req-9").Build()
	assert.Equal(t, "evt-1", msg.GetEventID())
	assert.Equal(t, "req-9", msg.GetCorrelationID())
}

func TestMessageBuilder_UnencodableValue(t *testing.T) {
	msg := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	assert.Empty(t, msg.Value)
}

func TestMessage_DecodeValue(t *testing.T) {
	msg := NewMessage().WithValue(struct {
		Guest string `json:"guest"`
	}{Guest: "John"}).Build()

	var out struct {
		Guest string `json:"guest"`
	}
	require.NoError(t, msg.DecodeValue(&out))
	assert.Equal(t, "John", out.Guest)
}

func TestMessage_RetryCount(t *testing.T) {
	msg := Message{}
	assert.Equal(t, 0, msg.GetRetryCount())

	for i := 0; i < 12; i++ {
		msg.IncrementRetryCount()
	}
	assert.Equal(t, 12, msg.GetRetryCount())
	assert.Equal(t, "12", msg.Headers[HeaderRetryCount])

	msg.Headers[HeaderRetryCount] = "garbage"
	assert.Equal(t, 0, msg.GetRetryCount())
}
