package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"transient kafka error", NewTransientError("broker down", nil), ErrorTypeTransient},
		{"permanent kafka error", NewPermanentError("bad payload", nil), ErrorTypePermanent},
		{"wrapped kafka error", fmt.Errorf("handle: %w", NewTransientError("x", nil)), ErrorTypeTransient},
		{"deadline", fmt.Errorf("write: %w", context.DeadlineExceeded), ErrorTypeTransient},
		{"transient sentinel", fmt.Errorf("%w: store offline", ErrTransientFailure), ErrorTypeTransient},
		{"connection refused text", errors.New("dial tcp: Connection Refused"), ErrorTypeTransient},
		{"io timeout text", errors.New("read: i/o timeout"), ErrorTypeTransient},
		{"invalid message sentinel", ErrInvalidMessage, ErrorTypePermanent},
		{"unknown", errors.New("something odd"), ErrorTypePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestShouldRetry(t *testing.T) {
	transient := NewTransientError("timeout", nil)

	assert.False(t, ShouldRetry(nil, 0, 3))
	assert.True(t, ShouldRetry(transient, 0, 3))
	assert.True(t, ShouldRetry(transient, 2, 3))
	assert.False(t, ShouldRetry(transient, 3, 3))
	assert.False(t, ShouldRetry(NewPermanentError("bad", nil), 0, 3))
}

func TestKafkaError(t *testing.T) {
	cause := errors.New("boom")
	err := NewPermanentError("decode event", cause).WithDetail("offset", int64(42))

	assert.Equal(t, "decode event: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, int64(42), err.Details["offset"])
	assert.Equal(t, "room gone", NewTransientError("room gone", nil).Error())
}

func TestErrorTypeString(t *testing.T) {
	assert.Equal(t, "transient", ErrorTypeTransient.String())
	assert.Equal(t, "permanent", ErrorTypePermanent.String())
	assert.Equal(t, "unknown", ErrorTypeUnknown.String())
}
