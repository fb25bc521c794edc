package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProducerClosed = errors.New("kafka producer is closed")
	ErrConsumerClosed = errors.New("kafka consumer is closed")
	ErrInvalidMessage = errors.New("invalid message")
	ErrEmptyKey       = errors.New("message key cannot be empty")
	ErrEmptyValue     = errors.New("message value cannot be empty")

	// ErrTransientFailure lets a handler ask for a retry without building a
	// KafkaError, e.g. fmt.Errorf("%w: store offline", ErrTransientFailure).
	ErrTransientFailure = errors.New("transient failure")
)

// ErrorType decides what the consumer does with a message whose handler
// failed: transient errors are retried, everything else goes to the DLQ.
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeTransient
	ErrorTypePermanent
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeTransient:
		return "transient"
	case ErrorTypePermanent:
		return "permanent"
	default:
		return "unknown"
	}
}

type KafkaError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]any
}

func (e *KafkaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *KafkaError) Unwrap() error {
	return e.Err
}

func NewTransientError(message string, err error) *KafkaError {
	return &KafkaError{Type: ErrorTypeTransient, Message: message, Err: err}
}

// NewPermanentError marks a message that will never succeed, such as an
// undecodable payload or an event missing its room.
func NewPermanentError(message string, err error) *KafkaError {
	return &KafkaError{Type: ErrorTypePermanent, Message: message, Err: err}
}

func (e *KafkaError) WithDetail(key string, value any) *KafkaError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Network failures seen from kafka-go and the broker, matched lowercase.
var transientPatterns = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"timeout",
	"deadline exceeded",
	"no such host",
	"network is unreachable",
	"temporary failure",
}

// ClassifyError treats anything it cannot recognize as permanent so an
// unknown failure ends in the DLQ instead of a retry loop.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeUnknown
	}

	var kafkaErr *KafkaError
	if errors.As(err, &kafkaErr) {
		return kafkaErr.Type
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTransientFailure) {
		return ErrorTypeTransient
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return ErrorTypeTransient
		}
	}
	return ErrorTypePermanent
}

func ShouldRetry(err error, currentRetries, maxRetries int) bool {
	if err == nil || currentRetries >= maxRetries {
		return false
	}
	return ClassifyError(err) == ErrorTypeTransient
}
