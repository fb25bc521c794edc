package errors

import "errors"

var (
	ErrRoomExists = errors.New("room already exists")

	ErrRoomNotFound = errors.New("room not found")

	ErrBookingNotFound = errors.New("booking not found")

	ErrInvalidInput = errors.New("invalid input")

	// ErrPersistence means the change was applied in memory but not stored.
	ErrPersistence = errors.New("failed to persist hotel state")
)
