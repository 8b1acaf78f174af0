package domain

import "errors"

var (
	ErrClassNotFound       = errors.New("class not found")
	ErrClassAlreadyStarted = errors.New("cannot book past classes")
	ErrUnknownTimezone     = errors.New("unknown timezone")
	ErrClassFull           = errors.New("class is fully booked")
	ErrDuplicateBooking    = errors.New("client has already booked this class")
	ErrConflict            = errors.New("booking conflicted with a concurrent update")
)

// Error codes reported to callers. They are part of the public API and must not change.
const (
	CodeNotFound         = "not_found"
	CodeInvalidRequest   = "invalid_request"
	CodeCapacityExceeded = "capacity_exceeded"
	CodeDuplicateBooking = "duplicate_booking"
	CodeConflict         = "conflict"
	CodeInternal         = "internal_error"
)

// Code maps an error to its stable error code.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrClassNotFound):
		return CodeNotFound
	case errors.Is(err, ErrClassAlreadyStarted), errors.Is(err, ErrUnknownTimezone):
		return CodeInvalidRequest
	case errors.Is(err, ErrClassFull):
		return CodeCapacityExceeded
	case errors.Is(err, ErrDuplicateBooking):
		return CodeDuplicateBooking
	case errors.Is(err, ErrConflict):
		return CodeConflict
	default:
		return CodeInternal
	}
}
