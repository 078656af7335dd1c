package booking

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("booking: invalid input")
	ErrSlotNotFound       = errors.New("booking: slot not found")
	ErrBookingNotFound    = errors.New("booking: booking not found")
	ErrSubscriberNotFound = errors.New("booking: subscriber not found")
	ErrNotOwner           = errors.New("booking: booking belongs to another subscriber")
	ErrOverrideNotAllowed = errors.New("booking: only admins may override capacity")
	ErrAlreadyCheckedIn   = errors.New("booking: already checked in")
	// ErrConflict means the slot changed between the check and the reserve
	// for a reason other than capacity or lock. The caller may retry.
	ErrConflict = errors.New("booking: slot changed concurrently, retry")
)

type RejectionCode string

const (
	RejectFull          RejectionCode = "FULL"
	RejectClosed        RejectionCode = "CLOSED"
	RejectLocked        RejectionCode = "LOCKED"
	RejectDayTaken      RejectionCode = "DAY_TAKEN"
	RejectAlreadyBooked RejectionCode = "ALREADY_BOOKED"
)

// RejectionError is a business-rule refusal the member should see.
type RejectionError struct {
	Code    RejectionCode
	Message string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var rejectionMessages = map[RejectionCode]string{
	RejectFull:          "this session is fully booked",
	RejectClosed:        "booking for this session has closed",
	RejectLocked:        "this session is not open for booking",
	RejectDayTaken:      "you already have a session booked that day",
	RejectAlreadyBooked: "you are already booked on this session",
}

func NewRejection(code RejectionCode) error {
	return &RejectionError{Code: code, Message: rejectionMessages[code]}
}

// AsRejection unwraps a RejectionError if err carries one.
func AsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
