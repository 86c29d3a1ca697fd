package enums

import (
	pkgerrors "github.com/lenditapp/lendit-backend/pkg/errors"
)

// BookingState narrows a booking listing. CURRENT/PAST/FUTURE are evaluated
// against the clock at query time; WAITING/REJECTED match the stored status.
type BookingState string

const (
	BookingStateAll      BookingState = "ALL"
	BookingStateCurrent  BookingState = "CURRENT"
	BookingStatePast     BookingState = "PAST"
	BookingStateFuture   BookingState = "FUTURE"
	BookingStateWaiting  BookingState = "WAITING"
	BookingStateRejected BookingState = "REJECTED"
)

// ParseBookingState maps a query token to a state. An empty token defaults to
// ALL; anything else unknown is a client error.
func ParseBookingState(token string) (BookingState, error) {
	if token == "" {
		return BookingStateAll, nil
	}
	switch BookingState(token) {
	case BookingStateAll, BookingStateCurrent, BookingStatePast,
		BookingStateFuture, BookingStateWaiting, BookingStateRejected:
		return BookingState(token), nil
	}
	return "", pkgerrors.Newf(pkgerrors.CodeValidation, "Unknown state: %s", token)
}
