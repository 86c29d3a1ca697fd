package enums

// BookingStatus is the lifecycle state of a booking. A booking is created
// WAITING and moves exactly once to APPROVED or REJECTED.
type BookingStatus string

const (
	// BookingStatusWaiting means the owner has not decided yet.
	BookingStatusWaiting BookingStatus = "WAITING"
	// BookingStatusApproved means the owner accepted the booking.
	BookingStatusApproved BookingStatus = "APPROVED"
	// BookingStatusRejected means the owner declined the booking.
	BookingStatusRejected BookingStatus = "REJECTED"
)

// Decided reports whether the status terminates the WAITING state.
func (s BookingStatus) Decided() bool {
	return s == BookingStatusApproved || s == BookingStatusRejected
}
