package domain

import "fmt"

// transitionRule one row of the lifecycle table
type transitionRule struct {
	from  BookingStatus
	to    BookingStatus
	role  Role
	owner bool // requester must own the booking
}

// transitions every permitted (from, to, role) triple.
// The legacy "active" status behaves exactly like "confirmed".
var transitions = []transitionRule{
	{from: StatusPending, to: StatusConfirmed, role: RoleAdmin},
	{from: StatusPending, to: StatusRejected, role: RoleAdmin},
	{from: StatusPending, to: StatusCancelled, role: RoleRequester, owner: true},
	{from: StatusPending, to: StatusCancelled, role: RoleAdmin},
	{from: StatusConfirmed, to: StatusCancelled, role: RoleAdmin},
	{from: StatusActive, to: StatusCancelled, role: RoleAdmin},
	{from: StatusConfirmed, to: StatusCompleted, role: RoleSystem},
	{from: StatusActive, to: StatusCompleted, role: RoleSystem},
	{from: StatusPending, to: StatusExpired, role: RoleSystem},
	{from: StatusConfirmed, to: StatusExpired, role: RoleSystem},
	{from: StatusActive, to: StatusExpired, role: RoleSystem},
}

// InitialStatusFor returns the status a new booking is created with for the role
func InitialStatusFor(role Role) (BookingStatus, error) {
	switch role {
	case RoleRequester:
		return StatusPending, nil
	case RoleAdmin:
		return StatusConfirmed, nil
	default:
		return "", fmt.Errorf("%w: role %s cannot create bookings", ErrInvalidTransition, role)
	}
}

// ValidateTransition checks that the actor may move a booking from one status to another.
// isOwner tells whether the actor placed the booking.
// Returns ErrInvalidTransition for every triple not in the table and
// ErrPermissionDenied when the rule requires ownership the actor lacks.
func ValidateTransition(from, to BookingStatus, role Role, isOwner bool) error {
	for _, rule := range transitions {
		if rule.from != from || rule.to != to || rule.role != role {
			continue
		}
		if rule.owner && !isOwner {
			return fmt.Errorf("%w: only the owner may %s a %s booking", ErrPermissionDenied, to, from)
		}
		return nil
	}

	return fmt.Errorf("%w: %s -> %s by %s", ErrInvalidTransition, from, to, role)
}

// CanReschedule checks that the actor may move the interval of a booking.
// Owners and admins may reschedule pending or confirmed bookings; the status is kept.
func CanReschedule(status BookingStatus, role Role, isOwner bool) error {
	switch role {
	case RoleAdmin:
	case RoleRequester:
		if !isOwner {
			return fmt.Errorf("%w: requester does not own the booking", ErrPermissionDenied)
		}
	default:
		return fmt.Errorf("%w: role %s cannot reschedule", ErrInvalidTransition, role)
	}

	if !status.OccupiesSlot() {
		return fmt.Errorf("%w: cannot reschedule a %s booking", ErrInvalidTransition, status)
	}
	return nil
}
