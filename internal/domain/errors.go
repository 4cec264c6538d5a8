package domain

import "errors"

// Scheduling errors
var (
	// ErrSlotUnavailable the requested interval overlaps a blocking booking at commit time
	ErrSlotUnavailable = errors.New("slot is not available")

	// ErrNonContiguousSelection the selected slots do not form one contiguous aligned interval inside the window
	ErrNonContiguousSelection = errors.New("selected slots are not contiguous")
)

// Lifecycle errors
var (
	// ErrInvalidTransition the status change is not permitted from the current state for the actor
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrStaleState the status changed since it was read
	ErrStaleState = errors.New("booking state changed concurrently")

	// ErrPermissionDenied the actor lacks the required role
	ErrPermissionDenied = errors.New("permission denied")
)

// Lookup errors
var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrGroundNotFound  = errors.New("ground not found")
	ErrGroundInactive  = errors.New("ground is not accepting bookings")
)
