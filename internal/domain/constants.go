package domain

// SlotUnitMinutes is the single bookable unit shared by the user grid,
// admin direct booking, validation and pricing
const SlotUnitMinutes = 30

// Category windows (hours of day)
const (
	DayWindowStartHour   = 7
	DayWindowEndHour     = 18
	NightWindowStartHour = 18
	NightWindowEndHour   = 23
)

// Business validation constants
const (
	MaxNotesLength       = 500
	MaxGroundNameLength  = 100
	MaxSlotsPerSelection = (DayWindowEndHour - DayWindowStartHour) * 60 / SlotUnitMinutes
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// OccupyingStatuses statuses that hold a slot
var OccupyingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusActive,
}

// BlockingStatuses statuses that block a new claim on an overlapping interval.
// Completed bookings block so an already-played slot never gets a second record.
var BlockingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusActive,
	StatusCompleted,
}

// TerminalStatuses statuses that never change again
var TerminalStatuses = []BookingStatus{
	StatusRejected,
	StatusCancelled,
	StatusCompleted,
	StatusExpired,
}

// InactiveStatuses terminal statuses that released their slot
var InactiveStatuses = []BookingStatus{
	StatusRejected,
	StatusCancelled,
	StatusExpired,
}

// AllStatuses every known status
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusActive,
	StatusRejected,
	StatusCancelled,
	StatusCompleted,
	StatusExpired,
}

// StatusStrings converts statuses for use in SQL filters
func StatusStrings(statuses []BookingStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
