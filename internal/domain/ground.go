package domain

import (
	"fmt"
	"time"
)

// GroundCategory determines the daily slot window and the unit price of a ground
type GroundCategory string

const (
	CategoryDay   GroundCategory = "day"
	CategoryNight GroundCategory = "night"
)

// IsValid returns true for known categories
func (c GroundCategory) IsValid() bool {
	return c == CategoryDay || c == CategoryNight
}

// Ground represents a bookable physical venue
type Ground struct {
	ID        int64
	Name      string
	Category  GroundCategory
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AcceptsBookings returns true if new bookings may be placed on the ground
func (g *Ground) AcceptsBookings() bool {
	return g.Active
}

// SlotKey identifies the (ground, date) pair that serializes claims.
// Two claims may conflict only if they share a key.
func SlotKey(groundID int64, date time.Time) string {
	return fmt.Sprintf("ground:%d:%s", groundID, date.Format(DateFormat))
}
