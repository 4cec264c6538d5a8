package domain

import (
	"fmt"
	"math"
	"sort"

	"github.com/m04kA/SMC-GroundBooking/pkg/types"
)

// Interval half-open time interval [Start, End) within a day
type Interval struct {
	Start types.TimeString
	End   types.TimeString
}

// NewInterval builds an interval from HH:MM strings
func NewInterval(start, end string) (Interval, error) {
	s, err := types.NewTimeStringFromString(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := types.NewTimeStringFromString(end)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: s, End: e}, nil
}

// IsValid returns true if Start < End
func (i Interval) IsValid() bool {
	return !i.Start.IsZero() && !i.End.IsZero() && i.Start.IsBefore(i.End)
}

// DurationMinutes returns the length of the interval
func (i Interval) DurationMinutes() int {
	return i.End.Minutes() - i.Start.Minutes()
}

// Overlaps reports whether two half-open intervals share any instant.
// Touching intervals (11:00-11:30 and 11:30-12:00) do not overlap.
// This is the only overlap predicate in the system: availability and conflict
// detection both go through it.
func (i Interval) Overlaps(other Interval) bool {
	return other.Start.IsBefore(i.End) && other.End.IsAfter(i.Start)
}

// IsUnitAligned returns true if both bounds fall on the slot grid and the
// length is a whole number of units
func (i Interval) IsUnitAligned() bool {
	return i.Start.Minutes()%SlotUnitMinutes == 0 &&
		i.End.Minutes()%SlotUnitMinutes == 0 &&
		i.DurationMinutes()%SlotUnitMinutes == 0
}

// Units returns the number of slot units in the interval
func (i Interval) Units() int {
	return i.DurationMinutes() / SlotUnitMinutes
}

// Within returns true if the interval lies inside the window
func (i Interval) Within(w SlotWindow) bool {
	return !i.Start.IsBefore(w.Start()) && !i.End.IsAfter(w.End())
}

func (i Interval) String() string {
	return i.Start.String() + "-" + i.End.String()
}

// Pricing hourly prices per ground category
type Pricing struct {
	DayHourPrice   float64
	NightHourPrice float64
}

// SlotWindow daily bookable window of a ground category
type SlotWindow struct {
	StartHour int
	EndHour   int
	UnitPrice float64
}

// Start returns the first bookable minute of the window
func (w SlotWindow) Start() types.TimeString {
	ts, _ := types.NewTimeStringFromMinutes(w.StartHour * 60)
	return ts
}

// End returns the end of the window (exclusive)
func (w SlotWindow) End() types.TimeString {
	ts, _ := types.NewTimeStringFromMinutes(w.EndHour * 60)
	return ts
}

// SlotWindowFor returns the window of the category.
// Day: 07:00-18:00, unit price P_day/2. Night: 18:00-23:00, unit price P_night/2.
func SlotWindowFor(category GroundCategory, pricing Pricing) (SlotWindow, bool) {
	unitsPerHour := float64(60 / SlotUnitMinutes)
	switch category {
	case CategoryDay:
		return SlotWindow{
			StartHour: DayWindowStartHour,
			EndHour:   DayWindowEndHour,
			UnitPrice: pricing.DayHourPrice / unitsPerHour,
		}, true
	case CategoryNight:
		return SlotWindow{
			StartHour: NightWindowStartHour,
			EndHour:   NightWindowEndHour,
			UnitPrice: pricing.NightHourPrice / unitsPerHour,
		}, true
	default:
		return SlotWindow{}, false
	}
}

// Slot a single bookable unit
type Slot struct {
	Interval
	Price float64
}

// GenerateSlots returns the ordered unit slots of the window
func GenerateSlots(w SlotWindow) []Slot {
	start := w.StartHour * 60
	end := w.EndHour * 60
	slots := make([]Slot, 0, (end-start)/SlotUnitMinutes)

	for m := start; m+SlotUnitMinutes <= end; m += SlotUnitMinutes {
		s, _ := types.NewTimeStringFromMinutes(m)
		e, _ := types.NewTimeStringFromMinutes(m + SlotUnitMinutes)
		slots = append(slots, Slot{
			Interval: Interval{Start: s, End: e},
			Price:    w.UnitPrice,
		})
	}

	return slots
}

// PriceFor returns the price of the interval in the window
func PriceFor(w SlotWindow, i Interval) float64 {
	return roundMoney(float64(i.Units()) * w.UnitPrice)
}

// MergeContiguous merges caller-selected unit slots into a single interval
// spanning [min(start), max(end)). Returns false if the selection is empty,
// contains an invalid or misaligned unit, duplicates, or has gaps.
func MergeContiguous(selection []Interval) (Interval, bool) {
	if len(selection) == 0 {
		return Interval{}, false
	}

	sorted := make([]Interval, len(selection))
	copy(sorted, selection)
	sort.Slice(sorted, func(a, b int) bool {
		return sorted[a].Start.IsBefore(sorted[b].Start)
	})

	for idx, unit := range sorted {
		if !unit.IsValid() || !unit.IsUnitAligned() {
			return Interval{}, false
		}
		if idx > 0 && !sorted[idx-1].End.Equal(unit.Start) {
			return Interval{}, false
		}
	}

	return Interval{Start: sorted[0].Start, End: sorted[len(sorted)-1].End}, true
}

// ResolveSelection merges the selection and checks it against the window of the category.
// Returns the booked interval and its price, or ErrNonContiguousSelection.
func ResolveSelection(category GroundCategory, pricing Pricing, selection []Interval) (Interval, float64, error) {
	window, ok := SlotWindowFor(category, pricing)
	if !ok {
		return Interval{}, 0, fmt.Errorf("%w: unknown ground category %q", ErrNonContiguousSelection, category)
	}

	merged, ok := MergeContiguous(selection)
	if !ok {
		return Interval{}, 0, fmt.Errorf("%w: %d slots", ErrNonContiguousSelection, len(selection))
	}

	if !merged.Within(window) {
		return Interval{}, 0, fmt.Errorf("%w: %s outside %s-%s",
			ErrNonContiguousSelection, merged, window.Start(), window.End())
	}

	return merged, PriceFor(window, merged), nil
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
