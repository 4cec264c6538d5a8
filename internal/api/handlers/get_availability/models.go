package get_availability

import (
	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/scheduling"
	getAvailability "github.com/m04kA/SMC-GroundBooking/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP ответ с сеткой слотов площадки на дату
type AvailabilityResponse struct {
	Date       string         `json:"date"`
	GroundID   int64          `json:"groundId"`
	GroundName string         `json:"groundName"`
	Category   string         `json:"category"`
	Slots      []SlotResponse `json:"slots"`
}

// SlotResponse модель слота сетки
type SlotResponse struct {
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Price     float64 `json:"price"`
	State     string  `json:"state"` // available, past, booked_by_other, own_pending, own_confirmed
	// BookingID только для собственных бронирований запрашивающего
	BookingID *int64 `json:"bookingId,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = SlotResponse{
			StartTime: slot.Start.String(),
			EndTime:   slot.End.String(),
			Price:     slot.Price,
			State:     string(slot.Occupancy),
		}
		if slot.Occupancy == scheduling.OccupancyOwnPending || slot.Occupancy == scheduling.OccupancyOwnConfirmed {
			slots[i].BookingID = slot.BookingID
		}
	}

	return &AvailabilityResponse{
		Date:       resp.Date.Format(domain.DateFormat),
		GroundID:   resp.Ground.ID,
		GroundName: resp.Ground.Name,
		Category:   string(resp.Ground.Category),
		Slots:      slots,
	}
}
