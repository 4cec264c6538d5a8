package get_ground_bookings

import (
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-GroundBooking/internal/api/handlers"
	"github.com/m04kA/SMC-GroundBooking/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// date задаёт один день, from/to - период; date имеет приоритет.
func ToServiceRequest(
	groundID int64,
	statusStr string,
	dateStr string,
	fromStr string,
	toStr string,
	includeInactiveStr string,
) (*models.GetGroundBookingsRequest, error) {
	req := &models.GetGroundBookingsRequest{
		GroundID:        groundID,
		IncludeInactive: false, // По умолчанию только удерживающие слот и завершённые
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	switch {
	case dateStr != "":
		date, err := handlers.ParseDate(dateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &date
		req.EndDate = &date
	default:
		if fromStr != "" {
			from, err := handlers.ParseDate(fromStr)
			if err != nil {
				return nil, err
			}
			req.StartDate = &from
		}
		if toStr != "" {
			to, err := handlers.ParseDate(toStr)
			if err != nil {
				return nil, err
			}
			req.EndDate = &to
		}
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
