package handlers

import (
	"fmt"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

// SlotRequest выбранный слот в теле запроса
type SlotRequest struct {
	StartTime string `json:"startTime"` // "18:00"
	EndTime   string `json:"endTime"`   // "18:30"
}

// ParseSlots конвертирует слоты запроса в интервалы
func ParseSlots(slots []SlotRequest) ([]domain.Interval, error) {
	result := make([]domain.Interval, 0, len(slots))
	for i, s := range slots {
		interval, err := domain.NewInterval(s.StartTime, s.EndTime)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
		result = append(result, interval)
	}
	return result, nil
}
