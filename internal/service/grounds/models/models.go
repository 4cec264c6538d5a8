package models

import (
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

// Request модели

// CreateGroundRequest запрос на создание площадки
type CreateGroundRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`         // day, night
	Active   *bool  `json:"active,omitempty"` // По умолчанию true
}

// UpdateGroundRequest запрос на обновление площадки
// Все поля опциональны - обновляются только переданные значения
type UpdateGroundRequest struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

// Response модели

// GroundResponse ответ с данными площадки
type GroundResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GroundListResponse ответ со списком площадок
type GroundListResponse struct {
	Grounds []GroundResponse `json:"grounds"`
}

// Методы конвертации

// FromDomainGround конвертирует domain модель в DTO
func FromDomainGround(g *domain.Ground) *GroundResponse {
	if g == nil {
		return nil
	}

	return &GroundResponse{
		ID:        g.ID,
		Name:      g.Name,
		Category:  string(g.Category),
		Active:    g.Active,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// FromDomainGroundList конвертирует список domain моделей в DTO
func FromDomainGroundList(grounds []*domain.Ground) *GroundListResponse {
	resp := &GroundListResponse{
		Grounds: make([]GroundResponse, 0, len(grounds)),
	}

	for _, ground := range grounds {
		if groundResp := FromDomainGround(ground); groundResp != nil {
			resp.Grounds = append(resp.Grounds, *groundResp)
		}
	}

	return resp
}
