package create_ground

import (
	"context"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	"github.com/m04kA/SMC-GroundBooking/internal/service/grounds/models"
)

type GroundService interface {
	Create(ctx context.Context, actor domain.Actor, req *models.CreateGroundRequest) (*models.GroundResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
