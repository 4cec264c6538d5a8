package list_grounds

import (
	"context"

	"github.com/m04kA/SMC-GroundBooking/internal/service/grounds/models"
)

type GroundService interface {
	ListActive(ctx context.Context) (*models.GroundListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
