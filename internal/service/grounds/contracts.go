package grounds

import (
	"context"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
)

// GroundRepository интерфейс репозитория площадок
type GroundRepository interface {
	Create(ctx context.Context, ground *domain.Ground) (*domain.Ground, error)
	GetByID(ctx context.Context, id int64) (*domain.Ground, error)
	List(ctx context.Context, onlyActive bool) ([]*domain.Ground, error)
	Update(ctx context.Context, id int64, ground *domain.Ground) (*domain.Ground, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
