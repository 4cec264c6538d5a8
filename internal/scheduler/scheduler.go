package scheduler

import (
	"context"
	"time"

	"github.com/m04kA/SMC-GroundBooking/internal/usecase/complete_elapsed"
)

// Sweeper завершает прошедшие бронирования
type Sweeper interface {
	Execute(ctx context.Context, now time.Time) (*complete_elapsed.Report, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Scheduler периодически запускает sweep
type Scheduler struct {
	sweeper  Sweeper
	interval time.Duration
	logger   Logger
	now      func() time.Time
}

// New создает планировщик, запускающий sweeper с интервалом interval
func New(sweeper Sweeper, interval time.Duration, logger Logger) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Start блокирует до отмены ctx. Первый проход выполняется сразу при старте.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Scheduler: started, interval=%s", s.interval)

	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler: stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	report, err := s.sweeper.Execute(ctx, s.now())
	if err != nil {
		s.logger.Error("Scheduler: sweep failed: %v", err)
		return
	}

	if report.Failed > 0 {
		s.logger.Warn("Scheduler: sweep finished with %d failures", report.Failed)
	}
}
