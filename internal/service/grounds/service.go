package grounds

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-GroundBooking/internal/domain"
	groundRepo "github.com/m04kA/SMC-GroundBooking/internal/infra/storage/ground"
	"github.com/m04kA/SMC-GroundBooking/internal/service/grounds/models"
)

// Service сервис для работы с площадками
type Service struct {
	groundRepo GroundRepository
	logger     Logger
}

// NewService создает новый экземпляр сервиса площадок
func NewService(groundRepo GroundRepository, logger Logger) *Service {
	return &Service{
		groundRepo: groundRepo,
		logger:     logger,
	}
}

// ListActive возвращает площадки, принимающие бронирования
// Публичный метод - доступен всем
func (s *Service) ListActive(ctx context.Context) (*models.GroundListResponse, error) {
	s.logger.Info("ListActive: fetching active grounds")

	grounds, err := s.groundRepo.List(ctx, true)
	if err != nil {
		s.logger.Error("ListActive: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListActive - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListActive: successfully fetched %d grounds", len(grounds))
	return models.FromDomainGroundList(grounds), nil
}

// Create создает новую площадку
// Доступно только администратору
func (s *Service) Create(ctx context.Context, actor domain.Actor, req *models.CreateGroundRequest) (*models.GroundResponse, error) {
	s.logger.Info("Create: creating ground name=%q, category=%s by admin=%d", req.Name, req.Category, actor.ID)

	if !actor.IsAdmin {
		s.logger.Warn("Create: user=%d is not an admin", actor.ID)
		return nil, domain.ErrPermissionDenied
	}

	// 1. Валидируем входные данные
	name, err := validateName(req.Name)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	category, err := validateCategory(req.Category)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	ground := &domain.Ground{
		Name:     name,
		Category: category,
		Active:   true,
	}
	if req.Active != nil {
		ground.Active = *req.Active
	}

	// 2. Создаем площадку
	created, err := s.groundRepo.Create(ctx, ground)
	if err != nil {
		if errors.Is(err, groundRepo.ErrDuplicateName) {
			s.logger.Warn("Create: ground name=%q already exists", name)
			return nil, ErrDuplicateName
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created ground id=%d", created.ID)
	return models.FromDomainGround(created), nil
}

// Update обновляет существующую площадку
// Доступно только администратору
// Поддерживает частичное обновление - обновляются только указанные поля.
// Деактивация не затрагивает существующие бронирования, закрываются только новые.
func (s *Service) Update(ctx context.Context, actor domain.Actor, id int64, req *models.UpdateGroundRequest) (*models.GroundResponse, error) {
	s.logger.Info("Update: updating ground id=%d by admin=%d", id, actor.ID)

	if !actor.IsAdmin {
		s.logger.Warn("Update: user=%d is not an admin", actor.ID)
		return nil, domain.ErrPermissionDenied
	}

	// 1. Получаем существующую площадку
	ground, err := s.groundRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, groundRepo.ErrGroundNotFound) {
			s.logger.Warn("Update: ground id=%d not found", id)
			return nil, domain.ErrGroundNotFound
		}
		s.logger.Error("Update: repository error for ground id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	// 2. Применяем изменения
	if req.Name != nil {
		name, err := validateName(*req.Name)
		if err != nil {
			s.logger.Warn("Update: validation failed: %v", err)
			return nil, err
		}
		ground.Name = name
	}
	if req.Category != nil {
		category, err := validateCategory(*req.Category)
		if err != nil {
			s.logger.Warn("Update: validation failed: %v", err)
			return nil, err
		}
		ground.Category = category
	}
	if req.Active != nil {
		ground.Active = *req.Active
	}

	// 3. Сохраняем
	updated, err := s.groundRepo.Update(ctx, id, ground)
	if err != nil {
		switch {
		case errors.Is(err, groundRepo.ErrGroundNotFound):
			return nil, domain.ErrGroundNotFound
		case errors.Is(err, groundRepo.ErrDuplicateName):
			s.logger.Warn("Update: ground name=%q already exists", ground.Name)
			return nil, ErrDuplicateName
		}
		s.logger.Error("Update: repository error for ground id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated ground id=%d", id)
	return models.FromDomainGround(updated), nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len([]rune(name)) > domain.MaxGroundNameLength {
		return "", fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, domain.MaxGroundNameLength)
	}
	return name, nil
}

func validateCategory(category string) (domain.GroundCategory, error) {
	c := domain.GroundCategory(category)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	return c, nil
}
