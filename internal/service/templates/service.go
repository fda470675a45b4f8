package templates

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	templateRepo "github.com/m04kA/TMS-SchedulingService/internal/infra/storage/template"
	"github.com/m04kA/TMS-SchedulingService/internal/service/templates/models"
	"github.com/m04kA/TMS-SchedulingService/pkg/types"
)

// Service сервис для работы с шаблонами доступности терапевта
type Service struct {
	templateRepo TemplateRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса шаблонов
func NewService(templateRepo TemplateRepository, logger Logger) *Service {
	return &Service{
		templateRepo: templateRepo,
		logger:       logger,
	}
}

// Create создает шаблон доступности для терапевта
func (s *Service) Create(ctx context.Context, therapistID int64, req *models.CreateTemplateRequest) (*models.TemplateResponse, error) {
	s.logger.Info("Create: creating template for therapist=%d, day=%s", therapistID, req.DayOfWeek)

	tpl := &domain.AvailabilityTemplate{
		TherapistID:            therapistID,
		DayOfWeek:              domain.DayOfWeek(req.DayOfWeek),
		StartTime:              types.TimeString(req.StartTime),
		EndTime:                types.TimeString(req.EndTime),
		SessionDurationMinutes: req.SessionDurationMinutes,
		BreakMinutes:           req.BreakMinutes,
		State:                  domain.StateActive,
	}

	if err := validateTemplate(tpl); err != nil {
		s.logger.Warn("Create: validation failed for therapist=%d: %v", therapistID, err)
		return nil, err
	}

	created, err := s.templateRepo.Create(ctx, tpl)
	if err != nil {
		s.logger.Error("Create: repository error for therapist=%d: %v", therapistID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: created template id=%d for therapist=%d", created.ID, therapistID)
	return models.FromDomainTemplate(created), nil
}

// GetTherapistTemplates возвращает активные шаблоны терапевта,
// упорядоченные по дню недели и времени начала
func (s *Service) GetTherapistTemplates(ctx context.Context, therapistID int64) (*models.TemplateListResponse, error) {
	s.logger.Info("GetTherapistTemplates: fetching templates for therapist=%d", therapistID)

	templates, err := s.templateRepo.GetByTherapistID(ctx, therapistID)
	if err != nil {
		s.logger.Error("GetTherapistTemplates: repository error for therapist=%d: %v", therapistID, err)
		return nil, fmt.Errorf("%w: GetTherapistTemplates - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetTherapistTemplates: fetched %d templates for therapist=%d", len(templates), therapistID)
	return models.FromDomainTemplateList(templates), nil
}

// Update частично обновляет шаблон
// Комбинация существующих и новых полей проходит полную валидацию
func (s *Service) Update(ctx context.Context, templateID, therapistID int64, req *models.UpdateTemplateRequest) (*models.TemplateResponse, error) {
	s.logger.Info("Update: updating template id=%d by therapist=%d", templateID, therapistID)

	tpl, err := s.getOwnedTemplate(ctx, templateID, therapistID, "Update")
	if err != nil {
		return nil, err
	}

	if req.DayOfWeek != nil {
		tpl.DayOfWeek = domain.DayOfWeek(*req.DayOfWeek)
	}
	if req.StartTime != nil {
		tpl.StartTime = types.TimeString(*req.StartTime)
	}
	if req.EndTime != nil {
		tpl.EndTime = types.TimeString(*req.EndTime)
	}
	if req.SessionDurationMinutes != nil {
		tpl.SessionDurationMinutes = *req.SessionDurationMinutes
	}
	if req.BreakMinutes != nil {
		tpl.BreakMinutes = *req.BreakMinutes
	}

	if err := validateTemplate(tpl); err != nil {
		s.logger.Warn("Update: validation failed for template id=%d: %v", templateID, err)
		return nil, err
	}

	if err := s.templateRepo.Update(ctx, tpl); err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			s.logger.Warn("Update: template id=%d disappeared during update", templateID)
			return nil, ErrTemplateNotFound
		}
		s.logger.Error("Update: repository error for template id=%d: %v", templateID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	updated, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		s.logger.Error("Update: failed to reload template id=%d: %v", templateID, err)
		return nil, fmt.Errorf("%w: Update - failed to reload template: %v", ErrInternal, err)
	}

	s.logger.Info("Update: updated template id=%d", templateID)
	return models.FromDomainTemplate(updated), nil
}

// Delete мягко удаляет шаблон
// Уже сгенерированные из шаблона слоты остаются без изменений
func (s *Service) Delete(ctx context.Context, templateID, therapistID int64) error {
	s.logger.Info("Delete: deleting template id=%d by therapist=%d", templateID, therapistID)

	if _, err := s.getOwnedTemplate(ctx, templateID, therapistID, "Delete"); err != nil {
		return err
	}

	if err := s.templateRepo.SoftDelete(ctx, templateID); err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			s.logger.Warn("Delete: template id=%d disappeared during delete", templateID)
			return ErrTemplateNotFound
		}
		s.logger.Error("Delete: repository error for template id=%d: %v", templateID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: deleted template id=%d", templateID)
	return nil
}

// getOwnedTemplate получает активный шаблон и проверяет владельца
func (s *Service) getOwnedTemplate(ctx context.Context, templateID, therapistID int64, op string) (*domain.AvailabilityTemplate, error) {
	tpl, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			s.logger.Warn("%s: template id=%d not found", op, templateID)
			return nil, ErrTemplateNotFound
		}
		s.logger.Error("%s: repository error for template id=%d: %v", op, templateID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if tpl.IsDeleted() {
		s.logger.Warn("%s: template id=%d is deleted", op, templateID)
		return nil, ErrTemplateNotFound
	}

	if tpl.TherapistID != therapistID {
		s.logger.Warn("%s: template id=%d belongs to therapist=%d, requested by therapist=%d",
			op, templateID, tpl.TherapistID, therapistID)
		return nil, ErrAccessDenied
	}

	return tpl, nil
}
