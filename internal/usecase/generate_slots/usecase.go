package generate_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	templateRepo "github.com/m04kA/TMS-SchedulingService/internal/infra/storage/template"
	slotRepo "github.com/m04kA/TMS-SchedulingService/internal/infra/storage/timeslot"
)

// UseCase use case генерации слотов времени из шаблона доступности
type UseCase struct {
	templateRepo TemplateRepository
	slotRepo     TimeSlotRepository
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	templateRepo TemplateRepository,
	slotRepo TimeSlotRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		templateRepo: templateRepo,
		slotRepo:     slotRepo,
		logger:       logger,
	}
}

// Execute выполняет use case генерации слотов.
// Каждый кандидат вставляется идемпотентно: конфликт уникальности на
// (therapist_id, slot_date, start_time) учитывается как пропуск, а не ошибка,
// поэтому повторный вызов с тем же диапазоном безопасен.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GenerateSlots: therapist=%d, template=%d, range=[%s, %s]",
		req.TherapistID, req.TemplateID,
		req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GenerateSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем шаблон
	template, err := uc.templateRepo.GetByID(ctx, req.TemplateID)
	if err != nil {
		if errors.Is(err, templateRepo.ErrTemplateNotFound) {
			uc.logger.Warn("GenerateSlots: template id=%d not found", req.TemplateID)
			return nil, ErrTemplateNotFound
		}
		uc.logger.Error("GenerateSlots: failed to get template id=%d: %v", req.TemplateID, err)
		return nil, fmt.Errorf("%w: failed to get template: %v", ErrInternal, err)
	}

	// 3. Проверяем владельца и состояние шаблона
	if template.TherapistID != req.TherapistID {
		uc.logger.Warn("GenerateSlots: template id=%d belongs to therapist=%d, requested by therapist=%d",
			template.ID, template.TherapistID, req.TherapistID)
		return nil, ErrForbidden
	}

	if template.IsDeleted() {
		uc.logger.Warn("GenerateSlots: template id=%d is deleted", template.ID)
		return nil, ErrTemplateDeleted
	}

	// 4. Раскладываем рабочий интервал шаблона на окна сеансов
	windows, err := buildSessionWindows(
		template.StartTime, template.EndTime,
		template.SessionDurationMinutes, template.BreakMinutes,
	)
	if err != nil {
		uc.logger.Error("GenerateSlots: failed to build session windows: %v", err)
		return nil, fmt.Errorf("%w: failed to build session windows: %v", ErrInternal, err)
	}

	resp := &Response{}

	// 5. Обходим диапазон дат; пустой или перевернутый диапазон дает пустой результат
	startDate := dateOnly(req.StartDate)
	endDate := dateOnly(req.EndDate)

	for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
		if domain.DayOfWeekFromTime(date) != template.DayOfWeek {
			continue
		}

		// 5.1. Вставляем каждое окно как слот
		for _, w := range windows {
			slot := &domain.TimeSlot{
				TherapistID: template.TherapistID,
				TemplateID:  template.ID,
				SlotDate:    date,
				StartTime:   w.Start,
				EndTime:     w.End,
				State:       domain.StateActive,
			}

			created, err := uc.slotRepo.InsertIfAbsent(ctx, slot)
			if err != nil {
				if errors.Is(err, slotRepo.ErrDuplicateSlot) {
					resp.SkippedCount++
					resp.Skipped = append(resp.Skipped, SkippedInfo{
						SlotDate:  date,
						StartTime: w.Start,
					})
					continue
				}
				uc.logger.Error("GenerateSlots: failed to insert slot date=%s, time=%s: %v",
					date.Format(domain.DateFormat), w.Start, err)
				return nil, fmt.Errorf("%w: failed to insert slot: %v", ErrInternal, err)
			}

			resp.CreatedCount++
			resp.Created = append(resp.Created, SlotInfo{
				ID:        created.ID,
				SlotDate:  created.SlotDate,
				StartTime: created.StartTime,
				EndTime:   created.EndTime,
			})
		}
	}

	uc.logger.Info("GenerateSlots: template id=%d, created=%d, skipped=%d",
		template.ID, resp.CreatedCount, resp.SkippedCount)

	return resp, nil
}
