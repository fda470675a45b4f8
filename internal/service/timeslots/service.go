package timeslots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	slotRepo "github.com/m04kA/TMS-SchedulingService/internal/infra/storage/timeslot"
	"github.com/m04kA/TMS-SchedulingService/internal/service/timeslots/models"
	"github.com/m04kA/TMS-SchedulingService/pkg/ptr"
	"github.com/m04kA/TMS-SchedulingService/pkg/types"
)

// Service сервис для работы со слотами времени
type Service struct {
	slotRepo     TimeSlotRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(slotRepo TimeSlotRepository, logger Logger) *Service {
	return &Service{
		slotRepo:     slotRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetAvailableSlots возвращает свободные слоты терапевта для записи.
// Прошедшие даты не возвращаются независимо от фильтра, поэтому пациенту
// никогда не предлагается слот в прошлом
func (s *Service) GetAvailableSlots(ctx context.Context, req *models.GetAvailableSlotsRequest) (*models.SlotListResponse, error) {
	s.logger.Info("GetAvailableSlots: fetching available slots for therapist=%d", req.TherapistID)

	if req.TherapistID <= 0 {
		return nil, fmt.Errorf("%w: therapistID must be positive", ErrInvalidInput)
	}

	now := s.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	filter := domain.SlotFilter{
		TherapistID: req.TherapistID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsBooked:    ptr.Ptr(false),
		FromDate:    &today,
	}

	slots, err := s.slotRepo.GetByTherapistWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetAvailableSlots: repository error for therapist=%d: %v", req.TherapistID, err)
		return nil, fmt.Errorf("%w: GetAvailableSlots - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetAvailableSlots: fetched %d slots for therapist=%d", len(slots), req.TherapistID)
	return models.FromDomainSlotList(slots), nil
}

// GetTherapistSlots возвращает слоты терапевта для его собственного расписания
// В отличие от GetAvailableSlots показывает и занятые, и прошедшие слоты
func (s *Service) GetTherapistSlots(ctx context.Context, req *models.GetTherapistSlotsRequest) (*models.SlotListResponse, error) {
	s.logger.Info("GetTherapistSlots: fetching slots for therapist=%d", req.TherapistID)

	if req.TherapistID <= 0 {
		return nil, fmt.Errorf("%w: therapistID must be positive", ErrInvalidInput)
	}

	filter := domain.SlotFilter{
		TherapistID: req.TherapistID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsBooked:    req.IsBooked,
	}

	slots, err := s.slotRepo.GetByTherapistWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetTherapistSlots: repository error for therapist=%d: %v", req.TherapistID, err)
		return nil, fmt.Errorf("%w: GetTherapistSlots - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetTherapistSlots: fetched %d slots for therapist=%d", len(slots), req.TherapistID)
	return models.FromDomainSlotList(slots), nil
}

// Update изменяет время свободного слота
// Занятый слот изменить нельзя: снимок сессии в бронировании не должен расходиться со слотом
func (s *Service) Update(ctx context.Context, slotID, therapistID int64, req *models.UpdateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("Update: updating slot id=%d by therapist=%d", slotID, therapistID)

	slot, err := s.getOwnedSlot(ctx, slotID, therapistID, "Update")
	if err != nil {
		return nil, err
	}

	if slot.IsBooked {
		s.logger.Warn("Update: slot id=%d is booked", slotID)
		return nil, ErrSlotBooked
	}

	if req.StartTime != nil {
		slot.StartTime = types.TimeString(*req.StartTime)
	}
	if req.EndTime != nil {
		slot.EndTime = types.TimeString(*req.EndTime)
	}

	if err := validateSlotTimes(slot.StartTime, slot.EndTime); err != nil {
		s.logger.Warn("Update: validation failed for slot id=%d: %v", slotID, err)
		return nil, err
	}

	if err := s.slotRepo.Update(ctx, slot); err != nil {
		switch {
		case errors.Is(err, slotRepo.ErrDuplicateSlot):
			s.logger.Warn("Update: slot id=%d conflicts with existing slot", slotID)
			return nil, ErrDuplicateSlot
		case errors.Is(err, slotRepo.ErrSlotNotFound):
			// Слот успели занять, удалить или он исчез
			s.logger.Warn("Update: slot id=%d is no longer updatable", slotID)
			return nil, ErrSlotNotFound
		default:
			s.logger.Error("Update: repository error for slot id=%d: %v", slotID, err)
			return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
	}

	updated, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		s.logger.Error("Update: failed to reload slot id=%d: %v", slotID, err)
		return nil, fmt.Errorf("%w: Update - failed to reload slot: %v", ErrInternal, err)
	}

	s.logger.Info("Update: updated slot id=%d", slotID)
	return models.FromDomainSlot(updated), nil
}

// Delete мягко удаляет свободный слот
func (s *Service) Delete(ctx context.Context, slotID, therapistID int64) error {
	s.logger.Info("Delete: deleting slot id=%d by therapist=%d", slotID, therapistID)

	slot, err := s.getOwnedSlot(ctx, slotID, therapistID, "Delete")
	if err != nil {
		return err
	}

	if slot.IsBooked {
		s.logger.Warn("Delete: slot id=%d is booked", slotID)
		return ErrSlotBooked
	}

	if err := s.slotRepo.SoftDelete(ctx, slotID); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("Delete: slot id=%d disappeared during delete", slotID)
			return ErrSlotNotFound
		}
		s.logger.Error("Delete: repository error for slot id=%d: %v", slotID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: deleted slot id=%d", slotID)
	return nil
}

// validateSlotTimes проверяет формат и порядок времен слота
func validateSlotTimes(start, end types.TimeString) error {
	if err := start.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}
	if err := end.Validate(); err != nil {
		return fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}
	if !start.IsBefore(end) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}
	return nil
}

// getOwnedSlot получает активный слот и проверяет владельца
func (s *Service) getOwnedSlot(ctx context.Context, slotID, therapistID int64, op string) (*domain.TimeSlot, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("%s: slot id=%d not found", op, slotID)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("%s: repository error for slot id=%d: %v", op, slotID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if slot.IsDeleted() {
		s.logger.Warn("%s: slot id=%d is deleted", op, slotID)
		return nil, ErrSlotNotFound
	}

	if slot.TherapistID != therapistID {
		s.logger.Warn("%s: slot id=%d belongs to therapist=%d, requested by therapist=%d",
			op, slotID, slot.TherapistID, therapistID)
		return nil, ErrAccessDenied
	}

	return slot, nil
}
