package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	slotRepo "github.com/m04kA/TMS-SchedulingService/internal/infra/storage/timeslot"
	userClient "github.com/m04kA/TMS-SchedulingService/internal/integrations/userservice"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	slotRepo     TimeSlotRepository
	userClient   UserServiceClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo TimeSlotRepository,
	userClient UserServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		userClient:   userClient,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Захват слота и вставка бронирования идут в одной сериализуемой транзакции:
// условный UPDATE с предикатом is_booked = false гарантирует, что из
// конкурентных запросов на один слот выигрывает ровно один.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: patient=%d, slot=%d", req.PatientID, req.TimeSlotID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем пациента в UserService
	if _, err := uc.userClient.GetUser(ctx, req.PatientID); err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("CreateBooking: patient id=%d not found", req.PatientID)
			return nil, ErrPatientNotFound
		}
		uc.logger.Error("CreateBooking: failed to get patient id=%d: %v", req.PatientID, err)
		return nil, fmt.Errorf("%w: failed to get patient: %v", ErrInternal, err)
	}

	// 3. Получаем слот; занятый или удаленный слот отсекаем до транзакции
	slot, err := uc.slotRepo.GetByID(ctx, req.TimeSlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			uc.logger.Warn("CreateBooking: slot id=%d not found", req.TimeSlotID)
			return nil, ErrSlotNotFound
		}
		uc.logger.Error("CreateBooking: failed to get slot id=%d: %v", req.TimeSlotID, err)
		return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
	}

	if slot.IsDeleted() {
		uc.logger.Warn("CreateBooking: slot id=%d is deleted", slot.ID)
		return nil, ErrSlotNotFound
	}

	if slot.IsBooked {
		uc.logger.Warn("CreateBooking: slot id=%d is already booked", slot.ID)
		return nil, ErrSlotAlreadyBooked
	}

	var result *domain.Booking

	// 4. Захватываем слот и создаем бронирование в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Условный UPDATE: ноль затронутых строк означает, что слот
		// успел занять другой пациент или слот исчез
		if err := uc.slotRepo.MarkBooked(txCtx, slot.ID, req.PatientID); err != nil {
			switch {
			case errors.Is(err, slotRepo.ErrAlreadyBooked):
				uc.logger.Warn("CreateBooking: lost race for slot id=%d", slot.ID)
				return ErrSlotAlreadyBooked
			case errors.Is(err, slotRepo.ErrSlotNotFound):
				uc.logger.Warn("CreateBooking: slot id=%d disappeared", slot.ID)
				return ErrSlotNotFound
			default:
				uc.logger.Error("CreateBooking: failed to mark slot id=%d booked: %v", slot.ID, err)
				return fmt.Errorf("%w: failed to mark slot booked: %v", ErrInternal, err)
			}
		}

		// 4.2. Вставляем бронирование со снимком параметров сеанса
		booking := &domain.Booking{
			Number:           domain.NewBookingNumber(uc.timeProvider.Now()),
			PatientID:        req.PatientID,
			TherapistID:      slot.TherapistID,
			TimeSlotID:       slot.ID,
			SessionDate:      slot.SlotDate,
			SessionStartTime: slot.StartTime,
			SessionEndTime:   slot.EndTime,
			Status:           domain.StatusConfirmed,
			Notes:            req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking id=%d, number=%s", result.ID, result.Number)

	return &Response{
		ID:               result.ID,
		Number:           result.Number,
		PatientID:        result.PatientID,
		TherapistID:      result.TherapistID,
		TimeSlotID:       result.TimeSlotID,
		SessionDate:      result.SessionDate,
		SessionStartTime: result.SessionStartTime,
		SessionEndTime:   result.SessionEndTime,
		Status:           string(result.Status),
		Notes:            result.Notes,
		CreatedAt:        result.CreatedAt,
		UpdatedAt:        result.UpdatedAt,
	}, nil
}
