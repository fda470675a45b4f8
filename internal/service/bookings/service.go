package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/TMS-SchedulingService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/TMS-SchedulingService/internal/infra/storage/timeslot"
	"github.com/m04kA/TMS-SchedulingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	slotRepo    TimeSlotRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	slotRepo TimeSlotRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Доступ имеют только пациент и терапевт этого бронирования
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}

	if err := s.checkUserAccess(booking, userID, "GetByID"); err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetByNumber получает бронирование по человекочитаемому номеру
func (s *Service) GetByNumber(ctx context.Context, number string, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByNumber: fetching booking number=%s for user=%d", number, userID)

	if number == "" {
		return nil, fmt.Errorf("%w: booking number is required", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByNumber: booking number=%s not found", number)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByNumber: repository error for number=%s: %v", number, err)
		return nil, fmt.Errorf("%w: GetByNumber - repository error: %v", ErrInternal, err)
	}

	if err := s.checkUserAccess(booking, userID, "GetByNumber"); err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetPatientBookings возвращает бронирования пациента
// Опционально фильтрует по статусу и периоду дат сессий
func (s *Service) GetPatientBookings(ctx context.Context, req *models.GetBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetPatientBookings: fetching bookings for patient=%d", req.UserID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetPatientBookings: invalid filter for patient=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByPatientWithFilter(ctx, req.UserID, filter)
	if err != nil {
		s.logger.Error("GetPatientBookings: repository error for patient=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetPatientBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetPatientBookings: fetched %d bookings for patient=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetTherapistBookings возвращает бронирования терапевта
func (s *Service) GetTherapistBookings(ctx context.Context, req *models.GetBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetTherapistBookings: fetching bookings for therapist=%d", req.UserID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetTherapistBookings: invalid filter for therapist=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByTherapistWithFilter(ctx, req.UserID, filter)
	if err != nil {
		s.logger.Error("GetTherapistBookings: repository error for therapist=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetTherapistBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetTherapistBookings: fetched %d bookings for therapist=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование и освобождает слот в одной транзакции.
// Отменить может пациент или терапевт бронирования; повторная отмена
// возвращает ErrAlreadyCancelled, а не перезаписывает причину
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	if req.CancellationReason == "" {
		s.logger.Warn("Cancel: empty cancellation reason for booking id=%d", bookingID)
		return fmt.Errorf("%w: cancellationReason is required", ErrInvalidInput)
	}

	if len(req.CancellationReason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellationReason must not exceed %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	booking, err := s.getBooking(ctx, bookingID, "Cancel")
	if err != nil {
		return err
	}

	if err := s.checkUserAccess(booking, req.UserID, "Cancel"); err != nil {
		return err
	}

	if booking.IsCancelled() {
		s.logger.Warn("Cancel: booking id=%d is already cancelled", bookingID)
		return ErrAlreadyCancelled
	}

	// Отмена и освобождение слота либо коммитятся вместе, либо откатываются вместе
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.Cancel(txCtx, bookingID, req.CancellationReason, req.UserID); err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrAlreadyCancelled):
				s.logger.Warn("Cancel: booking id=%d was cancelled concurrently", bookingID)
				return ErrAlreadyCancelled
			case errors.Is(err, bookingRepo.ErrBookingNotFound):
				s.logger.Warn("Cancel: booking id=%d disappeared during cancel", bookingID)
				return ErrBookingNotFound
			default:
				s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
				return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
			}
		}

		if err := s.slotRepo.MarkAvailable(txCtx, booking.TimeSlotID); err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				// Слот мог быть удален после бронирования, освобождать нечего
				s.logger.Warn("Cancel: slot id=%d for booking id=%d no longer active", booking.TimeSlotID, bookingID)
				return nil
			}
			s.logger.Error("Cancel: failed to release slot id=%d: %v", booking.TimeSlotID, err)
			return fmt.Errorf("%w: Cancel - failed to release slot: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	s.logger.Info("Cancel: cancelled booking id=%d, released slot id=%d", bookingID, booking.TimeSlotID)
	return nil
}

// UpdateStatus обновляет статус бронирования
// Доступно только терапевту; допустимы confirmed, completed и no-show.
// Отмена идет через Cancel и освобождает слот, здесь слот не затрагивается
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d",
		bookingID, req.Status, req.UserID)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil || !domain.ValidUpdatableStatus(newStatus) {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return ErrInvalidStatus
	}

	booking, err := s.getBooking(ctx, bookingID, "UpdateStatus")
	if err != nil {
		return err
	}

	if booking.TherapistID != req.UserID {
		s.logger.Warn("UpdateStatus: user=%d is not the therapist of booking id=%d", req.UserID, bookingID)
		return ErrAccessDenied
	}

	if booking.IsCancelled() {
		s.logger.Warn("UpdateStatus: booking id=%d is cancelled", bookingID)
		return ErrAlreadyCancelled
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d disappeared during update", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: updated booking id=%d to status=%s", bookingID, newStatus)
	return nil
}

// Вспомогательные методы

// getBooking получает бронирование и маппит ошибку отсутствия
func (s *Service) getBooking(ctx context.Context, id int64, op string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// checkUserAccess проверяет, что пользователь является пациентом
// или терапевтом бронирования
func (s *Service) checkUserAccess(booking *domain.Booking, userID int64, op string) error {
	if booking.PatientID == userID || booking.TherapistID == userID {
		return nil
	}
	s.logger.Warn("%s: access denied for user=%d to booking id=%d", op, userID, booking.ID)
	return ErrAccessDenied
}
