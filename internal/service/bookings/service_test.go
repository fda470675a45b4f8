package bookings

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/TMS-SchedulingService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/TMS-SchedulingService/internal/infra/storage/timeslot"
	"github.com/m04kA/TMS-SchedulingService/internal/service/bookings/models"
	"github.com/m04kA/TMS-SchedulingService/pkg/ptr"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeBookingRepo struct {
	booking   *domain.Booking
	getErr    error
	cancelErr error
	statusErr error

	byPatient   []*domain.Booking
	byTherapist []*domain.Booking
	lastFilter  *domain.BookingsFilter

	cancelled       bool
	cancelledReason string
	cancelledBy     int64
	updatedStatus   domain.BookingStatus
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copied := *f.booking
	return &copied, nil
}

func (f *fakeBookingRepo) GetByNumber(ctx context.Context, number string) (*domain.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.booking.Number != number {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *f.booking
	return &copied, nil
}

func (f *fakeBookingRepo) GetByPatientWithFilter(ctx context.Context, patientID int64, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	f.lastFilter = &filter
	return f.byPatient, nil
}

func (f *fakeBookingRepo) GetByTherapistWithFilter(ctx context.Context, therapistID int64, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	f.lastFilter = &filter
	return f.byTherapist, nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	f.updatedStatus = status
	return nil
}

func (f *fakeBookingRepo) Cancel(ctx context.Context, id int64, reason string, cancelledBy int64) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = true
	f.cancelledReason = reason
	f.cancelledBy = cancelledBy
	return nil
}

type fakeSlotRepo struct {
	releaseErr error
	released   []int64
}

func (f *fakeSlotRepo) MarkAvailable(ctx context.Context, slotID int64) error {
	if f.releaseErr != nil {
		return f.releaseErr
	}
	f.released = append(f.released, slotID)
	return nil
}

// fakeTxManager выполняет функцию напрямую, без настоящей транзакции
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:               100,
		Number:           "BK1759320000000ABCDE",
		PatientID:        5,
		TherapistID:      2,
		TimeSlotID:       7,
		SessionDate:      time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC),
		SessionStartTime: "09:00",
		SessionEndTime:   "09:30",
		Status:           domain.StatusConfirmed,
	}
}

func TestService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("пациент и терапевт имеют доступ", func(t *testing.T) {
		repo := &fakeBookingRepo{booking: confirmedBooking()}
		svc := NewService(repo, &fakeSlotRepo{}, &fakeTxManager{}, nopLogger{})

		resp, err := svc.GetByID(ctx, 100, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(100), resp.ID)
		assert.Equal(t, "2025-10-06", resp.SessionDate)

		_, err = svc.GetByID(ctx, 100, 2)
		require.NoError(t, err)
	})

	t.Run("посторонний пользователь не имеет доступа", func(t *testing.T) {
		repo := &fakeBookingRepo{booking: confirmedBooking()}
		svc := NewService(repo, &fakeSlotRepo{}, &fakeTxManager{}, nopLogger{})

		_, err := svc.GetByID(ctx, 100, 99)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("бронирование не найдено", func(t *testing.T) {
		repo := &fakeBookingRepo{getErr: bookingRepo.ErrBookingNotFound}
		svc := NewService(repo, &fakeSlotRepo{}, &fakeTxManager{}, nopLogger{})

		_, err := svc.GetByID(ctx, 100, 5)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestService_GetByNumber(t *testing.T) {
	ctx := context.Background()

	repo := &fakeBookingRepo{booking: confirmedBooking()}
	svc := NewService(repo, &fakeSlotRepo{}, &fakeTxManager{}, nopLogger{})

	resp, err := svc.GetByNumber(ctx, "BK1759320000000ABCDE", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.ID)

	_, err = svc.GetByNumber(ctx, "BK0000000000000XXXXX", 5)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = svc.GetByNumber(ctx, "", 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_GetPatientBookings(t *testing.T) {
	ctx := context.Background()

	repo := &fakeBookingRepo{byPatient: []*domain.Booking{confirmedBooking()}}
	svc := NewService(repo, &fakeSlotRepo{}, &fakeTxManager{}, nopLogger{})

	resp, err := svc.GetPatientBookings(ctx, &models.GetBookingsRequest{
		UserID: 5,
		Status: ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)

	require.NotNil(t, repo.lastFilter)
	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, domain.StatusConfirmed, *repo.lastFilter.Status)

	_, err = svc.GetPatientBookings(ctx, &models.GetBookingsRequest{
		UserID: 5,
		Status: ptr.Ptr("unknown"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("отмена освобождает слот в одной транзакции", func(t *testing.T) {
		repo := &fakeBookingRepo{booking: confirmedBooking()}
		slots := &fakeSlotRepo{}
		tx := &fakeTxManager{}
		svc := NewService(repo, slots, tx, nopLogger{})

		err := svc.Cancel(ctx, 100, &models.CancelBookingRequest{
			UserID:             5,
			CancellationReason: "не смогу прийти",
		})
		require.NoError(t, err)

		assert.Equal(t, 1, tx.calls)
		assert.True(t, repo.cancelled)
		assert.Equal(t, "не смогу прийти", repo.cancelledReason)
		assert.Equal(t, int64(5), repo.cancelledBy)
		assert.Equal(t, []int64{7}, slots.released)
	})

	t.Run("терапевт тоже может отменить", func(t *testing.T) {
		repo := &fakeBookingRepo{booking: confirmedBooking()}
		svc := NewService(repo, &fakeSlotRepo{}, &fakeTxManager{}, nopLogger{})

		err := svc.Cancel(ctx, 100, &models.CancelBookingRequest{
			UserID:             2,
			CancellationReason: "болезнь",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), repo.cancelledBy)
	})

	t.Run("повторная отмена отклоняется", func(t *testing.T) {
		booking := confirmedBooking()
		booking.Status = domain.StatusCancelled
		repo := &fakeBookingRepo{booking: booking}
		slots := &fakeSlotRepo{}
		svc := NewService(repo, slots, &fakeTxManager{}, nopLogger{})

		err := svc.Cancel(ctx, 100, &models.CancelBookingRequest{
			UserID:             5,
			CancellationReason: "передумал",
		})
		assert.ErrorIs(t, err, ErrAlreadyCancelled)
		assert.False(t, repo.cancelled)
		assert.Empty(t, slots.released)
	})

	t.Run("конкурентная отмена внутри транзакции", func(t *testing.T) {
		repo := &fakeBookingRepo{booking: confirmedBooking(), cancelErr: bookingRepo.ErrAlreadyCancelled}
		slots := &fakeSlotRepo{}
		svc := NewService(repo, slots, &fakeTxManager{}, nopLogger{})

		err := svc.Cancel(ctx, 100, &models.CancelBookingRequest{
			UserID:             5,
			CancellationReason: "передумал",
		})
		assert.ErrorIs(t, err, ErrAlreadyCancelled)
		assert.Empty(t, slots.released)
	})

	t.Run("исчезнувший слот не ломает отмену", func(t *testing.T) {
		repo := &fakeBookingRepo{booking: confirmedBooking()}
		slots := &fakeSlotRepo{releaseErr: slotRepo.ErrSlotNotFound}
		svc := NewService(repo, slots, &fakeTxManager{}, nopLogger{})

		err := svc.Cancel(ctx, 100, &models.CancelBookingRequest{
			UserID:             5,
			CancellationReason: "не смогу прийти",
		})
		require.NoError(t, err)
		assert.True(t, repo.cancelled)
	})

	t.Run("причина отмены обязательна и ограничена по длине", func(t *testing.T) {
		repo := &fakeBookingRepo{booking: confirmedBooking()}
		svc := NewService(repo, &fakeSlotRepo{}, &fakeTxManager{}, nopLogger{})

		err := svc.Cancel(ctx, 100, &models.CancelBookingRequest{UserID: 5})
		assert.ErrorIs(t, err, ErrInvalidInput)

		err = svc.Cancel(ctx, 100, &models.CancelBookingRequest{
			UserID:             5,
			CancellationReason: strings.Repeat("a", domain.MaxCancellationReasonLength+1),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("посторонний пользователь не может отменить", func(t *testing.T) {
		repo := &fakeBookingRepo{booking: confirmedBooking()}
		svc := NewService(repo, &fakeSlotRepo{}, &fakeTxManager{}, nopLogger{})

		err := svc.Cancel(ctx, 100, &models.CancelBookingRequest{
			UserID:             99,
			CancellationReason: "попытка",
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("терапевт переводит бронирование в completed", func(t *testing.T) {
		repo := &fakeBookingRepo{booking: confirmedBooking()}
		slots := &fakeSlotRepo{}
		svc := NewService(repo, slots, &fakeTxManager{}, nopLogger{})

		err := svc.UpdateStatus(ctx, 100, &models.UpdateStatusRequest{UserID: 2, Status: "completed"})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, repo.updatedStatus)

		// Обновление статуса не освобождает слот
		assert.Empty(t, slots.released)
	})

	t.Run("cancelled недоступен через обновление статуса", func(t *testing.T) {
		repo := &fakeBookingRepo{booking: confirmedBooking()}
		svc := NewService(repo, &fakeSlotRepo{}, &fakeTxManager{}, nopLogger{})

		err := svc.UpdateStatus(ctx, 100, &models.UpdateStatusRequest{UserID: 2, Status: "cancelled"})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("неизвестный статус отклоняется", func(t *testing.T) {
		repo := &fakeBookingRepo{booking: confirmedBooking()}
		svc := NewService(repo, &fakeSlotRepo{}, &fakeTxManager{}, nopLogger{})

		err := svc.UpdateStatus(ctx, 100, &models.UpdateStatusRequest{UserID: 2, Status: "done"})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("пациент не может менять статус", func(t *testing.T) {
		repo := &fakeBookingRepo{booking: confirmedBooking()}
		svc := NewService(repo, &fakeSlotRepo{}, &fakeTxManager{}, nopLogger{})

		err := svc.UpdateStatus(ctx, 100, &models.UpdateStatusRequest{UserID: 5, Status: "no-show"})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("отмененное бронирование не меняет статус", func(t *testing.T) {
		booking := confirmedBooking()
		booking.Status = domain.StatusCancelled
		repo := &fakeBookingRepo{booking: booking}
		svc := NewService(repo, &fakeSlotRepo{}, &fakeTxManager{}, nopLogger{})

		err := svc.UpdateStatus(ctx, 100, &models.UpdateStatusRequest{UserID: 2, Status: "completed"})
		assert.ErrorIs(t, err, ErrAlreadyCancelled)
	})
}
