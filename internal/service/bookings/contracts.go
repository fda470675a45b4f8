package bookings

import (
	"context"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByNumber(ctx context.Context, number string) (*domain.Booking, error)
	GetByPatientWithFilter(ctx context.Context, patientID int64, filter domain.BookingsFilter) ([]*domain.Booking, error)
	GetByTherapistWithFilter(ctx context.Context, therapistID int64, filter domain.BookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, reason string, cancelledBy int64) error
}

// TimeSlotRepository интерфейс репозитория слотов времени
type TimeSlotRepository interface {
	MarkAvailable(ctx context.Context, slotID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
