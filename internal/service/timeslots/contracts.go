package timeslots

import (
	"context"
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
)

// TimeSlotRepository интерфейс репозитория слотов времени
type TimeSlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	GetByTherapistWithFilter(ctx context.Context, filter domain.SlotFilter) ([]*domain.TimeSlot, error)
	Update(ctx context.Context, slot *domain.TimeSlot) error
	SoftDelete(ctx context.Context, id int64) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
