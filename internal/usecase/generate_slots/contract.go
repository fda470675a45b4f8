package generate_slots

import (
	"context"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
)

// TemplateRepository интерфейс репозитория шаблонов доступности
type TemplateRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.AvailabilityTemplate, error)
}

// TimeSlotRepository интерфейс репозитория слотов времени
type TimeSlotRepository interface {
	InsertIfAbsent(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
