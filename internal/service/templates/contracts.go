package templates

import (
	"context"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
)

// TemplateRepository интерфейс репозитория шаблонов доступности
type TemplateRepository interface {
	Create(ctx context.Context, tpl *domain.AvailabilityTemplate) (*domain.AvailabilityTemplate, error)
	GetByID(ctx context.Context, id int64) (*domain.AvailabilityTemplate, error)
	GetByTherapistID(ctx context.Context, therapistID int64) ([]*domain.AvailabilityTemplate, error)
	Update(ctx context.Context, tpl *domain.AvailabilityTemplate) error
	SoftDelete(ctx context.Context, id int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
