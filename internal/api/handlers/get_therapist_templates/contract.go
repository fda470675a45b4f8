package get_therapist_templates

import (
	"context"

	"github.com/m04kA/TMS-SchedulingService/internal/service/templates/models"
)

type TemplateService interface {
	GetTherapistTemplates(ctx context.Context, therapistID int64) (*models.TemplateListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
