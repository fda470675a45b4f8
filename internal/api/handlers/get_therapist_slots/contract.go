package get_therapist_slots

import (
	"context"

	"github.com/m04kA/TMS-SchedulingService/internal/service/timeslots/models"
)

type TimeSlotService interface {
	GetTherapistSlots(ctx context.Context, req *models.GetTherapistSlotsRequest) (*models.SlotListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
