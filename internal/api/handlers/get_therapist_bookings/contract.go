package get_therapist_bookings

import (
	"context"

	"github.com/m04kA/TMS-SchedulingService/internal/service/bookings/models"
)

type BookingService interface {
	GetTherapistBookings(ctx context.Context, req *models.GetBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
