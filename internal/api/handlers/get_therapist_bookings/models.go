package get_therapist_bookings

import (
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	"github.com/m04kA/TMS-SchedulingService/internal/service/bookings/models"
)

// ToServiceRequest создает запрос сервиса из path и query параметров
func ToServiceRequest(therapistID int64, statusStr, startDateStr, endDateStr string) (*models.GetBookingsRequest, error) {
	req := &models.GetBookingsRequest{
		UserID: therapistID,
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if startDateStr != "" {
		startDate, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &startDate
	}

	if endDateStr != "" {
		endDate, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, err
		}
		req.EndDate = &endDate
	}

	return req, nil
}
