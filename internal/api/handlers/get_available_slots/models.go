package get_available_slots

import (
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	"github.com/m04kA/TMS-SchedulingService/internal/service/timeslots/models"
)

// ToServiceRequest создает запрос сервиса из path и query параметров
func ToServiceRequest(therapistID int64, startDateStr, endDateStr string) (*models.GetAvailableSlotsRequest, error) {
	req := &models.GetAvailableSlotsRequest{
		TherapistID: therapistID,
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
