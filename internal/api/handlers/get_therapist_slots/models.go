package get_therapist_slots

import (
	"strconv"
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	"github.com/m04kA/TMS-SchedulingService/internal/service/timeslots/models"
)

// ToServiceRequest создает запрос сервиса из path и query параметров
func ToServiceRequest(therapistID int64, startDateStr, endDateStr, isBookedStr string) (*models.GetTherapistSlotsRequest, error) {
	req := &models.GetTherapistSlotsRequest{
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

	if isBookedStr != "" {
		isBooked, err := strconv.ParseBool(isBookedStr)
		if err != nil {
			return nil, err
		}
		req.IsBooked = &isBooked
	}

	return req, nil
}
