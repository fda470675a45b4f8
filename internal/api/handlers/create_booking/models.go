package create_booking

import (
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	createBooking "github.com/m04kA/TMS-SchedulingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	TimeSlotID int64   `json:"timeSlotId"`
	Notes      *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID               int64   `json:"id"`
	Number           string  `json:"number"`
	PatientID        int64   `json:"patientId"`
	TherapistID      int64   `json:"therapistId"`
	TimeSlotID       int64   `json:"timeSlotId"`
	SessionDate      string  `json:"sessionDate"`
	SessionStartTime string  `json:"sessionStartTime"`
	SessionEndTime   string  `json:"sessionEndTime"`
	Status           string  `json:"status"`
	Notes            *string `json:"notes,omitempty"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(patientID int64) *createBooking.Request {
	return &createBooking.Request{
		PatientID:  patientID,
		TimeSlotID: r.TimeSlotID,
		Notes:      r.Notes,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:               resp.ID,
		Number:           resp.Number,
		PatientID:        resp.PatientID,
		TherapistID:      resp.TherapistID,
		TimeSlotID:       resp.TimeSlotID,
		SessionDate:      resp.SessionDate.Format(domain.DateFormat),
		SessionStartTime: resp.SessionStartTime.String(),
		SessionEndTime:   resp.SessionEndTime.String(),
		Status:           resp.Status,
		Notes:            resp.Notes,
		CreatedAt:        resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        resp.UpdatedAt.Format(time.RFC3339),
	}
}
