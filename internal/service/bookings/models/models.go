package models

import (
	"errors"
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// GetBookingsRequest запрос на получение бронирований пациента или терапевта
type GetBookingsRequest struct {
	UserID    int64      `json:"userId"`
	Status    *string    `json:"status,omitempty"`    // Фильтр по статусу (опционально)
	StartDate *time.Time `json:"startDate,omitempty"` // Начало периода по дате сессии (опционально)
	EndDate   *time.Time `json:"endDate,omitempty"`   // Конец периода по дате сессии (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          int64  `json:"id"`
	Number      string `json:"number"`
	PatientID   int64  `json:"patientId"`
	TherapistID int64  `json:"therapistId"`
	TimeSlotID  int64  `json:"timeSlotId"`

	SessionDate      string `json:"sessionDate"`      // "2025-10-15"
	SessionStartTime string `json:"sessionStartTime"` // "10:00"
	SessionEndTime   string `json:"sessionEndTime"`   // "11:00"

	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledBy        *int64  `json:"cancelledBy,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// ToDomainBookingStatus конвертирует строку в domain статус
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	if !domain.ValidStatus(s) {
		return "", ErrInvalidStatus
	}
	return domain.BookingStatus(s), nil
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		Number:             b.Number,
		PatientID:          b.PatientID,
		TherapistID:        b.TherapistID,
		TimeSlotID:         b.TimeSlotID,
		SessionDate:        b.SessionDate.Format(domain.DateFormat),
		SessionStartTime:   b.SessionStartTime.String(),
		SessionEndTime:     b.SessionEndTime.String(),
		Status:             string(b.Status),
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CancelledBy:        b.CancelledBy,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, b := range bookings {
		if converted := FromDomainBooking(b); converted != nil {
			resp.Bookings = append(resp.Bookings, *converted)
		}
	}

	return resp
}
