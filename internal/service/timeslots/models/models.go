package models

import (
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
)

// Request модели

// GetAvailableSlotsRequest запрос на получение свободных слотов терапевта
type GetAvailableSlotsRequest struct {
	TherapistID int64      `json:"therapistId"`
	StartDate   *time.Time `json:"startDate,omitempty"` // Начало периода (опционально)
	EndDate     *time.Time `json:"endDate,omitempty"`   // Конец периода (опционально)
}

// GetTherapistSlotsRequest запрос терапевта на просмотр своих слотов
type GetTherapistSlotsRequest struct {
	TherapistID int64      `json:"therapistId"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	IsBooked    *bool      `json:"isBooked,omitempty"` // Фильтр по занятости (опционально)
}

// UpdateSlotRequest запрос на изменение времени слота
type UpdateSlotRequest struct {
	StartTime *string `json:"startTime,omitempty"` // "10:00"
	EndTime   *string `json:"endTime,omitempty"`   // "11:00"
}

// Response модели

// SlotResponse ответ с данными слота
type SlotResponse struct {
	ID          int64  `json:"id"`
	TherapistID int64  `json:"therapistId"`
	TemplateID  int64  `json:"templateId,omitempty"`
	SlotDate    string `json:"slotDate"`  // "2025-10-15"
	StartTime   string `json:"startTime"` // "10:00"
	EndTime     string `json:"endTime"`   // "11:00"
	IsBooked    bool   `json:"isBooked"`
	BookedBy    *int64 `json:"bookedBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SlotListResponse ответ со списком слотов
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// Методы конвертации

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.TimeSlot) *SlotResponse {
	if s == nil {
		return nil
	}

	return &SlotResponse{
		ID:          s.ID,
		TherapistID: s.TherapistID,
		TemplateID:  s.TemplateID,
		SlotDate:    s.SlotDate.Format(domain.DateFormat),
		StartTime:   s.StartTime.String(),
		EndTime:     s.EndTime.String(),
		IsBooked:    s.IsBooked,
		BookedBy:    s.BookedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// FromDomainSlotList конвертирует список domain моделей в DTO
func FromDomainSlotList(slots []*domain.TimeSlot) *SlotListResponse {
	resp := &SlotListResponse{
		Slots: make([]SlotResponse, 0, len(slots)),
	}

	for _, s := range slots {
		if converted := FromDomainSlot(s); converted != nil {
			resp.Slots = append(resp.Slots, *converted)
		}
	}

	return resp
}
