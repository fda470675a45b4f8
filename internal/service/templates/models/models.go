package models

import (
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
)

// Request модели

// CreateTemplateRequest запрос на создание шаблона доступности
type CreateTemplateRequest struct {
	DayOfWeek              string `json:"dayOfWeek"`
	StartTime              string `json:"startTime"` // "09:00"
	EndTime                string `json:"endTime"`   // "17:00"
	SessionDurationMinutes int    `json:"sessionDurationMinutes"`
	BreakMinutes           int    `json:"breakMinutes"`
}

// UpdateTemplateRequest запрос на частичное обновление шаблона
// Указываются только изменяемые поля
type UpdateTemplateRequest struct {
	DayOfWeek              *string `json:"dayOfWeek,omitempty"`
	StartTime              *string `json:"startTime,omitempty"`
	EndTime                *string `json:"endTime,omitempty"`
	SessionDurationMinutes *int    `json:"sessionDurationMinutes,omitempty"`
	BreakMinutes           *int    `json:"breakMinutes,omitempty"`
}

// Response модели

// TemplateResponse ответ с данными шаблона
type TemplateResponse struct {
	ID                     int64     `json:"id"`
	TherapistID            int64     `json:"therapistId"`
	DayOfWeek              string    `json:"dayOfWeek"`
	StartTime              string    `json:"startTime"`
	EndTime                string    `json:"endTime"`
	SessionDurationMinutes int       `json:"sessionDurationMinutes"`
	BreakMinutes           int       `json:"breakMinutes"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// TemplateListResponse ответ со списком шаблонов
type TemplateListResponse struct {
	Templates []TemplateResponse `json:"templates"`
}

// Методы конвертации

// FromDomainTemplate конвертирует domain модель в DTO
func FromDomainTemplate(t *domain.AvailabilityTemplate) *TemplateResponse {
	if t == nil {
		return nil
	}

	return &TemplateResponse{
		ID:                     t.ID,
		TherapistID:            t.TherapistID,
		DayOfWeek:              string(t.DayOfWeek),
		StartTime:              t.StartTime.String(),
		EndTime:                t.EndTime.String(),
		SessionDurationMinutes: t.SessionDurationMinutes,
		BreakMinutes:           t.BreakMinutes,
		CreatedAt:              t.CreatedAt,
		UpdatedAt:              t.UpdatedAt,
	}
}

// FromDomainTemplateList конвертирует список domain моделей в DTO
func FromDomainTemplateList(templates []*domain.AvailabilityTemplate) *TemplateListResponse {
	resp := &TemplateListResponse{
		Templates: make([]TemplateResponse, 0, len(templates)),
	}

	for _, t := range templates {
		if converted := FromDomainTemplate(t); converted != nil {
			resp.Templates = append(resp.Templates, *converted)
		}
	}

	return resp
}
