package generate_slots

import (
	"time"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
	generateSlots "github.com/m04kA/TMS-SchedulingService/internal/usecase/generate_slots"
)

// GenerateSlotsRequest HTTP request model
type GenerateSlotsRequest struct {
	StartDate string `json:"startDate"` // "2025-10-01"
	EndDate   string `json:"endDate"`   // "2025-10-31"
}

// GeneratedSlot модель созданного слота
type GeneratedSlot struct {
	ID        int64  `json:"id"`
	SlotDate  string `json:"slotDate"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// SkippedSlot модель пропущенного кандидата
type SkippedSlot struct {
	SlotDate  string `json:"slotDate"`
	StartTime string `json:"startTime"`
}

// GenerateSlotsResponse HTTP response model
type GenerateSlotsResponse struct {
	CreatedCount int             `json:"createdCount"`
	SkippedCount int             `json:"skippedCount"`
	Created      []GeneratedSlot `json:"created"`
	Skipped      []SkippedSlot   `json:"skipped"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *GenerateSlotsRequest) ToUseCaseRequest(therapistID, templateID int64) (*generateSlots.Request, error) {
	startDate, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return nil, err
	}

	endDate, err := time.Parse(domain.DateFormat, r.EndDate)
	if err != nil {
		return nil, err
	}

	return &generateSlots.Request{
		TherapistID: therapistID,
		TemplateID:  templateID,
		StartDate:   startDate,
		EndDate:     endDate,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *generateSlots.Response) *GenerateSlotsResponse {
	created := make([]GeneratedSlot, len(resp.Created))
	for i, s := range resp.Created {
		created[i] = GeneratedSlot{
			ID:        s.ID,
			SlotDate:  s.SlotDate.Format(domain.DateFormat),
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
		}
	}

	skipped := make([]SkippedSlot, len(resp.Skipped))
	for i, s := range resp.Skipped {
		skipped[i] = SkippedSlot{
			SlotDate:  s.SlotDate.Format(domain.DateFormat),
			StartTime: s.StartTime.String(),
		}
	}

	return &GenerateSlotsResponse{
		CreatedCount: resp.CreatedCount,
		SkippedCount: resp.SkippedCount,
		Created:      created,
		Skipped:      skipped,
	}
}
