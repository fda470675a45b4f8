package domain

import (
	"time"

	"github.com/m04kA/TMS-SchedulingService/pkg/types"
)

// TimeSlot конкретный датированный слот, сгенерированный из шаблона
// доступности или созданный администратором вручную
type TimeSlot struct {
	ID          int64
	TherapistID int64
	TemplateID  int64
	SlotDate    time.Time // Дата слота (без времени суток)
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsBooked    bool
	BookedBy    *int64 // ID пациента, nil если слот свободен
	State       RecordState

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDeleted проверяет, что слот мягко удалён
func (s *TimeSlot) IsDeleted() bool {
	return s.State == StateDeleted
}

// IsAvailable проверяет, что слот активен и не забронирован
func (s *TimeSlot) IsAvailable() bool {
	return s.State == StateActive && !s.IsBooked
}

// SlotFilter фильтр для выборки слотов терапевта
type SlotFilter struct {
	TherapistID int64      // Обязательный параметр
	StartDate   *time.Time // Начало периода (включительно, опционально)
	EndDate     *time.Time // Конец периода (включительно, опционально)
	IsBooked    *bool      // Фильтр по занятости (опционально)
	FromDate    *time.Time // Нижняя граница даты: слоты раньше неё не возвращаются
}
