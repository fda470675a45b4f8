package generate_slots

import (
	"time"

	"github.com/m04kA/TMS-SchedulingService/pkg/types"
)

// Request модель запроса на генерацию слотов из шаблона
type Request struct {
	TherapistID int64     // ID терапевта (из аутентификации)
	TemplateID  int64     // ID шаблона доступности
	StartDate   time.Time // Начало диапазона дат (включительно)
	EndDate     time.Time // Конец диапазона дат (включительно)
}

// SlotInfo краткая информация о слоте в ответе
type SlotInfo struct {
	ID        int64            // ID слота
	SlotDate  time.Time        // Дата слота
	StartTime types.TimeString // Время начала сеанса
	EndTime   types.TimeString // Время окончания сеанса
}

// SkippedInfo информация о пропущенном кандидате (слот уже существует)
type SkippedInfo struct {
	SlotDate  time.Time        // Дата слота
	StartTime types.TimeString // Время начала сеанса
}

// Response модель ответа с результатом генерации
type Response struct {
	CreatedCount int           // Количество созданных слотов
	SkippedCount int           // Количество пропущенных кандидатов
	Created      []SlotInfo    // Созданные слоты
	Skipped      []SkippedInfo // Пропущенные кандидаты
}
