package domain

// Business validation constants
const (
	MinSessionDurationMinutes = 15
	MaxSessionDurationMinutes = 240 // 4 hours

	MinBreakMinutes = 0
	MaxBreakMinutes = 60 // 1 hour

	MaxNotesLength              = 1000
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// RecordState состояние жизненного цикла записи (мягкое удаление)
// Вместо булевого флага active используется явное состояние,
// чтобы причина деактивации оставалась доступной для запросов
type RecordState string

const (
	StateActive  RecordState = "active"
	StateDeleted RecordState = "deleted"
)

// Valid проверяет, что состояние является допустимым
func (s RecordState) Valid() bool {
	return s == StateActive || s == StateDeleted
}
