package domain

import (
	"time"

	"github.com/m04kA/TMS-SchedulingService/pkg/types"
)

// DayOfWeek день недели в шаблоне доступности
type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

// Days все дни недели в порядке понедельник..воскресенье
// Используется для валидации и сортировки шаблонов по дню недели
var Days = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Valid проверяет, что день недели является допустимым значением
func (d DayOfWeek) Valid() bool {
	for _, day := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// OrderIndex возвращает порядковый номер дня недели (понедельник = 0)
// Неизвестный день получает номер после воскресенья
func (d DayOfWeek) OrderIndex() int {
	for i, day := range Days {
		if d == day {
			return i
		}
	}
	return len(Days)
}

// DayOfWeekFromTime возвращает день недели для указанной даты
func DayOfWeekFromTime(t time.Time) DayOfWeek {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// AvailabilityTemplate еженедельный шаблон доступности терапевта
// Один шаблон описывает один день недели: рабочее окно, длительность
// сессии и перерыв между сессиями
type AvailabilityTemplate struct {
	ID                     int64
	TherapistID            int64
	DayOfWeek              DayOfWeek
	StartTime              types.TimeString
	EndTime                types.TimeString
	SessionDurationMinutes int
	BreakMinutes           int
	State                  RecordState

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDeleted проверяет, что шаблон мягко удалён
func (t *AvailabilityTemplate) IsDeleted() bool {
	return t.State == StateDeleted
}

// FitsAtLeastOneSession проверяет, что в рабочее окно помещается
// хотя бы одна полная сессия
func (t *AvailabilityTemplate) FitsAtLeastOneSession() bool {
	start, err := t.StartTime.Minutes()
	if err != nil {
		return false
	}
	end, err := t.EndTime.Minutes()
	if err != nil {
		return false
	}
	return end-start >= t.SessionDurationMinutes
}
