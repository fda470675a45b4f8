package templates

import (
	"fmt"

	"github.com/m04kA/TMS-SchedulingService/internal/domain"
)

// validateTemplate проверяет согласованность полей шаблона.
// Вызывается и при создании, и после применения частичного обновления,
// поэтому комбинация старых и новых полей всегда проходит полную проверку
func validateTemplate(tpl *domain.AvailabilityTemplate) error {
	if tpl.TherapistID <= 0 {
		return fmt.Errorf("%w: therapistID must be positive", ErrInvalidInput)
	}

	if !tpl.DayOfWeek.Valid() {
		return fmt.Errorf("%w: unknown day of week %q", ErrInvalidInput, tpl.DayOfWeek)
	}

	if err := tpl.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	if err := tpl.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}

	if !tpl.StartTime.IsBefore(tpl.EndTime) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	if tpl.SessionDurationMinutes < domain.MinSessionDurationMinutes ||
		tpl.SessionDurationMinutes > domain.MaxSessionDurationMinutes {
		return fmt.Errorf("%w: sessionDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSessionDurationMinutes, domain.MaxSessionDurationMinutes)
	}

	if tpl.BreakMinutes < domain.MinBreakMinutes || tpl.BreakMinutes > domain.MaxBreakMinutes {
		return fmt.Errorf("%w: breakMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBreakMinutes, domain.MaxBreakMinutes)
	}

	if !tpl.FitsAtLeastOneSession() {
		return fmt.Errorf("%w: working window is shorter than one session", ErrInvalidInput)
	}

	return nil
}
