package generate_slots

import (
	"github.com/m04kA/TMS-SchedulingService/pkg/types"
)

// sessionWindow одно окно сеанса внутри рабочего интервала шаблона
type sessionWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// buildSessionWindows раскладывает рабочий интервал шаблона на окна сеансов.
// Курсор идет от startTime; окно добавляется, пока конец сеанса не выходит
// за endTime, после чего курсор сдвигается на длительность сеанса плюс перерыв.
// Невозможная раскладка (интервал короче сеанса, start >= end) дает пустой результат.
func buildSessionWindows(startTime, endTime types.TimeString, sessionMinutes, breakMinutes int) ([]sessionWindow, error) {
	var windows []sessionWindow

	if sessionMinutes <= 0 || breakMinutes < 0 {
		return windows, nil
	}

	cursor := startTime
	for {
		sessionEnd, err := cursor.AddMinutes(sessionMinutes)
		if err != nil {
			// Вышли за пределы суток
			break
		}

		if sessionEnd.IsAfter(endTime) {
			break
		}

		windows = append(windows, sessionWindow{Start: cursor, End: sessionEnd})

		next, err := cursor.AddMinutes(sessionMinutes + breakMinutes)
		if err != nil {
			break
		}
		cursor = next
	}

	return windows, nil
}
