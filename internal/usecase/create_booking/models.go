package create_booking

import (
	"time"

	"github.com/m04kA/TMS-SchedulingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	PatientID  int64   // ID пациента (из аутентификации)
	TimeSlotID int64   // ID бронируемого слота
	Notes      *string // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          int64  // ID созданного бронирования
	Number      string // Человекочитаемый номер бронирования
	PatientID   int64  // ID пациента
	TherapistID int64  // ID терапевта
	TimeSlotID  int64  // ID слота

	// Снимок параметров сеанса на момент бронирования
	SessionDate      time.Time        // Дата сеанса
	SessionStartTime types.TimeString // Время начала сеанса
	SessionEndTime   types.TimeString // Время окончания сеанса

	Status string  // Статус бронирования
	Notes  *string // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
