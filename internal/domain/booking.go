package domain

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/m04kA/TMS-SchedulingService/pkg/types"
)

// BookingStatus статус бронирования
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no-show"
)

// UpdatableStatuses статусы, доступные операции обновления статуса
// Отмена имеет собственную операцию с освобождением слота и в этот список не входит
var UpdatableStatuses = []BookingStatus{
	StatusConfirmed,
	StatusCompleted,
	StatusNoShow,
}

// Booking бронирование одного слота пациентом
// Данные сессии денормализованы на момент создания и не меняются
// при последующем редактировании слота
type Booking struct {
	ID     int64
	Number string // Человекочитаемый идентификатор "BK...", уникальный и неизменяемый

	PatientID   int64
	TherapistID int64
	TimeSlotID  int64

	SessionDate      time.Time
	SessionStartTime types.TimeString
	SessionEndTime   types.TimeString

	Status BookingStatus
	Notes  *string

	CancellationReason *string
	CancelledBy        *int64
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCancelled проверяет, что бронирование отменено
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// BookingsFilter фильтр для выборки бронирований пациента или терапевта
type BookingsFilter struct {
	Status    *BookingStatus // Фильтр по статусу (опционально)
	StartDate *time.Time     // Начало периода по дате сессии (включительно, опционально)
	EndDate   *time.Time     // Конец периода по дате сессии (включительно, опционально)
}

// bookingNumberAlphabet алфавит случайного суффикса номера бронирования
const bookingNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

const bookingNumberSuffixLen = 5

// NewBookingNumber генерирует человекочитаемый номер бронирования
// вида "BK<unix-millis><5 случайных символов>". Уникальность гарантирует
// уникальный индекс в БД, случайный суффикс защищает от коллизий в одну миллисекунду
func NewBookingNumber(now time.Time) string {
	var sb strings.Builder
	for i := 0; i < bookingNumberSuffixLen; i++ {
		sb.WriteByte(bookingNumberAlphabet[rand.Intn(len(bookingNumberAlphabet))])
	}
	return fmt.Sprintf("BK%d%s", now.UnixMilli(), sb.String())
}

// ValidStatus проверяет, что строка является допустимым статусом бронирования
func ValidStatus(s string) bool {
	switch BookingStatus(s) {
	case StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// ValidUpdatableStatus проверяет, что статус допустим для операции обновления статуса
func ValidUpdatableStatus(s BookingStatus) bool {
	for _, valid := range UpdatableStatuses {
		if s == valid {
			return true
		}
	}
	return false
}
