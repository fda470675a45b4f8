package timeslot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден или мягко удалён
	ErrSlotNotFound = errors.New("timeslot.repository: slot not found")

	// ErrDuplicateSlot возвращается при попытке вставить слот,
	// нарушающий уникальность (therapist_id, slot_date, start_time)
	ErrDuplicateSlot = errors.New("timeslot.repository: duplicate slot")

	// ErrAlreadyBooked возвращается, когда условная пометка брони
	// не прошла: слот уже забронирован
	ErrAlreadyBooked = errors.New("timeslot.repository: slot already booked")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("timeslot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("timeslot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("timeslot.repository: failed to scan row")
)
