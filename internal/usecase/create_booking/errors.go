package create_booking

import "errors"

var (
	// ErrPatientNotFound возвращается, когда пациент не найден в UserService
	ErrPatientNotFound = errors.New("create_booking: patient not found")

	// ErrSlotNotFound возвращается, когда слот не найден или удален
	ErrSlotNotFound = errors.New("create_booking: time slot not found")

	// ErrSlotAlreadyBooked возвращается, когда слот уже занят другим пациентом
	ErrSlotAlreadyBooked = errors.New("create_booking: time slot is already booked")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
