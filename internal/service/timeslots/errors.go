package timeslots

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("time slot not found")

	// ErrSlotBooked возвращается при попытке изменить или удалить занятый слот
	ErrSlotBooked = errors.New("time slot is booked")

	// ErrDuplicateSlot возвращается, когда изменение приводит к конфликту
	// с другим слотом на ту же дату и время
	ErrDuplicateSlot = errors.New("time slot already exists at this date and time")

	// ErrAccessDenied возвращается, когда слот принадлежит другому терапевту
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
