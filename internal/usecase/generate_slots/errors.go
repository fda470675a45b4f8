package generate_slots

import "errors"

var (
	// ErrTemplateNotFound возвращается, когда шаблон доступности не найден
	ErrTemplateNotFound = errors.New("generate_slots: availability template not found")

	// ErrTemplateDeleted возвращается, когда шаблон был удален
	ErrTemplateDeleted = errors.New("generate_slots: availability template is deleted")

	// ErrForbidden возвращается, когда шаблон принадлежит другому терапевту
	ErrForbidden = errors.New("generate_slots: template belongs to another therapist")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("generate_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("generate_slots: internal error")
)
