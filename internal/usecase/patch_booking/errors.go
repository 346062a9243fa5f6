package patch_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("patch_booking: booking not found")

	// ErrItemNotFound возвращается, когда вещь бронирования не найдена
	ErrItemNotFound = errors.New("patch_booking: item not found")

	// ErrAccessDenied возвращается, когда роль не позволяет изменение
	ErrAccessDenied = errors.New("patch_booking: access denied")

	// ErrInvalidTimeRange возвращается при некорректном новом окне
	ErrInvalidTimeRange = errors.New("patch_booking: invalid time range")

	// ErrSlotTaken возвращается, когда новое окно пересекается с подтвержденным бронированием
	ErrSlotTaken = errors.New("patch_booking: time slot is already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("patch_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("patch_booking: internal error")
)
