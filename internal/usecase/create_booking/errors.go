package create_booking

import "errors"

var (
	// ErrUserNotFound возвращается, когда бронирующий пользователь не найден
	ErrUserNotFound = errors.New("create_booking: user not found")

	// ErrItemNotFound возвращается, когда вещь не найдена
	ErrItemNotFound = errors.New("create_booking: item not found")

	// ErrItemUnavailable возвращается, когда вещь недоступна для бронирования
	ErrItemUnavailable = errors.New("create_booking: item is unavailable")

	// ErrInvalidTimeRange возвращается при некорректном окне бронирования
	ErrInvalidTimeRange = errors.New("create_booking: invalid time range")

	// ErrSlotTaken возвращается, когда окно пересекается с подтвержденным бронированием
	ErrSlotTaken = errors.New("create_booking: time slot is already taken")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
