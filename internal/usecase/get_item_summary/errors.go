package get_item_summary

import "errors"

var (
	// ErrItemNotFound возвращается, когда вещь не найдена
	ErrItemNotFound = errors.New("get_item_summary: item not found")

	// ErrAccessDenied возвращается, когда запрашивает не владелец
	ErrAccessDenied = errors.New("get_item_summary: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_item_summary: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_item_summary: internal error")
)
