package itemservice

import "errors"

var (
	// ErrItemNotFound возвращается, когда вещь не найдена
	ErrItemNotFound = errors.New("itemservice client: item not found")

	// ErrOwnerNotFound возвращается, когда владелец не найден
	ErrOwnerNotFound = errors.New("itemservice client: owner not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("itemservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("itemservice client: invalid response")
)
