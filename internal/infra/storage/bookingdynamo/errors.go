package bookingdynamo

import (
	"errors"
	"fmt"

	"github.com/m04kA/ShareIt-BookingService/internal/infra/storage/booking"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("booking.dynamo: %w", booking.ErrBookingNotFound)

	// ErrMarshal возвращается при ошибке преобразования в атрибуты DynamoDB и обратно
	ErrMarshal = errors.New("booking.dynamo: failed to marshal item")

	// ErrRequest возвращается при ошибке запроса к DynamoDB
	ErrRequest = errors.New("booking.dynamo: request failed")

	// ErrItemConflict возвращается, когда бронирования вещи изменились после чтения
	ErrItemConflict = errors.New("booking.dynamo: item changed concurrently")
)
