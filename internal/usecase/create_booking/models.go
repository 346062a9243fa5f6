package create_booking

import (
	"time"

	"github.com/m04kA/ShareIt-BookingService/internal/service/bookings/models"
)

// Request модель запроса на создание бронирования
type Request struct {
	BookerID int64     // ID бронирующего пользователя (из заголовка)
	ItemID   int64     // ID вещи
	Start    time.Time // Начало окна (включительно)
	End      time.Time // Конец окна (исключительно)
}

// Response созданное бронирование
type Response = models.BookingResponse
