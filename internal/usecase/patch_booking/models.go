package patch_booking

import (
	"time"

	"github.com/m04kA/ShareIt-BookingService/internal/domain"
	"github.com/m04kA/ShareIt-BookingService/internal/service/bookings/models"
)

// Request частичное изменение бронирования, nil поля не меняются
type Request struct {
	BookingID   int64
	RequesterID int64
	Start       *time.Time
	End         *time.Time
	Status      *domain.BookingStatus
}

func (r *Request) changesWindow() bool {
	return r.Start != nil || r.End != nil
}

// Response обновленное бронирование
type Response = models.BookingResponse
