package get_booker_bookings

//go:generate mockgen -source=contract.go -destination=mocks/mock_contract.go -package=mocks

import (
	"context"

	"github.com/m04kA/ShareIt-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetBookerBookings(ctx context.Context, req *models.GetBookerBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
