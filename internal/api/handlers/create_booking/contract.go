package create_booking

//go:generate mockgen -source=contract.go -destination=mocks/mock_contract.go -package=mocks

import (
	"context"

	createBooking "github.com/m04kA/ShareIt-BookingService/internal/usecase/create_booking"
)

type CreateBookingUseCase interface {
	Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
