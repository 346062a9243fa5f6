package patch_booking

//go:generate mockgen -source=contract.go -destination=mocks/mock_contract.go -package=mocks

import (
	"context"

	patchBooking "github.com/m04kA/ShareIt-BookingService/internal/usecase/patch_booking"
)

type PatchBookingUseCase interface {
	Execute(ctx context.Context, req *patchBooking.Request) (*patchBooking.Response, error)
	Accept(ctx context.Context, bookingID, ownerID int64, approve bool) (*patchBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
