package delete_booking

//go:generate mockgen -source=contract.go -destination=mocks/mock_contract.go -package=mocks

import "context"

type BookingService interface {
	Delete(ctx context.Context, id int64, userID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
