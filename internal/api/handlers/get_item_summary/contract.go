package get_item_summary

//go:generate mockgen -source=contract.go -destination=mocks/mock_contract.go -package=mocks

import (
	"context"

	getItemSummary "github.com/m04kA/ShareIt-BookingService/internal/usecase/get_item_summary"
)

type ItemSummaryUseCase interface {
	Execute(ctx context.Context, req *getItemSummary.Request) (*getItemSummary.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
