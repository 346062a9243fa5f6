package check_comment_eligibility

//go:generate mockgen -source=contract.go -destination=mocks/mock_contract.go -package=mocks

import (
	"context"

	"github.com/m04kA/ShareIt-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	CheckCommentEligibility(ctx context.Context, itemID, userID int64) (*models.EligibilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
