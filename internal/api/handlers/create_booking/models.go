package create_booking

import (
	"errors"

	"github.com/m04kA/ShareIt-BookingService/internal/api/handlers"
	createBooking "github.com/m04kA/ShareIt-BookingService/internal/usecase/create_booking"
)

var (
	errMissingField      = errors.New("itemId, start and end are required")
	errStartNotBeforeEnd = errors.New("start must be before end")
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	ItemID int64  `json:"itemId"`
	Start  string `json:"start"` // RFC 3339, "2026-04-02T10:00:00Z"
	End    string `json:"end"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(bookerID int64) (*createBooking.Request, error) {
	if r.ItemID <= 0 || r.Start == "" || r.End == "" {
		return nil, errMissingField
	}

	start, err := handlers.ParseTime(r.Start)
	if err != nil {
		return nil, err
	}
	end, err := handlers.ParseTime(r.End)
	if err != nil {
		return nil, err
	}

	if !start.Before(end) {
		return nil, errStartNotBeforeEnd
	}

	return &createBooking.Request{
		BookerID: bookerID,
		ItemID:   r.ItemID,
		Start:    start,
		End:      end,
	}, nil
}
