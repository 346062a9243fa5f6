package patch_booking

import (
	"strings"

	"github.com/m04kA/ShareIt-BookingService/internal/api/handlers"
	"github.com/m04kA/ShareIt-BookingService/internal/domain"
	patchBooking "github.com/m04kA/ShareIt-BookingService/internal/usecase/patch_booking"
)

// PatchBookingRequest HTTP request model, отсутствующие поля не меняются
type PatchBookingRequest struct {
	Start  *string `json:"start,omitempty"`
	End    *string `json:"end,omitempty"`
	Status *string `json:"status,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *PatchBookingRequest) ToUseCaseRequest(bookingID, userID int64) (*patchBooking.Request, error) {
	req := &patchBooking.Request{
		BookingID:   bookingID,
		RequesterID: userID,
	}

	if r.Start != nil {
		start, err := handlers.ParseTime(*r.Start)
		if err != nil {
			return nil, err
		}
		req.Start = &start
	}

	if r.End != nil {
		end, err := handlers.ParseTime(*r.End)
		if err != nil {
			return nil, err
		}
		req.End = &end
	}

	if r.Status != nil {
		status := domain.BookingStatus(strings.ToUpper(*r.Status))
		req.Status = &status
	}

	return req, nil
}
