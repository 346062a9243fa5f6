package get_item_summary

import (
	"time"

	"github.com/m04kA/ShareIt-BookingService/internal/domain"
)

// lastAndNext выбирает среди APPROVED бронирований последнее начавшееся до now
// и ближайшее начинающееся после now
func lastAndNext(bookings []*domain.Booking, now time.Time) (last, next *domain.Booking) {
	for _, b := range bookings {
		if b.Status != domain.StatusApproved {
			continue
		}

		switch {
		case b.Start.Before(now):
			if last == nil || b.Start.After(last.Start) {
				last = b
			}
		case b.Start.After(now):
			if next == nil || b.Start.Before(next.Start) {
				next = b
			}
		}
	}
	return last, next
}
