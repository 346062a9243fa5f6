package events

import (
	"time"

	"github.com/m04kA/ShareIt-BookingService/internal/domain"
)

// EventType ключ маршрутизации события в topic exchange
type EventType string

const (
	EventCreated  EventType = "booking.created"
	EventUpdated  EventType = "booking.updated"
	EventApproved EventType = "booking.approved"
	EventRejected EventType = "booking.rejected"
	EventCanceled EventType = "booking.canceled"
	EventDeleted  EventType = "booking.deleted"
)

// ForStatus возвращает событие смены статуса, для WAITING событие обновления
func ForStatus(status domain.BookingStatus) EventType {
	switch status {
	case domain.StatusApproved:
		return EventApproved
	case domain.StatusRejected:
		return EventRejected
	case domain.StatusCanceled:
		return EventCanceled
	default:
		return EventUpdated
	}
}

// BookingEvent тело сообщения
type BookingEvent struct {
	EventID    string    `json:"event_id"`
	BookingID  int64     `json:"booking_id"`
	ItemID     int64     `json:"item_id"`
	BookerID   int64     `json:"booker_id"`
	Status     string    `json:"status"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	OccurredAt time.Time `json:"occurred_at"`
}
