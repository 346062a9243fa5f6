package models

import (
	"time"

	"github.com/m04kA/ShareIt-BookingService/internal/domain"
)

// Request модели

// GetBookerBookingsRequest запрос бронирований пользователя
type GetBookerBookingsRequest struct {
	BookerID int64
	State    domain.BookingState
	Offset   int
	Limit    int
}

// GetOwnerBookingsRequest запрос бронирований вещей владельца
type GetOwnerBookingsRequest struct {
	OwnerID int64
	State   domain.BookingState
}

// Response модели

// BookingResponse представление бронирования: статус хранится, state вычисляется на момент ответа
type BookingResponse struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"itemId"`
	BookerID  int64     `json:"bookerId"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Status    string    `json:"status"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// EligibilityResponse может ли пользователь оставить комментарий к вещи
type EligibilityResponse struct {
	ItemID   int64 `json:"itemId"`
	UserID   int64 `json:"userId"`
	Eligible bool  `json:"eligible"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking, now time.Time) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:        b.ID,
		ItemID:    b.ItemID,
		BookerID:  b.BookerID,
		Start:     b.Start,
		End:       b.End,
		Status:    string(b.Status),
		State:     string(b.State(now)),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking, now time.Time) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking, now); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}
