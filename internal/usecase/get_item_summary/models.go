package get_item_summary

import "github.com/m04kA/ShareIt-BookingService/internal/service/bookings/models"

// Request запрос сводки бронирований вещи
type Request struct {
	ItemID      int64
	RequesterID int64 // должен быть владельцем вещи
}

// Response последнее и ближайшее подтвержденные бронирования вещи
type Response struct {
	ItemID      int64                   `json:"itemId"`
	LastBooking *models.BookingResponse `json:"lastBooking"`
	NextBooking *models.BookingResponse `json:"nextBooking"`
}
