package patch_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/ShareIt-BookingService/internal/api/handlers"
	"github.com/m04kA/ShareIt-BookingService/internal/api/middleware"
	patchBooking "github.com/m04kA/ShareIt-BookingService/internal/usecase/patch_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidApproved    = "параметр approved должен быть true или false"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgItemNotFound       = "вещь не найдена"
	msgForbidden          = "доступ запрещен"
	msgInvalidTimeRange   = "некорректный интервал бронирования"
	msgSlotTaken          = "выбранное время уже занято"
	msgInvalidInput       = "некорректные данные для изменения бронирования"
)

type Handler struct {
	useCase PatchBookingUseCase
	logger  Logger
}

func NewHandler(useCase PatchBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}
// С параметром ?approved=true|false владелец подтверждает или отклоняет бронирование,
// без него тело запроса частично меняет окно и/или статус
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := handlers.PathInt64(r, "bookingId")
	if !ok {
		h.logger.Warn("PATCH /bookings/{id} - Invalid booking ID: %s", r.URL.Path)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var (
		result *patchBooking.Response
		err    error
	)

	if raw, present := r.URL.Query()["approved"]; present {
		approve, parseErr := strconv.ParseBool(raw[0])
		if parseErr != nil {
			h.logger.Warn("PATCH /bookings/{id} - Invalid approved value: %q", raw[0])
			handlers.RespondBadRequest(w, msgInvalidApproved)
			return
		}
		result, err = h.useCase.Accept(r.Context(), bookingID, userID, approve)
	} else {
		var req PatchBookingRequest
		if decodeErr := handlers.DecodeJSON(r, &req); decodeErr != nil {
			h.logger.Warn("PATCH /bookings/{id} - Invalid request body: %v", decodeErr)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}

		useCaseReq, convErr := req.ToUseCaseRequest(bookingID, userID)
		if convErr != nil {
			h.logger.Warn("PATCH /bookings/{id} - Failed to parse request: %v", convErr)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
		result, err = h.useCase.Execute(r.Context(), useCaseReq)
	}

	if err != nil {
		switch {
		case errors.Is(err, patchBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, patchBooking.ErrItemNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Item not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgItemNotFound)

		case errors.Is(err, patchBooking.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id} - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, patchBooking.ErrSlotTaken):
			h.logger.Warn("PATCH /bookings/{id} - Slot taken: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, patchBooking.ErrInvalidTimeRange):
			h.logger.Warn("PATCH /bookings/{id} - Invalid time range: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, patchBooking.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id} - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /bookings/{id} - Failed to patch booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id} - Booking updated successfully: booking_id=%d, user_id=%d, status=%s",
		bookingID, userID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
