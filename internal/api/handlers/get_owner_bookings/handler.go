package get_owner_bookings

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/ShareIt-BookingService/internal/api/handlers"
	"github.com/m04kA/ShareIt-BookingService/internal/api/middleware"
	"github.com/m04kA/ShareIt-BookingService/internal/domain"
	"github.com/m04kA/ShareIt-BookingService/internal/service/bookings"
	"github.com/m04kA/ShareIt-BookingService/internal/service/bookings/models"
)

const (
	msgMissingUserID   = "отсутствует ID пользователя"
	msgUserNotFound    = "пользователь не найден"
	msgNoBookings      = "у пользователя нет вещей для бронирования"
	msgUnknownStateFmt = "Unknown state: %s"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/owner?state=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/owner - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	rawState := r.URL.Query().Get("state")
	state, err := domain.ParseBookingState(rawState)
	if err != nil {
		h.logger.Warn("GET /bookings/owner - Unknown state: %q", rawState)
		handlers.RespondBadRequest(w, fmt.Sprintf(msgUnknownStateFmt, rawState))
		return
	}

	result, err := h.service.GetOwnerBookings(r.Context(), &models.GetOwnerBookingsRequest{
		OwnerID: userID,
		State:   state,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrUserNotFound):
			h.logger.Warn("GET /bookings/owner - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, bookings.ErrNoBookings):
			h.logger.Warn("GET /bookings/owner - Owner has no items: user_id=%d", userID)
			handlers.RespondNotFound(w, msgNoBookings)

		default:
			h.logger.Error("GET /bookings/owner - Failed to get bookings: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/owner - Bookings retrieved successfully: owner_id=%d, state=%s, count=%d",
		userID, state, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
