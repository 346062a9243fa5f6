package get_booker_bookings

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
	msgInvalidPaging   = "параметры from и size должны быть целыми числами"
	msgInvalidInput    = "from должен быть >= 0, size должен быть > 0"
	msgUserNotFound    = "пользователь не найден"
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

// Handle GET /api/v1/bookings?state=&from=&size=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	rawState := r.URL.Query().Get("state")
	state, err := domain.ParseBookingState(rawState)
	if err != nil {
		h.logger.Warn("GET /bookings - Unknown state: %q", rawState)
		handlers.RespondBadRequest(w, fmt.Sprintf(msgUnknownStateFmt, rawState))
		return
	}

	from, err := handlers.QueryInt(r, "from", domain.DefaultPageOffset)
	if err != nil {
		h.logger.Warn("GET /bookings - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPaging)
		return
	}
	size, err := handlers.QueryInt(r, "size", domain.DefaultPageLimit)
	if err != nil {
		h.logger.Warn("GET /bookings - Invalid size: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPaging)
		return
	}

	result, err := h.service.GetBookerBookings(r.Context(), &models.GetBookerBookingsRequest{
		BookerID: userID,
		State:    state,
		Offset:   from,
		Limit:    size,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings - Invalid pagination: from=%d, size=%d", from, size)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, bookings.ErrUserNotFound):
			h.logger.Warn("GET /bookings - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgUserNotFound)

		default:
			h.logger.Error("GET /bookings - Failed to get bookings: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings - Bookings retrieved successfully: user_id=%d, state=%s, count=%d",
		userID, state, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
