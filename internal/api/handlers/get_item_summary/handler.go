package get_item_summary

import (
	"errors"
	"net/http"

	"github.com/m04kA/ShareIt-BookingService/internal/api/handlers"
	"github.com/m04kA/ShareIt-BookingService/internal/api/middleware"
	getItemSummary "github.com/m04kA/ShareIt-BookingService/internal/usecase/get_item_summary"
)

const (
	msgInvalidItemID = "некорректный ID вещи"
	msgMissingUserID = "отсутствует ID пользователя"
	msgItemNotFound  = "вещь не найдена"
	msgForbidden     = "сводка бронирований доступна только владельцу вещи"
)

type Handler struct {
	useCase ItemSummaryUseCase
	logger  Logger
}

func NewHandler(useCase ItemSummaryUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/items/{itemId}/bookings/summary
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	itemID, ok := handlers.PathInt64(r, "itemId")
	if !ok {
		h.logger.Warn("GET /items/{itemId}/bookings/summary - Invalid item ID: %s", r.URL.Path)
		handlers.RespondBadRequest(w, msgInvalidItemID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /items/{itemId}/bookings/summary - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getItemSummary.Request{
		ItemID:      itemID,
		RequesterID: userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, getItemSummary.ErrItemNotFound):
			h.logger.Warn("GET /items/{itemId}/bookings/summary - Item not found: item_id=%d", itemID)
			handlers.RespondNotFound(w, msgItemNotFound)

		case errors.Is(err, getItemSummary.ErrAccessDenied):
			h.logger.Warn("GET /items/{itemId}/bookings/summary - Access denied: item_id=%d, user_id=%d", itemID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, getItemSummary.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidItemID)

		default:
			h.logger.Error("GET /items/{itemId}/bookings/summary - Failed: item_id=%d, error=%v", itemID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /items/{itemId}/bookings/summary - Summary retrieved: item_id=%d", itemID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
