package check_comment_eligibility

import (
	"net/http"

	"github.com/m04kA/ShareIt-BookingService/internal/api/handlers"
)

const (
	msgInvalidItemID = "некорректный ID вещи"
	msgInvalidUserID = "некорректный ID пользователя"
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

// Handle GET /internal/items/{itemId}/bookers/{userId}/eligibility
// Внутренний эндпоинт для ItemService: можно ли пользователю комментировать вещь
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	itemID, ok := handlers.PathInt64(r, "itemId")
	if !ok {
		h.logger.Warn("GET /internal/items/{itemId}/bookers/{userId}/eligibility - Invalid item ID: %s", r.URL.Path)
		handlers.RespondBadRequest(w, msgInvalidItemID)
		return
	}

	userID, ok := handlers.PathInt64(r, "userId")
	if !ok {
		h.logger.Warn("GET /internal/items/{itemId}/bookers/{userId}/eligibility - Invalid user ID: %s", r.URL.Path)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	result, err := h.service.CheckCommentEligibility(r.Context(), itemID, userID)
	if err != nil {
		h.logger.Error("GET /internal/items/{itemId}/bookers/{userId}/eligibility - Failed: item_id=%d, user_id=%d, error=%v",
			itemID, userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /internal/items/{itemId}/bookers/{userId}/eligibility - item_id=%d, user_id=%d, eligible=%t",
		itemID, userID, result.Eligible)
	handlers.RespondJSON(w, http.StatusOK, result)
}
