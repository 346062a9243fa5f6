package get_item_summary

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/m04kA/ShareIt-BookingService/internal/api/handlers/get_item_summary/mocks"
	"github.com/m04kA/ShareIt-BookingService/internal/api/middleware"
	"github.com/m04kA/ShareIt-BookingService/internal/service/bookings/models"
	getItemSummary "github.com/m04kA/ShareIt-BookingService/internal/usecase/get_item_summary"
)

func newLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any(), gomock.Any()).AnyTimes()
	return logger
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name   string
		resp   *getItemSummary.Response
		err    error
		status int
	}{
		{"ok", &getItemSummary.Response{ItemID: 10, NextBooking: &models.BookingResponse{ID: 3}}, nil, http.StatusOK},
		{"item not found", nil, getItemSummary.ErrItemNotFound, http.StatusNotFound},
		{"not owner", nil, getItemSummary.ErrAccessDenied, http.StatusForbidden},
		{"internal", nil, errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			uc := mocks.NewMockItemSummaryUseCase(ctrl)
			h := NewHandler(uc, newLogger(ctrl))

			uc.EXPECT().
				Execute(gomock.Any(), &getItemSummary.Request{ItemID: 10, RequesterID: 1}).
				Return(tt.resp, tt.err)

			r := mux.NewRouter()
			r.HandleFunc("/items/{itemId}/bookings/summary", h.Handle)
			req := httptest.NewRequest(http.MethodGet, "/items/10/bookings/summary", nil)
			req = req.WithContext(middleware.WithUserID(req.Context(), 1))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
