package create_booking

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/m04kA/ShareIt-BookingService/internal/api/handlers/create_booking/mocks"
	"github.com/m04kA/ShareIt-BookingService/internal/api/middleware"
	createBooking "github.com/m04kA/ShareIt-BookingService/internal/usecase/create_booking"
)

func newLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any(), gomock.Any()).AnyTimes()
	return logger
}

func doRequest(h *Handler, body string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	w := httptest.NewRecorder()
	h.Handle(w, req)
	return w
}

const validBody = `{"itemId":10,"start":"2026-04-02T10:00:00Z","end":"2026-04-02T12:00:00Z"}`

func TestHandler_Created(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockCreateBookingUseCase(ctrl)
	h := NewHandler(uc, newLogger(ctrl))

	uc.EXPECT().
		Execute(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
			assert.Equal(t, int64(2), req.BookerID)
			assert.Equal(t, int64(10), req.ItemID)
			assert.Equal(t, time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC), req.Start.UTC())
			return &createBooking.Response{ID: 1, ItemID: 10, BookerID: 2, Status: "WAITING", State: "WAITING"}, nil
		})

	w := doRequest(h, validBody, 2)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"WAITING"`)
}

func TestHandler_BadInput(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		userID int64
		status int
	}{
		{"missing user", validBody, 0, http.StatusUnauthorized},
		{"invalid json", "{", 2, http.StatusBadRequest},
		{"missing end", `{"itemId":10,"start":"2026-04-02T10:00:00Z"}`, 2, http.StatusBadRequest},
		{"end before start", `{"itemId":10,"start":"2026-04-02T12:00:00Z","end":"2026-04-02T10:00:00Z"}`, 2, http.StatusBadRequest},
		{"equal bounds", `{"itemId":10,"start":"2026-04-02T12:00:00Z","end":"2026-04-02T12:00:00Z"}`, 2, http.StatusBadRequest},
		{"bad time format", `{"itemId":10,"start":"tomorrow","end":"2026-04-02T10:00:00Z"}`, 2, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			uc := mocks.NewMockCreateBookingUseCase(ctrl)
			h := NewHandler(uc, newLogger(ctrl))

			w := doRequest(h, tt.body, tt.userID)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandler_UseCaseErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"slot taken", createBooking.ErrSlotTaken, http.StatusConflict},
		{"user not found", createBooking.ErrUserNotFound, http.StatusNotFound},
		{"item not found", createBooking.ErrItemNotFound, http.StatusNotFound},
		{"item unavailable", createBooking.ErrItemUnavailable, http.StatusBadRequest},
		{"invalid range", createBooking.ErrInvalidTimeRange, http.StatusBadRequest},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			uc := mocks.NewMockCreateBookingUseCase(ctrl)
			h := NewHandler(uc, newLogger(ctrl))

			uc.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			w := doRequest(h, validBody, 2)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
