package check_comment_eligibility

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/m04kA/ShareIt-BookingService/internal/api/handlers/check_comment_eligibility/mocks"
	"github.com/m04kA/ShareIt-BookingService/internal/service/bookings/models"
)

func newLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any(), gomock.Any()).AnyTimes()
	return logger
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/internal/items/{itemId}/bookers/{userId}/eligibility", h.Handle)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockBookingService(ctrl)
	h := NewHandler(svc, newLogger(ctrl))

	svc.EXPECT().CheckCommentEligibility(gomock.Any(), int64(10), int64(2)).
		Return(&models.EligibilityResponse{ItemID: 10, UserID: 2, Eligible: true}, nil)

	w := serve(h, "/internal/items/10/bookers/2/eligibility")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"itemId":10,"userId":2,"eligible":true}`, w.Body.String())
}

func TestHandler_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockBookingService(ctrl)
	h := NewHandler(svc, newLogger(ctrl))

	assert.Equal(t, http.StatusBadRequest, serve(h, "/internal/items/x/bookers/2/eligibility").Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "/internal/items/10/bookers/0/eligibility").Code)

	svc.EXPECT().CheckCommentEligibility(gomock.Any(), int64(10), int64(2)).Return(nil, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, serve(h, "/internal/items/10/bookers/2/eligibility").Code)
}
