package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ShareIt-BookingService/pkg/auth"
	"github.com/m04kA/ShareIt-BookingService/pkg/metrics"
)

func echoUserID(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r.Context())
		require.True(t, ok)
		assert.Positive(t, userID)
		w.WriteHeader(http.StatusNoContent)
	})
}

func runAuth(t *testing.T, h http.Handler, header map[string]string, status int) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, status, rec.Code)
}

func TestAuth_Gateway(t *testing.T) {
	h := Auth(nil)(echoUserID(t))

	tests := []struct {
		name   string
		header map[string]string
		status int
	}{
		{"user id header", map[string]string{UserIDHeader: "7"}, http.StatusNoContent},
		{"bad header", map[string]string{UserIDHeader: "abc"}, http.StatusBadRequest},
		{"negative header", map[string]string{UserIDHeader: "-1"}, http.StatusBadRequest},
		{"bearer only", map[string]string{"Authorization": "Bearer whatever"}, http.StatusUnauthorized},
		{"nothing", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runAuth(t, h, tt.header, tt.status)
		})
	}
}

func TestAuth_Token(t *testing.T) {
	verifier := auth.NewVerifier("secret")
	token, err := verifier.Issue(42, time.Hour)
	require.NoError(t, err)

	h := Auth(verifier)(echoUserID(t))

	tests := []struct {
		name   string
		header map[string]string
		status int
	}{
		{"bearer token", map[string]string{"Authorization": "Bearer " + token}, http.StatusNoContent},
		{"bad token", map[string]string{"Authorization": "Bearer nope"}, http.StatusUnauthorized},
		{"user id header only", map[string]string{UserIDHeader: "42"}, http.StatusUnauthorized},
		{"user id header with bad token", map[string]string{
			UserIDHeader:    "42",
			"Authorization": "Bearer nope",
		}, http.StatusUnauthorized},
		{"nothing", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runAuth(t, h, tt.header, tt.status)
		})
	}
}

func TestAuth_TokenWinsOverHeader(t *testing.T) {
	verifier := auth.NewVerifier("secret")
	token, err := verifier.Issue(42, time.Hour)
	require.NoError(t, err)

	var seen int64
	h := Auth(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetUserID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserIDHeader, "5")
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, int64(42), seen)
}

func TestRequestID(t *testing.T) {
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.NewWithRegistry("test", prometheus.NewRegistry())

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m, "test"))
	r.HandleFunc("/bookings/{bookingId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bookings/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bookings/2", nil))

	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/bookings/{bookingId}", "404"))
	assert.Equal(t, float64(2), got)
}
